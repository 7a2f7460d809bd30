package record

import (
	"context"
	"fmt"

	"github.com/syssam/record/dialect"
)

// DataSource is a paginated collection. Record implements
// DataSource[dialect.Row] over its armed query.
type DataSource[T any] interface {
	Items(ctx context.Context, offset, limit int64) ([]T, error)
	Count(ctx context.Context) (int64, error)
}

var _ DataSource[dialect.Row] = (*Record)(nil)

// ArraySource is a DataSource over a fixed slice.
type ArraySource[T any] struct {
	items []T
}

// NewArraySource returns a DataSource over items.
func NewArraySource[T any](items []T) *ArraySource[T] {
	return &ArraySource[T]{items: items}
}

// Items returns up to limit items starting at offset.
func (a *ArraySource[T]) Items(_ context.Context, offset, limit int64) ([]T, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("record: negative offset (%d) or limit (%d)", offset, limit)
	}
	n := int64(len(a.items))
	if offset >= n {
		return []T{}, nil
	}
	end := min(offset+limit, n)
	return a.items[offset:end:end], nil
}

// Count returns the number of items.
func (a *ArraySource[T]) Count(context.Context) (int64, error) {
	return int64(len(a.items)), nil
}

// Page is a single page of a DataSource.
type Page[T any] struct {
	Items   []T
	Number  int64 // 1-based page number
	PerPage int64
	Total   int64
}

// Pages returns the number of pages.
func (p Page[T]) Pages() int64 {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Number < p.Pages()
}

// Paginate returns page number (1-based) of src with perPage items per
// page.
func Paginate[T any](ctx context.Context, src DataSource[T], number, perPage int64) (Page[T], error) {
	if number < 1 || perPage < 1 {
		return Page[T]{}, fmt.Errorf("record: invalid page %d of size %d", number, perPage)
	}
	total, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	items, err := src.Items(ctx, (number-1)*perPage, perPage)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Number: number, PerPage: perPage, Total: total}, nil
}
