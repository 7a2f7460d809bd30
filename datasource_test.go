package record_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/record"
)

func TestArraySource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := record.NewArraySource([]string{"a", "b", "c", "d", "e"})

	tests := []struct {
		offset, limit int64
		want          []string
	}{
		{0, 2, []string{"a", "b"}},
		{3, 10, []string{"d", "e"}},
		{5, 1, []string{}},
		{1, 0, []string{}},
	}
	for _, tt := range tests {
		got, err := src.Items(ctx, tt.offset, tt.limit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Items(%d, %d)", tt.offset, tt.limit)
	}
	_, err := src.Items(ctx, -1, 2)
	assert.Error(t, err)

	n, err := src.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestPaginate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := record.NewArraySource([]int{1, 2, 3, 4, 5, 6, 7})

	page, err := record.Paginate[int](ctx, src, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, page.Items)
	assert.EqualValues(t, 3, page.Pages())
	assert.True(t, page.HasNext())

	page, err = record.Paginate[int](ctx, src, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, page.Items)
	assert.False(t, page.HasNext())

	_, err = record.Paginate[int](ctx, src, 0, 3)
	assert.Error(t, err)
	_, err = record.Paginate[int](ctx, src, 1, 0)
	assert.Error(t, err)

	assert.Zero(t, record.Page[int]{}.Pages())
}
