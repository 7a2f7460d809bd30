package record

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &MemoryCache{now: func() time.Time { return now }}

	v, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	v, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	now = now.Add(time.Minute)
	v, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v, "entry expired")
	v, err = c.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v, "zero ttl never expires")
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Set(ctx, "p|1", []byte("x"), 0))
	require.NoError(t, c.Set(ctx, "p|2", []byte("y"), 0))
	require.NoError(t, c.DeletePrefix(ctx, "p|"))
	assert.Equal(t, 1, c.Len())
	require.NoError(t, c.Delete(ctx, "b"))
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))
	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	type entry struct {
		Table   string
		Columns []string
	}
	want := entry{Table: "users", Columns: []string{"id", "name"}}
	require.NoError(t, CacheSet(ctx, c, "users", want, 0))
	got, ok, err := CacheGet[entry](ctx, c, "users")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok, err = CacheGet[entry](ctx, c, "pets")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "bad", []byte{0xc1}, 0))
	_, ok, err = CacheGet[string](ctx, c, "bad")
	assert.Error(t, err)
	assert.False(t, ok)
}

// failingCache fails every operation.
type failingCache struct{ MemoryCache }

func (*failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache down")
}

func (*failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func TestNamer(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	n := NewNamer(c, time.Hour)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "order_item", n.TableName(ctx, "shop.OrderItemModel"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())

	name, ok, err := CacheGet[string](ctx, c, tableNamePrefix+"shop.OrderItemModel")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "order_item", name)

	require.NoError(t, c.Set(ctx, "other", []byte("x"), 0))
	require.NoError(t, n.Forget(ctx))
	assert.Equal(t, 1, c.Len(), "only table names are forgotten")
}

func TestNamerCacheFailure(t *testing.T) {
	n := NewNamer(&failingCache{}, 0)
	n.log = slog.New(slog.DiscardHandler)
	assert.Equal(t, "user", n.TableName(context.Background(), "User"))
}
