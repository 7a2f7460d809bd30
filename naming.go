package record

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// tableNamePrefix namespaces the cache keys of derived table names.
const tableNamePrefix = "record.table|"

// Namer memoizes DeriveTableName in a Cache. Concurrent lookups of the
// same type name share one derivation.
type Namer struct {
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
	group singleflight.Group
}

// NewNamer returns a Namer storing derived names in c for ttl. A zero
// ttl keeps names until they are evicted by the cache.
func NewNamer(c Cache, ttl time.Duration) *Namer {
	if c == nil {
		c = NewMemoryCache()
	}
	return &Namer{cache: c, ttl: ttl, log: slog.Default()}
}

// TableName returns the table name of typeName. Cache failures are
// logged and fall back to deriving the name.
func (n *Namer) TableName(ctx context.Context, typeName string) string {
	key := tableNamePrefix + typeName
	if name, ok, err := CacheGet[string](ctx, n.cache, key); err != nil {
		n.log.WarnContext(ctx, "record: table name cache read failed", "type", typeName, "error", err)
	} else if ok {
		return name
	}
	v, _, _ := n.group.Do(typeName, func() (any, error) {
		name := DeriveTableName(typeName)
		if err := CacheSet(ctx, n.cache, key, name, n.ttl); err != nil {
			n.log.WarnContext(ctx, "record: table name cache write failed", "type", typeName, "error", err)
		}
		return name, nil
	})
	return v.(string)
}

// Forget drops every memoized table name.
func (n *Namer) Forget(ctx context.Context) error {
	return n.cache.DeletePrefix(ctx, tableNamePrefix)
}
