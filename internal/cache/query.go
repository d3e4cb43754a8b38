package cache

import (
	"context"
	"time"

	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool used by the query layer.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Row is one result row keyed by column name.
type Row = map[string]any

// QueryLayer wraps a SQL client with a short-TTL read cache. Reads go through
// CachedRead; writes are never cached and callers invalidate affected keys.
type QueryLayer struct {
	db      Querier
	cache   *Cache
	metrics *metrics.Metrics
}

func NewQueryLayer(db Querier, c *Cache, m *metrics.Metrics) *QueryLayer {
	return &QueryLayer{db: db, cache: c, metrics: m}
}

// CachedRead returns the rows cached under key when they are younger than ttl,
// otherwise runs the query and caches the result. A failed read is not cached.
// The returned rows are shared with the cache and must not be modified.
func (q *QueryLayer) CachedRead(ctx context.Context, key string, ttl time.Duration, sql string, args ...any) ([]Row, error) {
	if v, ok := q.cache.Get(key, ttl); ok {
		q.metrics.CacheLookup(true)
		return v.([]Row), nil
	}
	q.metrics.CacheLookup(false)

	rows, err := q.Read(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	q.cache.Set(key, rows)
	return rows, nil
}

// Read always goes to the store.
func (q *QueryLayer) Read(ctx context.Context, sql string, args ...any) ([]Row, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Store("cache.read", err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, apperr.Store("cache.read", err)
	}
	return result, nil
}

func (q *QueryLayer) Write(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := q.db.Exec(ctx, sql, args...)
	if err != nil {
		return tag, apperr.Store("cache.write", err)
	}
	return tag, nil
}

func (q *QueryLayer) Invalidate(keys ...string) {
	q.cache.Invalidate(keys...)
}

func (q *QueryLayer) Clear() {
	q.cache.Clear()
}
