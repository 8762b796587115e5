package store

import (
	"context"

	"github.com/misiddons/bookdb/internal/cache"
)

// Cached is a read-through wrapper around a RecordStore. Whole-table
// reads are cached for the cache's TTL; every successful write clears the
// whole cache, so a cache shared across tables stays consistent with
// cross-table duplicate checks.
type Cached struct {
	inner RecordStore
	reads *cache.Cache
}

// NewCached wraps a store with a shared read cache.
func NewCached(inner RecordStore, reads *cache.Cache) *Cached {
	return &Cached{inner: inner, reads: reads}
}

// Name returns the wrapped table name.
func (c *Cached) Name() string { return c.inner.Name() }

// ReadAll serves rows from cache when fresh.
func (c *Cached) ReadAll(ctx context.Context) ([]Row, error) {
	key := "rows:" + c.inner.Name()
	if v, ok := c.reads.Get(key); ok {
		return v.([]Row), nil
	}

	rows, err := c.inner.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	c.reads.Set(key, rows)
	return rows, nil
}

// ReadHeader serves the header from cache when fresh.
func (c *Cached) ReadHeader(ctx context.Context) ([]string, error) {
	key := "header:" + c.inner.Name()
	if v, ok := c.reads.Get(key); ok {
		return v.([]string), nil
	}

	header, err := c.inner.ReadHeader(ctx)
	if err != nil {
		return nil, err
	}
	c.reads.Set(key, header)
	return header, nil
}

// WriteHeader writes through and invalidates all cached reads.
func (c *Cached) WriteHeader(ctx context.Context, columns []string) error {
	if err := c.inner.WriteHeader(ctx, columns); err != nil {
		return err
	}
	c.reads.Invalidate()
	return nil
}

// AppendRow writes through and invalidates all cached reads.
func (c *Cached) AppendRow(ctx context.Context, values []string) error {
	if err := c.inner.AppendRow(ctx, values); err != nil {
		return err
	}
	c.reads.Invalidate()
	return nil
}

// UpdateRow writes through and invalidates all cached reads.
func (c *Cached) UpdateRow(ctx context.Context, rowIndex int, values []string) error {
	if err := c.inner.UpdateRow(ctx, rowIndex, values); err != nil {
		return err
	}
	c.reads.Invalidate()
	return nil
}
