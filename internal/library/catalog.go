// Package library implements the reconciliation core: canonical record
// derivation, deduplicating writes, and the cross-reference audit.
package library

import (
	"context"
	"log/slog"
	"time"

	"github.com/misiddons/bookdb/internal/cache"
	"github.com/misiddons/bookdb/internal/isbn"
	"github.com/misiddons/bookdb/internal/merge"
	"github.com/misiddons/bookdb/internal/models"
	"github.com/misiddons/bookdb/internal/providers"
)

// metadataTTL is deliberately long: published book metadata is
// near-immutable, and the cache exists to bound external call volume.
const metadataTTL = 24 * time.Hour

// Catalog derives canonical BookRecords from the two metadata providers.
// Provider failures are absorbed here: a failing provider contributes an
// empty record to the merge and the lookup still succeeds.
type Catalog struct {
	google   *providers.GoogleBooks
	openlib  *providers.OpenLibrary
	metadata *cache.Cache
}

// NewCatalog creates a catalog service over the default provider endpoints.
func NewCatalog() *Catalog {
	return &Catalog{
		google:   providers.NewGoogleBooks(),
		openlib:  providers.NewOpenLibrary(),
		metadata: cache.New(metadataTTL),
	}
}

// NewCatalogWith creates a catalog service over explicit adapters. Used
// by tests and by callers that need custom endpoints.
func NewCatalogWith(google *providers.GoogleBooks, openlib *providers.OpenLibrary) *Catalog {
	return &Catalog{
		google:   google,
		openlib:  openlib,
		metadata: cache.New(metadataTTL),
	}
}

// Lookup returns the canonical merged record for an ISBN. A record with
// an empty title means neither provider knew the book; the caller decides
// whether to prompt for manual entry.
func (c *Catalog) Lookup(ctx context.Context, rawISBN string) models.BookRecord {
	key := isbn.Normalize(rawISBN)
	if key == "" {
		return models.BookRecord{}
	}

	if v, ok := c.metadata.Get(key); ok {
		return v.(models.BookRecord)
	}

	google := c.fetch(ctx, c.google, key)
	openlib := c.fetch(ctx, c.openlib, key)

	// Ratings live behind a separate Open Library endpoint keyed by ISBN,
	// not the primary metadata call.
	olRating, err := c.openlib.RatingByISBN(ctx, key)
	if err != nil {
		slog.Warn("Open Library rating lookup failed", "isbn", key, "error", err)
		olRating = ""
	}

	record := merge.Merge(google, openlib, key, olRating)
	c.metadata.Set(key, record)
	return record
}

// RecoverISBN attempts to find an ISBN for a title+author pair via the
// Google Books search API. Best-effort: "" means the row stays unaudited.
func (c *Catalog) RecoverISBN(ctx context.Context, title, author string) string {
	found, err := c.google.SearchISBN(ctx, title, author)
	if err != nil {
		slog.Warn("ISBN recovery search failed", "title", title, "author", author, "error", err)
		return ""
	}
	return found
}

// SearchByAuthor proxies the Google Books author search for the
// recommendations feature.
func (c *Catalog) SearchByAuthor(ctx context.Context, author string, limit int) ([]providers.SearchResult, error) {
	return c.google.SearchByAuthor(ctx, author, limit)
}

// fetch absorbs provider failures into an empty record, per the adapter
// boundary contract: no provider error escapes a lookup.
func (c *Catalog) fetch(ctx context.Context, p providers.Provider, key string) providers.Record {
	record, err := p.FetchByISBN(ctx, key)
	if err != nil {
		slog.Warn("Provider fetch failed", "provider", p.Name(), "isbn", key, "error", err)
		return providers.Record{}
	}
	if record.IsEmpty() {
		slog.Debug("Provider returned no data", "provider", p.Name(), "isbn", key)
	}
	return record
}
