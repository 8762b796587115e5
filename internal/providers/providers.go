// Package providers wraps the external book metadata sources. Each
// adapter is independently unreliable and partially populated: a fetch
// that finds nothing returns an empty Record with a nil error, and a
// transport or decode failure returns a non-nil error that callers
// absorb at this boundary rather than propagate.
package providers

import (
	"context"
	"net/http"
	"time"
)

// Record is the partial, single-source metadata fetched for one ISBN.
// Any field may be empty. Records are never persisted directly, only merged.
type Record struct {
	Title         string
	Authors       string // one-or-more names joined with ", "
	Genre         string // subject/category list joined with ", "
	Language      string // source language code, e.g. "en" or "eng"
	Thumbnail     string // cover image URL, https preferred
	Description   string
	Rating        string // provider-specific rating value, e.g. "4.2"
	PublishedDate string
}

// IsEmpty reports whether the record carries no metadata at all.
func (r Record) IsEmpty() bool {
	return r == Record{}
}

// SearchResult is one hit from a free-text search, carrying the
// identifying fields needed to dedup against owned books.
type SearchResult struct {
	ISBN          string // normalized, may be empty
	Title         string
	Authors       string
	Thumbnail     string
	PublishedDate string
}

// Provider defines the interface for a book metadata source.
type Provider interface {
	// Name returns the short source tag used in composite ratings and logs.
	Name() string

	// FetchByISBN retrieves metadata for a normalized ISBN. Not-found is
	// an empty Record with nil error; errors indicate transport or decode
	// failures only.
	FetchByISBN(ctx context.Context, isbn string) (Record, error)
}

// newHTTPClient returns the short-timeout client shared by the adapters.
// Metadata lookups must fail fast and degrade to an empty result.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
	}
}
