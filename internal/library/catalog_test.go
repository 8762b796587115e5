package library

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/misiddons/bookdb/internal/providers"
)

// newTestCatalog wires a Catalog to canned provider responses. Empty
// bodies make the matching endpoint answer 404 so adapter failure paths
// get exercised too.
func newTestCatalog(t *testing.T, googleBody, olBooksBody string) *Catalog {
	t.Helper()

	googleServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if googleBody == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(googleBody))
	}))
	t.Cleanup(googleServer.Close)

	olMux := http.NewServeMux()
	olMux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		if olBooksBody == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(olBooksBody))
	})
	olMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Ratings sub-call endpoints default to not-found.
		http.NotFound(w, r)
	})
	olServer := httptest.NewServer(olMux)
	t.Cleanup(olServer.Close)

	google := providers.NewGoogleBooks()
	google.BaseURL = googleServer.URL
	openlib := providers.NewOpenLibrary()
	openlib.BaseURL = olServer.URL

	return NewCatalogWith(google, openlib)
}

func TestLookupMergesDisjointProviders(t *testing.T) {
	// Provider A has title+author only, provider B has description+language
	// only: the merged record carries all four.
	catalog := newTestCatalog(t,
		`{"items":[{"volumeInfo":{"title":"Dune","authors":["Frank Herbert"]}}]}`,
		`{"ISBN:9780441172719":{"details":{"description":"A desert planet.","languages":[{"key":"/languages/eng"}]}}}`,
	)

	record := catalog.Lookup(context.Background(), "978-0-441-17271-9")

	if record.Title != "Dune" {
		t.Errorf("title = %q", record.Title)
	}
	if record.Author != "Frank Herbert" {
		t.Errorf("author = %q", record.Author)
	}
	if record.Description != "A desert planet." {
		t.Errorf("description = %q", record.Description)
	}
	if record.Language != "English" {
		t.Errorf("language = %q", record.Language)
	}
	if record.ISBN != "9780441172719" {
		t.Errorf("isbn = %q", record.ISBN)
	}
}

func TestLookupBothProvidersFail(t *testing.T) {
	catalog := newTestCatalog(t, "", "")

	record := catalog.Lookup(context.Background(), "9780441172719")
	if record.Title != "" {
		t.Errorf("expected empty title when every provider fails, got %q", record.Title)
	}
	// Provider failure never panics or errors past the boundary; the
	// empty-title record is the signal for manual entry.
}

func TestLookupCachesByISBN(t *testing.T) {
	calls := 0
	googleServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"items":[{"volumeInfo":{"title":"Dune"}}]}`))
	}))
	defer googleServer.Close()
	olServer := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer olServer.Close()

	google := providers.NewGoogleBooks()
	google.BaseURL = googleServer.URL
	openlib := providers.NewOpenLibrary()
	openlib.BaseURL = olServer.URL
	catalog := NewCatalogWith(google, openlib)

	ctx := context.Background()
	catalog.Lookup(ctx, "9780441172719")
	catalog.Lookup(ctx, "9780441172719")

	if calls != 1 {
		t.Errorf("expected 1 upstream call for repeated lookup, got %d", calls)
	}
}

func TestLookupEmptyISBN(t *testing.T) {
	catalog := newTestCatalog(t, "", "")
	record := catalog.Lookup(context.Background(), "not-an-isbn")
	if !record.IsEmpty() {
		t.Errorf("expected empty record for digit-free input, got %+v", record)
	}
}
