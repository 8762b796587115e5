package library

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/misiddons/bookdb/internal/isbn"
	"github.com/misiddons/bookdb/internal/providers"
	"github.com/misiddons/bookdb/internal/store"
)

// OwnedIndex holds the identity sets of everything already in the
// collection, so recommendations never suggest a book the user has.
type OwnedIndex struct {
	titles map[string]bool
	isbns  map[string]bool
}

// BuildOwnedIndex reads every given table into an identity index.
func BuildOwnedIndex(ctx context.Context, tables ...store.RecordStore) (OwnedIndex, error) {
	owned := OwnedIndex{
		titles: make(map[string]bool),
		isbns:  make(map[string]bool),
	}
	for _, table := range tables {
		rows, err := table.ReadAll(ctx)
		if err != nil {
			return OwnedIndex{}, fmt.Errorf("failed to read table %q: %w", table.Name(), err)
		}
		for _, row := range rows {
			if t := strings.ToLower(strings.TrimSpace(row["Title"])); t != "" {
				owned.titles[t] = true
			}
			if key := isbn.Normalize(row["ISBN"]); key != "" {
				owned.isbns[key] = true
			}
		}
	}
	return owned, nil
}

// Contains reports whether a search hit matches an owned book by
// normalized ISBN or lowercased title.
func (o OwnedIndex) Contains(hit providers.SearchResult) bool {
	if hit.ISBN != "" && o.isbns[hit.ISBN] {
		return true
	}
	return o.titles[strings.ToLower(strings.TrimSpace(hit.Title))]
}

// Recommender suggests unseen books from authors the user already reads.
type Recommender struct {
	catalog *Catalog
	rand    *rand.Rand
}

// NewRecommender creates a recommender over a catalog service.
func NewRecommender(catalog *Catalog, seed int64) *Recommender {
	return &Recommender{
		catalog: catalog,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

// ByAuthor returns up to n unseen picks for one author.
func (r *Recommender) ByAuthor(ctx context.Context, author string, n int, owned OwnedIndex) ([]providers.SearchResult, error) {
	hits, err := r.catalog.SearchByAuthor(ctx, author, 40)
	if err != nil {
		return nil, fmt.Errorf("failed to search books by %q: %w", author, err)
	}

	r.rand.Shuffle(len(hits), func(i, j int) { hits[i], hits[j] = hits[j], hits[i] })

	var picks []providers.SearchResult
	seen := make(map[string]bool)
	for _, hit := range hits {
		titleKey := strings.ToLower(strings.TrimSpace(hit.Title))
		if owned.Contains(hit) || seen[titleKey] {
			continue
		}
		seen[titleKey] = true
		picks = append(picks, hit)
		if len(picks) == n {
			break
		}
	}
	return picks, nil
}

// Surprise rotates through up to n random authors from the library and
// picks one unseen book from each.
func (r *Recommender) Surprise(ctx context.Context, n int, library store.RecordStore, owned OwnedIndex) ([]providers.SearchResult, error) {
	rows, err := library.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", library.Name(), err)
	}

	authorSet := make(map[string]bool)
	for _, row := range rows {
		if author := strings.TrimSpace(row["Author"]); author != "" {
			authorSet[author] = true
		}
	}
	authors := make([]string, 0, len(authorSet))
	for author := range authorSet {
		authors = append(authors, author)
	}
	sort.Strings(authors)
	r.rand.Shuffle(len(authors), func(i, j int) { authors[i], authors[j] = authors[j], authors[i] })

	if len(authors) > n {
		authors = authors[:n]
	}

	var picks []providers.SearchResult
	for _, author := range authors {
		fromAuthor, err := r.ByAuthor(ctx, author, 1, owned)
		if err != nil {
			// One failing author search never sinks the whole pass.
			continue
		}
		picks = append(picks, fromAuthor...)
	}
	return picks, nil
}
