package library

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/misiddons/bookdb/internal/store"
)

// AuthorCount is one entry of the top-authors ranking.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// Stats summarizes the collection across both tables.
type Stats struct {
	LibraryCount  int           `json:"library_count"`
	WishlistCount int           `json:"wishlist_count"`
	UniqueAuthors int           `json:"unique_authors"`
	TopAuthors    []AuthorCount `json:"top_authors"`
}

// topAuthorsLimit caps the ranking length.
const topAuthorsLimit = 10

// ComputeStats reads both tables and aggregates collection statistics.
// Author grouping relies on rows holding a single primary author, which
// the merger guarantees for everything it wrote.
func ComputeStats(ctx context.Context, library, wishlist store.RecordStore) (Stats, error) {
	libraryRows, err := library.ReadAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read table %q: %w", library.Name(), err)
	}
	wishlistRows, err := wishlist.ReadAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read table %q: %w", wishlist.Name(), err)
	}

	counts := make(map[string]int)
	display := make(map[string]string)
	for _, row := range libraryRows {
		author := strings.TrimSpace(row["Author"])
		if author == "" {
			continue
		}
		key := strings.ToLower(author)
		counts[key]++
		if _, ok := display[key]; !ok {
			display[key] = author
		}
	}

	stats := Stats{
		LibraryCount:  len(libraryRows),
		WishlistCount: len(wishlistRows),
		UniqueAuthors: len(counts),
	}

	for key, n := range counts {
		stats.TopAuthors = append(stats.TopAuthors, AuthorCount{Author: display[key], Count: n})
	}
	sort.Slice(stats.TopAuthors, func(i, j int) bool {
		if stats.TopAuthors[i].Count != stats.TopAuthors[j].Count {
			return stats.TopAuthors[i].Count > stats.TopAuthors[j].Count
		}
		return stats.TopAuthors[i].Author < stats.TopAuthors[j].Author
	})
	if len(stats.TopAuthors) > topAuthorsLimit {
		stats.TopAuthors = stats.TopAuthors[:topAuthorsLimit]
	}

	return stats, nil
}
