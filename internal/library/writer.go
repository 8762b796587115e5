package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/misiddons/bookdb/internal/isbn"
	"github.com/misiddons/bookdb/internal/models"
	"github.com/misiddons/bookdb/internal/store"
)

// Outcome is the result of a deduplicating append. Duplicates are normal
// outcomes, not errors.
type Outcome int

const (
	Appended Outcome = iota
	SkippedDuplicateISBN
	SkippedDuplicateTitleAuthor
)

// String returns the user-facing outcome label.
func (o Outcome) String() string {
	switch o {
	case Appended:
		return "appended"
	case SkippedDuplicateISBN:
		return "skipped: duplicate ISBN"
	case SkippedDuplicateTitleAuthor:
		return "skipped: duplicate title/author"
	}
	return "unknown"
}

// AppendIfNew appends record to target unless it duplicates an existing
// row in target or any sibling table. A book must be unique across both
// Library and Wishlist, not merely within one. Identity is the normalized
// ISBN first, the lowercased (title, author) pair second.
//
// A narrow race exists: two near-simultaneous submissions can both pass
// the duplicate check before either appends. The human-facing cost of an
// occasional duplicate row is low and a later audit pass surfaces it.
func AppendIfNew(ctx context.Context, target store.RecordStore, record models.BookRecord, siblings ...store.RecordStore) (Outcome, error) {
	if record.IsEmpty() {
		return Appended, fmt.Errorf("refusing to store a record with no title and no author")
	}

	existingISBNs := make(map[string]bool)
	existingPairs := make(map[[2]string]bool)

	for _, table := range append([]store.RecordStore{target}, siblings...) {
		rows, err := table.ReadAll(ctx)
		if err != nil {
			return Appended, fmt.Errorf("failed to read table %q for duplicate check: %w", table.Name(), err)
		}
		for _, row := range rows {
			if key := isbn.Normalize(row["ISBN"]); key != "" {
				existingISBNs[key] = true
			}
			pair := titleAuthorKey(row["Title"], row["Author"])
			if pair[0] != "" || pair[1] != "" {
				existingPairs[pair] = true
			}
		}
	}

	incomingISBN := isbn.Normalize(record.ISBN)
	if incomingISBN != "" && existingISBNs[incomingISBN] {
		slog.Info("Skipping duplicate ISBN", "table", target.Name(), "isbn", incomingISBN, "title", record.Title)
		return SkippedDuplicateISBN, nil
	}

	incomingPair := titleAuthorKey(record.Title, record.Author)
	if (incomingPair[0] != "" || incomingPair[1] != "") && existingPairs[incomingPair] {
		slog.Info("Skipping duplicate title/author", "table", target.Name(), "title", record.Title, "author", record.Author)
		return SkippedDuplicateTitleAuthor, nil
	}

	header, err := ensureHeader(ctx, target)
	if err != nil {
		return Appended, err
	}

	record.ISBN = incomingISBN
	if err := target.AppendRow(ctx, rowValues(header, record)); err != nil {
		return Appended, fmt.Errorf("failed to append %q to table %q: %w", record.Title, target.Name(), err)
	}

	slog.Info("Appended record", "table", target.Name(), "isbn", incomingISBN, "title", record.Title, "author", record.Author)
	return Appended, nil
}

// ensureHeader makes sure the table has a header covering every canonical
// column. Pre-existing extra columns are preserved at the end, never
// dropped; missing canonical columns are appended.
func ensureHeader(ctx context.Context, table store.RecordStore) ([]string, error) {
	header, err := table.ReadHeader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read header of table %q: %w", table.Name(), err)
	}

	if len(header) == 0 {
		header = append([]string(nil), models.Columns...)
		if err := table.WriteHeader(ctx, header); err != nil {
			return nil, fmt.Errorf("failed to create header of table %q: %w", table.Name(), err)
		}
		return header, nil
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	extended := false
	for _, col := range models.Columns {
		if !present[col] {
			header = append(header, col)
			extended = true
		}
	}
	if extended {
		if err := table.WriteHeader(ctx, header); err != nil {
			return nil, fmt.Errorf("failed to extend header of table %q: %w", table.Name(), err)
		}
	}

	return header, nil
}

// rowValues lays a record out in header order. The ISBN cell gets the
// text-preserving prefix; unknown user columns stay empty.
func rowValues(header []string, record models.BookRecord) []string {
	values := make([]string, len(header))
	for i, col := range header {
		if col == "ISBN" {
			values[i] = store.FormatISBNCell(record.ISBN)
			continue
		}
		values[i] = record.Field(col)
	}
	return values
}

// titleAuthorKey builds the case- and whitespace-insensitive identity
// pair for title+author duplicate detection.
func titleAuthorKey(title, author string) [2]string {
	return [2]string{
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(author)),
	}
}
