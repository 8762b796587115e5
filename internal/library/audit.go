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

// Discrepancy kinds. A mismatch means the stored value disagrees with the
// canonical one; a gap means the stored cell is blank where canonical
// data exists. Gaps are lower severity: they fill, they never fix.
const (
	KindMismatch = "mismatch"
	KindGap      = "gap"
)

// Discrepancy is one advisory finding from an audit pass. Nothing is
// written until a human accepts it via Apply.
type Discrepancy struct {
	RowIndex       int     `json:"row_index"`
	Field          string  `json:"field"`
	Stored         string  `json:"stored"`
	Canonical      string  `json:"canonical"`
	Kind           string  `json:"kind"`
	Classification string  `json:"classification"`
	Similarity     float64 `json:"similarity,omitempty"`
}

// Auditor re-derives canonical records for stored rows and fuzzy-compares
// the sheet against them.
type Auditor struct {
	catalog *Catalog
}

// NewAuditor creates an auditor over a catalog service.
func NewAuditor(catalog *Catalog) *Auditor {
	return &Auditor{catalog: catalog}
}

// Audit walks every row of table and returns the discrepancies found.
// Best-effort and advisory: a row whose ISBN cannot be determined, or
// whose canonical record cannot be derived, is skipped, never a hard
// error. Audit itself never writes.
func (a *Auditor) Audit(ctx context.Context, table store.RecordStore) ([]Discrepancy, error) {
	rows, err := table.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q for audit: %w", table.Name(), err)
	}

	var findings []Discrepancy
	for i, row := range rows {
		rowIndex := i + 1

		key := isbn.Normalize(row["ISBN"])
		if key == "" {
			// Recover via title+author search; rows that stay unknown are
			// left unaudited for this pass.
			key = a.catalog.RecoverISBN(ctx, row["Title"], row["Author"])
			if key == "" {
				slog.Debug("Skipping row without recoverable ISBN", "table", table.Name(), "row", rowIndex, "title", row["Title"])
				continue
			}
		}

		canonical := a.catalog.Lookup(ctx, key)
		if canonical.IsEmpty() {
			slog.Debug("Skipping row with no canonical record", "table", table.Name(), "row", rowIndex, "isbn", key)
			continue
		}

		findings = append(findings, auditRow(rowIndex, row, canonical)...)
	}

	slog.Info("Audit complete", "table", table.Name(), "rows", len(rows), "findings", len(findings))
	return findings, nil
}

// auditRow compares one stored row against its canonical record.
func auditRow(rowIndex int, row store.Row, canonical models.BookRecord) []Discrepancy {
	var findings []Discrepancy

	titleRatio := Similarity(NormalizeTitle(row["Title"]), NormalizeTitle(canonical.Title))
	if class := Classify(titleRatio); class != MatchExact {
		findings = append(findings, Discrepancy{
			RowIndex:       rowIndex,
			Field:          "Title",
			Stored:         row["Title"],
			Canonical:      canonical.Title,
			Kind:           KindMismatch,
			Classification: class,
			Similarity:     titleRatio,
		})
	}

	authorRatio := Similarity(NormalizeAuthor(row["Author"]), NormalizeAuthor(canonical.Author))
	if class := Classify(authorRatio); class != MatchExact {
		findings = append(findings, Discrepancy{
			RowIndex:       rowIndex,
			Field:          "Author",
			Stored:         row["Author"],
			Canonical:      canonical.Author,
			Kind:           KindMismatch,
			Classification: class,
			Similarity:     authorRatio,
		})
	}

	// Fill gaps: blank stored cell, non-empty canonical value.
	for _, field := range []string{"Description", "Language", "Thumbnail"} {
		if strings.TrimSpace(row[field]) == "" && canonical.Field(field) != "" {
			findings = append(findings, Discrepancy{
				RowIndex:       rowIndex,
				Field:          field,
				Stored:         row[field],
				Canonical:      canonical.Field(field),
				Kind:           KindGap,
				Classification: KindGap,
			})
		}
	}

	return findings
}

// Apply overwrites the named fields of the row at rowIndex with values
// from corrected, in place. Untouched columns, including user-added
// extras, keep their stored values. The ISBN text-prefix convention is
// preserved.
func (a *Auditor) Apply(ctx context.Context, table store.RecordStore, rowIndex int, corrected models.BookRecord, fields []string) error {
	header, err := table.ReadHeader(ctx)
	if err != nil {
		return fmt.Errorf("failed to read header of table %q: %w", table.Name(), err)
	}
	if len(header) == 0 {
		return fmt.Errorf("table %q has no header; nothing to repair", table.Name())
	}

	rows, err := table.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read table %q: %w", table.Name(), err)
	}
	if rowIndex < 1 || rowIndex > len(rows) {
		return fmt.Errorf("row %d out of range for table %q (%d data rows)", rowIndex, table.Name(), len(rows))
	}

	overwrite := make(map[string]bool, len(fields))
	for _, f := range fields {
		overwrite[f] = true
	}

	row := rows[rowIndex-1]
	values := make([]string, len(header))
	for i, col := range header {
		value := row[col]
		if overwrite[col] {
			value = corrected.Field(col)
		}
		if col == "ISBN" {
			value = store.FormatISBNCell(isbn.Normalize(value))
		}
		values[i] = value
	}

	if err := table.UpdateRow(ctx, rowIndex, values); err != nil {
		return fmt.Errorf("failed to repair row %d of table %q: %w", rowIndex, table.Name(), err)
	}

	slog.Info("Applied repair", "table", table.Name(), "row", rowIndex, "fields", strings.Join(fields, ","))
	return nil
}
