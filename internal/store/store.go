// Package store abstracts the spreadsheet-backed row tables ("Library"
// and "Wishlist"). Two backends exist: Google Sheets and a local CSV
// fallback. Rows are string-keyed mappings in header order; the ISBN
// column round-trips as text even when numeric via a leading-quote
// convention.
package store

import (
	"context"
	"strings"
)

// Row is one table row keyed by column name.
type Row map[string]string

// RecordStore is a named table supporting ordered reads, appends, and
// in-place row updates. Row indexes are 1-based counting from the first
// data row below the header.
type RecordStore interface {
	Name() string
	ReadAll(ctx context.Context) ([]Row, error)
	ReadHeader(ctx context.Context) ([]string, error)
	WriteHeader(ctx context.Context, columns []string) error
	AppendRow(ctx context.Context, values []string) error
	UpdateRow(ctx context.Context, rowIndex int, values []string) error
}

// FormatISBNCell prefixes a purely numeric ISBN with a leading quote so
// spreadsheet backends keep it as text instead of reinterpreting it as a
// number (which strips leading zeros and mangles 13-digit values).
func FormatISBNCell(value string) string {
	if value == "" || strings.HasPrefix(value, "'") {
		return value
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return value
		}
	}
	return "'" + value
}

// rowsFromValues zips a header with raw cell rows, tolerating short rows.
func rowsFromValues(header []string, values [][]string) []Row {
	rows := make([]Row, 0, len(values))
	for _, cells := range values {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
