package export

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/misiddons/bookdb/internal/isbn"
	"github.com/misiddons/bookdb/internal/store"
)

// BookRow is the flat snapshot shape written to export files. ISBN cells
// lose their spreadsheet text prefix so downstream tools see plain digits.
type BookRow struct {
	ISBN          string `parquet:"isbn" json:"isbn"`
	Title         string `parquet:"title" json:"title"`
	Author        string `parquet:"author" json:"author"`
	Genre         string `parquet:"genre" json:"genre,omitempty"`
	Language      string `parquet:"language" json:"language,omitempty"`
	Thumbnail     string `parquet:"thumbnail" json:"thumbnail,omitempty"`
	Description   string `parquet:"description" json:"description,omitempty"`
	Rating        string `parquet:"rating" json:"rating,omitempty"`
	PublishedDate string `parquet:"published_date" json:"published_date,omitempty"`
	DateRead      string `parquet:"date_read" json:"date_read,omitempty"`
}

// Snapshot reads every row of table into export rows.
func Snapshot(ctx context.Context, table store.RecordStore) ([]BookRow, error) {
	rows, err := table.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q for export: %w", table.Name(), err)
	}

	out := make([]BookRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, BookRow{
			ISBN:          isbn.Normalize(row["ISBN"]),
			Title:         row["Title"],
			Author:        row["Author"],
			Genre:         row["Genre"],
			Language:      row["Language"],
			Thumbnail:     row["Thumbnail"],
			Description:   row["Description"],
			Rating:        row["Rating"],
			PublishedDate: row["PublishedDate"],
			DateRead:      row["Date Read"],
		})
	}
	return out, nil
}

// Write snapshots table to path, choosing the format from the file
// extension (.parquet, .jsonl or .json).
func Write(ctx context.Context, table store.RecordStore, path string) error {
	rows, err := Snapshot(ctx, table)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".parquet":
		err = writeParquet(path, rows)
	case ".jsonl", ".json":
		err = writeJSONL(path, rows)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: .parquet, .jsonl)", ext)
	}
	if err != nil {
		return err
	}

	slog.Info("Exported table", "table", table.Name(), "path", path, "rows", len(rows))
	return nil
}

func writeParquet(path string, rows []BookRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[BookRow](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func writeJSONL(path string, rows []BookRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode export row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush export file: %w", err)
	}
	return nil
}

// Read loads an export file back into rows. Round trips both formats.
func Read(path string) ([]BookRow, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".parquet":
		return readParquet(path)
	case ".jsonl", ".json":
		return readJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported export format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func readParquet(path string) ([]BookRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[BookRow](pf)
	defer reader.Close()

	var records []BookRow
	batch := make([]BookRow, 128)
	for {
		n, err := reader.Read(batch)
		if n > 0 {
			records = append(records, batch[:n]...)
		}
		if err != nil {
			break
		}
	}
	return records, nil
}

func readJSONL(path string) ([]BookRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	var records []BookRow
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row BookRow
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading export file: %w", err)
	}
	return records, nil
}
