package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CSVStore is the local fallback backend: one CSV file per table under a
// data directory. Writes are atomic via temp file + rename.
type CSVStore struct {
	table string
	path  string
}

// NewCSVStore creates a CSV-backed table. The file is created lazily on
// the first header write.
func NewCSVStore(dataDir, table string) *CSVStore {
	return &CSVStore{
		table: table,
		path:  filepath.Join(dataDir, table+".csv"),
	}
}

// Name returns the table name.
func (s *CSVStore) Name() string { return s.table }

// ReadAll returns every data row below the header.
func (s *CSVStore) ReadAll(ctx context.Context) ([]Row, error) {
	records, err := s.readRecords()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return rowsFromValues(records[0], records[1:]), nil
}

// ReadHeader returns the column names, or nil when the table is empty.
func (s *CSVStore) ReadHeader(ctx context.Context) ([]string, error) {
	records, err := s.readRecords()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// WriteHeader replaces the header row, keeping all data rows.
func (s *CSVStore) WriteHeader(ctx context.Context, columns []string) error {
	records, err := s.readRecords()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		records = [][]string{columns}
	} else {
		records[0] = columns
	}
	return s.writeRecords(records)
}

// AppendRow appends one data row in header order.
func (s *CSVStore) AppendRow(ctx context.Context, values []string) error {
	records, err := s.readRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("table %q has no header; write the header before appending", s.table)
	}

	records = append(records, values)
	return s.writeRecords(records)
}

// UpdateRow overwrites the data row at rowIndex (1-based below the header).
func (s *CSVStore) UpdateRow(ctx context.Context, rowIndex int, values []string) error {
	records, err := s.readRecords()
	if err != nil {
		return err
	}
	if rowIndex < 1 || rowIndex >= len(records) {
		return fmt.Errorf("row %d out of range for table %q (%d data rows)", rowIndex, s.table, len(records)-1)
	}

	records[rowIndex] = values
	return s.writeRecords(records)
}

func (s *CSVStore) readRecords() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open table %q at %s: %w", s.table, s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse table %q: %w", s.table, err)
	}
	return records, nil
}

func (s *CSVStore) writeRecords(records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file for table %q: %w", s.table, err)
	}

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(records); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write table %q: %w", s.table, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush table %q: %w", s.table, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for table %q: %w", s.table, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace table %q: %w", s.table, err)
	}
	return nil
}
