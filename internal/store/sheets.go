package store

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore backs a table with one tab of a Google Sheets spreadsheet.
type SheetsStore struct {
	spreadsheetID string
	table         string
	service       *sheets.Service
}

// NewSheetsService builds the shared Sheets API client from a service
// account credentials file.
func NewSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client (check credentials at %s): %w", credentialsFile, err)
	}
	return service, nil
}

// NewSheetsStore creates a Sheets-backed table for one spreadsheet tab.
func NewSheetsStore(service *sheets.Service, spreadsheetID, table string) *SheetsStore {
	return &SheetsStore{
		spreadsheetID: spreadsheetID,
		table:         table,
		service:       service,
	}
}

// Name returns the table name.
func (s *SheetsStore) Name() string { return s.table }

// ReadAll returns every data row below the header.
func (s *SheetsStore) ReadAll(ctx context.Context) ([]Row, error) {
	values, err := s.readValues(ctx)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return rowsFromValues(values[0], values[1:]), nil
}

// ReadHeader returns the column names, or nil when the tab is empty.
func (s *SheetsStore) ReadHeader(ctx context.Context) ([]string, error) {
	values, err := s.readValues(ctx)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

// WriteHeader replaces the header row in place.
func (s *SheetsStore) WriteHeader(ctx context.Context, columns []string) error {
	vr := &sheets.ValueRange{Values: [][]any{toAnyRow(columns)}}
	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, fmt.Sprintf("%s!A1", s.table), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write header of tab %q in spreadsheet %s: %w", s.table, s.spreadsheetID, err)
	}
	return nil
}

// AppendRow appends one data row in header order.
func (s *SheetsStore) AppendRow(ctx context.Context, values []string) error {
	vr := &sheets.ValueRange{Values: [][]any{toAnyRow(values)}}
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.table, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to tab %q in spreadsheet %s: %w", s.table, s.spreadsheetID, err)
	}
	return nil
}

// UpdateRow overwrites the data row at rowIndex (1-based below the
// header, so sheet row rowIndex+1).
func (s *SheetsStore) UpdateRow(ctx context.Context, rowIndex int, values []string) error {
	vr := &sheets.ValueRange{Values: [][]any{toAnyRow(values)}}
	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, fmt.Sprintf("%s!A%d", s.table, rowIndex+1), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d of tab %q in spreadsheet %s: %w", rowIndex, s.table, s.spreadsheetID, err)
	}
	return nil
}

func (s *SheetsStore) readValues(ctx context.Context) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, s.table).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read tab %q from spreadsheet %s (is the tab present and shared with the service account?): %w",
			s.table, s.spreadsheetID, err)
	}

	values := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		cells := make([]string, 0, len(raw))
		for _, cell := range raw {
			cells = append(cells, fmt.Sprint(cell))
		}
		values = append(values, cells)
	}
	return values, nil
}

func toAnyRow(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
