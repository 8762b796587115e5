package store

import (
	"context"
	"testing"
	"time"

	"github.com/misiddons/bookdb/internal/cache"
)

func TestCSVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewCSVStore(t.TempDir(), "Library")

	// Empty table: no header, no rows, no error.
	header, err := s.ReadHeader(ctx)
	if err != nil {
		t.Fatalf("ReadHeader on empty table: %v", err)
	}
	if header != nil {
		t.Fatalf("expected nil header, got %v", header)
	}

	if err := s.WriteHeader(ctx, []string{"ISBN", "Title", "Author"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := s.AppendRow(ctx, []string{"'9780441172719", "Dune", "Frank Herbert"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := s.AppendRow(ctx, []string{"", "Hyperion", "Dan Simmons"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	rows, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Title"] != "Dune" || rows[0]["ISBN"] != "'9780441172719" {
		t.Errorf("row 0 mismatch: %v", rows[0])
	}
	if rows[1]["Author"] != "Dan Simmons" {
		t.Errorf("row 1 mismatch: %v", rows[1])
	}
}

func TestCSVStoreUpdateRow(t *testing.T) {
	ctx := context.Background()
	s := NewCSVStore(t.TempDir(), "Wishlist")

	if err := s.WriteHeader(ctx, []string{"ISBN", "Title"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendRow(ctx, []string{"1", "Old Title"}); err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateRow(ctx, 1, []string{"1", "New Title"}); err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}

	rows, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("update must not change row count, got %d rows", len(rows))
	}
	if rows[0]["Title"] != "New Title" {
		t.Errorf("row not updated: %v", rows[0])
	}

	if err := s.UpdateRow(ctx, 5, []string{"1", "X"}); err == nil {
		t.Error("expected error for out-of-range row index")
	}
}

func TestCSVStoreExtendHeaderKeepsRows(t *testing.T) {
	ctx := context.Background()
	s := NewCSVStore(t.TempDir(), "Library")

	if err := s.WriteHeader(ctx, []string{"ISBN", "Title"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendRow(ctx, []string{"1", "Dune"}); err != nil {
		t.Fatal(err)
	}

	if err := s.WriteHeader(ctx, []string{"ISBN", "Title", "Author"}); err != nil {
		t.Fatal(err)
	}

	header, err := s.ReadHeader(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(header) != 3 || header[2] != "Author" {
		t.Errorf("header not extended: %v", header)
	}

	rows, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["Title"] != "Dune" {
		t.Errorf("data rows lost on header rewrite: %v", rows)
	}
}

func TestFormatISBNCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9780441172719", "'9780441172719"},
		{"'9780441172719", "'9780441172719"},
		{"", ""},
		{"not-a-number", "not-a-number"},
	}

	for _, tt := range tests {
		if got := FormatISBNCell(tt.in); got != tt.want {
			t.Errorf("FormatISBNCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCachedStoreInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	reads := cache.New(time.Minute)

	inner := NewCSVStore(t.TempDir(), "Library")
	s := NewCached(inner, reads)

	if err := s.WriteHeader(ctx, []string{"ISBN", "Title"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendRow(ctx, []string{"1", "Dune"}); err != nil {
		t.Fatal(err)
	}

	rows, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	// Append through the wrapper: the next read must observe the new row,
	// not the cached snapshot.
	if err := s.AppendRow(ctx, []string{"2", "Hyperion"}); err != nil {
		t.Fatal(err)
	}
	rows, err = s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("cache not invalidated on write: got %d rows", len(rows))
	}
}
