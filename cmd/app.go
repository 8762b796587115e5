package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/misiddons/bookdb/internal/cache"
	"github.com/misiddons/bookdb/internal/library"
	"github.com/misiddons/bookdb/internal/store"
)

// tableReadTTL bounds how stale a whole-table read may be between writes.
const tableReadTTL = 5 * time.Minute

// app is the wired application: both tables plus the catalog service.
// Backend selection is environment-driven. BOOKDB_SPREADSHEET_ID picks
// Google Sheets; without it the tables live as CSV files under
// BOOKDB_DATA_DIR (default "data").
type app struct {
	library  store.RecordStore
	wishlist store.RecordStore
	catalog  *library.Catalog
}

func newApp(ctx context.Context) (*app, error) {
	reads := cache.New(tableReadTTL)

	libraryTable, wishlistTable, err := openTables(ctx)
	if err != nil {
		return nil, err
	}

	return &app{
		library:  store.NewCached(libraryTable, reads),
		wishlist: store.NewCached(wishlistTable, reads),
		catalog:  library.NewCatalog(),
	}, nil
}

func openTables(ctx context.Context) (store.RecordStore, store.RecordStore, error) {
	spreadsheetID := os.Getenv("BOOKDB_SPREADSHEET_ID")
	if spreadsheetID != "" {
		credentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentials == "" {
			return nil, nil, fmt.Errorf("BOOKDB_SPREADSHEET_ID is set but GOOGLE_APPLICATION_CREDENTIALS is not; both are required for the Sheets backend")
		}
		service, err := store.NewSheetsService(ctx, credentials)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("Using Google Sheets backend", "spreadsheet_id", spreadsheetID)
		return store.NewSheetsStore(service, spreadsheetID, "Library"),
			store.NewSheetsStore(service, spreadsheetID, "Wishlist"),
			nil
	}

	dataDir := os.Getenv("BOOKDB_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	slog.Debug("Using CSV backend", "data_dir", dataDir)
	return store.NewCSVStore(dataDir, "Library"), store.NewCSVStore(dataDir, "Wishlist"), nil
}

// tableByName resolves the --table flag value.
func (a *app) tableByName(name string) (store.RecordStore, error) {
	switch name {
	case "", "Library", "library":
		return a.library, nil
	case "Wishlist", "wishlist":
		return a.wishlist, nil
	}
	return nil, fmt.Errorf("unknown table %q (expected Library or Wishlist)", name)
}

// sibling returns the other table, for cross-table duplicate checks.
func (a *app) sibling(table store.RecordStore) store.RecordStore {
	if table == a.wishlist {
		return a.library
	}
	return a.wishlist
}
