package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/misiddons/bookdb/internal/library"
	"github.com/misiddons/bookdb/internal/models"
	"github.com/misiddons/bookdb/internal/providers"
	"github.com/misiddons/bookdb/internal/store"
)

func newTestHandler(t *testing.T, googleBody string) (*Handler, *store.CSVStore, *store.CSVStore) {
	t.Helper()

	googleServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if googleBody == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(googleBody))
	}))
	t.Cleanup(googleServer.Close)
	olServer := httptest.NewServer(http.HandlerFunc(http.NotFound))
	t.Cleanup(olServer.Close)

	google := providers.NewGoogleBooks()
	google.BaseURL = googleServer.URL
	openlib := providers.NewOpenLibrary()
	openlib.BaseURL = olServer.URL

	dir := t.TempDir()
	libraryTable := store.NewCSVStore(dir, "Library")
	wishlistTable := store.NewCSVStore(dir, "Wishlist")

	return New(libraryTable, wishlistTable, library.NewCatalogWith(google, openlib)), libraryTable, wishlistTable
}

func serve(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

const duneBody = `{"items":[{"volumeInfo":{"title":"Dune","authors":["Frank Herbert"],"language":"en"}}]}`

func TestHealthcheck(t *testing.T) {
	h, _, _ := newTestHandler(t, "")
	server := serve(t, h)

	resp, err := http.Get(server.URL + "/healthcheck")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestAddBookAndList(t *testing.T) {
	h, libraryTable, _ := newTestHandler(t, duneBody)
	server := serve(t, h)

	resp, err := http.Post(server.URL+"/api/books", "application/json",
		strings.NewReader(`{"isbn": "978-0-441-17271-9", "table": "Library"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var added addBookResponse
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		t.Fatal(err)
	}
	if added.Outcome != "appended" {
		t.Errorf("outcome = %q", added.Outcome)
	}
	if added.Record.Title != "Dune" || added.Record.ISBN != "9780441172719" {
		t.Errorf("record = %+v", added.Record)
	}

	rows, err := libraryTable.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}

	// The list endpoint reflects the stored row.
	listResp, err := http.Get(server.URL + "/api/books?table=Library")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var listing struct {
		Table string      `json:"table"`
		Count int         `json:"count"`
		Rows  []store.Row `json:"rows"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	if listing.Count != 1 || listing.Rows[0]["Title"] != "Dune" {
		t.Errorf("listing = %+v", listing)
	}
}

func TestAddBookDuplicate(t *testing.T) {
	h, _, _ := newTestHandler(t, duneBody)
	server := serve(t, h)

	body := `{"isbn": "9780441172719", "table": "Library"}`
	for _, want := range []string{"appended", "skipped: duplicate ISBN"} {
		resp, err := http.Post(server.URL+"/api/books", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		var added addBookResponse
		err = json.NewDecoder(resp.Body).Decode(&added)
		resp.Body.Close()
		if err != nil {
			t.Fatal(err)
		}
		if added.Outcome != want {
			t.Errorf("outcome = %q, want %q", added.Outcome, want)
		}
	}
}

func TestAddBookManualFallback(t *testing.T) {
	h, libraryTable, _ := newTestHandler(t, "")
	server := serve(t, h)

	resp, err := http.Post(server.URL+"/api/books", "application/json",
		strings.NewReader(`{"isbn": "9999999999999", "table": "Library", "title": "Obscure Zine", "author": "A. Nobody"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	rows, err := libraryTable.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["Title"] != "Obscure Zine" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestAddBookNoMetadataNoManual(t *testing.T) {
	h, _, _ := newTestHandler(t, "")
	server := serve(t, h)

	resp, err := http.Post(server.URL+"/api/books", "application/json",
		strings.NewReader(`{"isbn": "9999999999999", "table": "Library"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListUnknownTable(t *testing.T) {
	h, _, _ := newTestHandler(t, "")
	server := serve(t, h)

	resp, err := http.Get(server.URL + "/api/books?table=Attic")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestLookupPreviewDoesNotWrite(t *testing.T) {
	h, libraryTable, _ := newTestHandler(t, duneBody)
	server := serve(t, h)

	resp, err := http.Get(server.URL + "/api/lookup?isbn=9780441172719")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var record models.BookRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		t.Fatal(err)
	}
	if record.Title != "Dune" {
		t.Errorf("record = %+v", record)
	}

	rows, err := libraryTable.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("lookup wrote to the store: %+v", rows)
	}
}

func TestAuditEndpointAndApply(t *testing.T) {
	h, libraryTable, _ := newTestHandler(t, duneBody)
	server := serve(t, h)

	// Seed a row whose title disagrees with the canonical record.
	record := models.BookRecord{ISBN: "9780441172719", Title: "Doon", Author: "Frank Herbert"}
	if _, err := library.AppendIfNew(context.Background(), libraryTable, record); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(server.URL + "/api/audit?table=Library")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var audit struct {
		Table    string                `json:"table"`
		Findings []library.Discrepancy `json:"findings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&audit); err != nil {
		t.Fatal(err)
	}
	if len(audit.Findings) == 0 {
		t.Fatal("expected findings for mismatched title")
	}

	applyBody := `{"table": "Library", "row": 1, "fields": ["Title"], "record": {"isbn": "9780441172719", "title": "Dune", "author": "Frank Herbert"}}`
	applyResp, err := http.Post(server.URL+"/api/audit/apply", "application/json", strings.NewReader(applyBody))
	if err != nil {
		t.Fatal(err)
	}
	defer applyResp.Body.Close()
	if applyResp.StatusCode != http.StatusOK {
		t.Fatalf("apply status = %d", applyResp.StatusCode)
	}

	rows, err := libraryTable.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rows[0]["Title"] != "Dune" {
		t.Errorf("title not repaired: %q", rows[0]["Title"])
	}
}

func TestApplyRequiresFields(t *testing.T) {
	h, _, _ := newTestHandler(t, "")
	server := serve(t, h)

	resp, err := http.Post(server.URL+"/api/audit/apply", "application/json",
		strings.NewReader(`{"table": "Library", "row": 1, "record": {}}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h, libraryTable, wishlistTable := newTestHandler(t, "")
	server := serve(t, h)

	ctx := context.Background()
	if _, err := library.AppendIfNew(ctx, libraryTable, models.BookRecord{Title: "Dune", Author: "Frank Herbert"}); err != nil {
		t.Fatal(err)
	}
	if _, err := library.AppendIfNew(ctx, wishlistTable, models.BookRecord{Title: "Hyperion", Author: "Dan Simmons"}); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(server.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var stats library.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.LibraryCount != 1 || stats.WishlistCount != 1 || stats.UniqueAuthors != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
