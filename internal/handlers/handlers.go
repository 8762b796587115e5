package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/misiddons/bookdb/internal/library"
	"github.com/misiddons/bookdb/internal/models"
	"github.com/misiddons/bookdb/internal/store"
)

// Handler serves the JSON API over the catalog and the record stores.
type Handler struct {
	library  store.RecordStore
	wishlist store.RecordStore
	catalog  *library.Catalog
	auditor  *library.Auditor
}

// New wires a handler over the two tables and a catalog service.
func New(libraryTable, wishlistTable store.RecordStore, catalog *library.Catalog) *Handler {
	return &Handler{
		library:  libraryTable,
		wishlist: wishlistTable,
		catalog:  catalog,
		auditor:  library.NewAuditor(catalog),
	}
}

// Register attaches all API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/books", h.HandleBooks)
	mux.HandleFunc("/api/lookup", h.HandleLookup)
	mux.HandleFunc("/api/audit", h.HandleAudit)
	mux.HandleFunc("/api/audit/apply", h.HandleAuditApply)
	mux.HandleFunc("/api/stats", h.HandleStats)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// tableByName resolves a table query parameter. The library is the
// default when the parameter is absent.
func (h *Handler) tableByName(name string) (store.RecordStore, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "library":
		return h.library, nil
	case "wishlist":
		return h.wishlist, nil
	default:
		return nil, fmt.Errorf("unknown table %q (expected Library or Wishlist)", name)
	}
}

// HandleBooks lists a table on GET and adds a book by ISBN on POST.
func (h *Handler) HandleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listBooks(w, r)
	case http.MethodPost:
		h.addBook(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	table, err := h.tableByName(r.URL.Query().Get("table"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := table.ReadAll(r.Context())
	if err != nil {
		h.writeError(w, "Failed to read table: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"table": table.Name(),
		"count": len(rows),
		"rows":  rows,
	})
}

type addBookRequest struct {
	ISBN  string `json:"isbn"`
	Table string `json:"table"`
	// Manual entry fields used when providers return nothing.
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

type addBookResponse struct {
	Outcome string            `json:"outcome"`
	Record  models.BookRecord `json:"record"`
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	table, err := h.tableByName(req.Table)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	record := h.catalog.Lookup(r.Context(), req.ISBN)
	if record.IsEmpty() {
		// Fall back to caller-supplied fields for books no provider knows.
		record.Title = strings.TrimSpace(req.Title)
		record.Author = strings.TrimSpace(req.Author)
		if record.IsEmpty() {
			h.writeError(w, "No metadata found for ISBN and no manual title/author given", http.StatusNotFound)
			return
		}
	}

	sibling := h.wishlist
	if table == h.wishlist {
		sibling = h.library
	}

	outcome, err := library.AppendIfNew(r.Context(), table, record, sibling)
	if err != nil {
		h.writeError(w, "Failed to add book: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, addBookResponse{Outcome: outcome.String(), Record: record})
}

// HandleLookup previews merged metadata for an ISBN without writing.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rawISBN := r.URL.Query().Get("isbn")
	if strings.TrimSpace(rawISBN) == "" {
		h.writeError(w, "Missing isbn parameter", http.StatusBadRequest)
		return
	}

	record := h.catalog.Lookup(r.Context(), rawISBN)
	if record.IsEmpty() {
		h.writeError(w, "No metadata found for ISBN", http.StatusNotFound)
		return
	}
	h.writeJSON(w, record)
}

// HandleAudit runs a read-only audit pass over a table.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	table, err := h.tableByName(r.URL.Query().Get("table"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	findings, err := h.auditor.Audit(r.Context(), table)
	if err != nil {
		h.writeError(w, "Audit failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"table":    table.Name(),
		"findings": findings,
	})
}

type applyRequest struct {
	Table  string            `json:"table"`
	Row    int               `json:"row"`
	Fields []string          `json:"fields"`
	Record models.BookRecord `json:"record"`
}

// HandleAuditApply writes accepted corrections back to the store.
func (h *Handler) HandleAuditApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Fields) == 0 {
		h.writeError(w, "No fields selected for repair", http.StatusBadRequest)
		return
	}

	table, err := h.tableByName(req.Table)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.auditor.Apply(r.Context(), table, req.Row, req.Record, req.Fields); err != nil {
		h.writeError(w, "Failed to apply repair: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{"status": "applied"})
}

// HandleStats reports collection statistics across both tables.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := library.ComputeStats(r.Context(), h.library, h.wishlist)
	if err != nil {
		h.writeError(w, "Failed to compute stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, stats)
}
