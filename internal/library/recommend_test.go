package library

import (
	"context"
	"testing"

	"github.com/misiddons/bookdb/internal/models"
)

const herbertSearchBody = `{"items": [
	{"volumeInfo": {
		"title": "Dune",
		"authors": ["Frank Herbert"],
		"industryIdentifiers": [{"type": "ISBN_13", "identifier": "9780441172719"}]
	}},
	{"volumeInfo": {
		"title": "Dune Messiah",
		"authors": ["Frank Herbert"],
		"industryIdentifiers": [{"type": "ISBN_13", "identifier": "9780593098233"}]
	}},
	{"volumeInfo": {
		"title": "Children of Dune",
		"authors": ["Frank Herbert"],
		"industryIdentifiers": [{"type": "ISBN_13", "identifier": "9780593098240"}]
	}},
	{"volumeInfo": {
		"title": "DUNE MESSIAH",
		"authors": ["Frank Herbert"]
	}},
	{"volumeInfo": {
		"authors": ["Frank Herbert"]
	}}
]}`

func TestRecommendByAuthorFiltersOwnedAndDuplicates(t *testing.T) {
	ctx := context.Background()
	library, wishlist := newTestTables(t)
	catalog := newTestCatalog(t, herbertSearchBody, "")

	// Dune is owned by ISBN; the index must keep it out of the picks.
	seed(t, library, models.BookRecord{ISBN: "9780441172719", Title: "Dune", Author: "Frank Herbert"})

	owned, err := BuildOwnedIndex(ctx, library, wishlist)
	if err != nil {
		t.Fatalf("BuildOwnedIndex: %v", err)
	}

	picks, err := NewRecommender(catalog, 1).ByAuthor(ctx, "Frank Herbert", 5, owned)
	if err != nil {
		t.Fatalf("ByAuthor: %v", err)
	}

	// Titleless hits are dropped by the search adapter, owned books are
	// filtered, and "Dune Messiah" appears once despite the case variant.
	if len(picks) != 2 {
		t.Fatalf("picks = %+v, want 2", picks)
	}
	got := make(map[string]bool)
	for _, pick := range picks {
		if pick.Title == "Dune" {
			t.Errorf("owned book recommended: %+v", pick)
		}
		got[NormalizeTitle(pick.Title)] = true
	}
	if !got["dune messiah"] || !got["children of dune"] {
		t.Errorf("unexpected pick set: %+v", picks)
	}
}

func TestRecommendByAuthorRespectsLimit(t *testing.T) {
	ctx := context.Background()
	library, _ := newTestTables(t)
	catalog := newTestCatalog(t, herbertSearchBody, "")

	owned, err := BuildOwnedIndex(ctx, library)
	if err != nil {
		t.Fatal(err)
	}

	picks, err := NewRecommender(catalog, 1).ByAuthor(ctx, "Frank Herbert", 1, owned)
	if err != nil {
		t.Fatal(err)
	}
	if len(picks) != 1 {
		t.Errorf("picks = %+v, want exactly 1", picks)
	}
}

func TestRecommendOwnedByTitleOnly(t *testing.T) {
	ctx := context.Background()
	library, _ := newTestTables(t)
	catalog := newTestCatalog(t, herbertSearchBody, "")

	// Stored without an ISBN: the title alone must block the match.
	seed(t, library, models.BookRecord{Title: "Children of Dune", Author: "Frank Herbert"})

	owned, err := BuildOwnedIndex(ctx, library)
	if err != nil {
		t.Fatal(err)
	}

	picks, err := NewRecommender(catalog, 1).ByAuthor(ctx, "Frank Herbert", 5, owned)
	if err != nil {
		t.Fatal(err)
	}
	for _, pick := range picks {
		if pick.Title == "Children of Dune" {
			t.Errorf("title-owned book recommended: %+v", pick)
		}
	}
}

func TestSurprisePicksFromLibraryAuthors(t *testing.T) {
	ctx := context.Background()
	library, _ := newTestTables(t)
	catalog := newTestCatalog(t, herbertSearchBody, "")

	seed(t, library, models.BookRecord{ISBN: "9780441172719", Title: "Dune", Author: "Frank Herbert"})
	seed(t, library, models.BookRecord{ISBN: "9780553283686", Title: "Hyperion", Author: "Dan Simmons"})

	owned, err := BuildOwnedIndex(ctx, library)
	if err != nil {
		t.Fatal(err)
	}

	picks, err := NewRecommender(catalog, 1).Surprise(ctx, 2, library, owned)
	if err != nil {
		t.Fatalf("Surprise: %v", err)
	}
	// The canned search answers for both authors, one pick each. Owned
	// titles stay excluded.
	if len(picks) == 0 || len(picks) > 2 {
		t.Fatalf("picks = %+v, want 1 or 2", picks)
	}
	for _, pick := range picks {
		if pick.Title == "Dune" || pick.Title == "Hyperion" {
			t.Errorf("owned book in surprise picks: %+v", pick)
		}
	}
}

func TestSurpriseEmptyLibrary(t *testing.T) {
	library, _ := newTestTables(t)
	catalog := newTestCatalog(t, "", "")

	owned, err := BuildOwnedIndex(context.Background(), library)
	if err != nil {
		t.Fatal(err)
	}
	picks, err := NewRecommender(catalog, 1).Surprise(context.Background(), 3, library, owned)
	if err != nil {
		t.Fatal(err)
	}
	if len(picks) != 0 {
		t.Errorf("expected no picks from empty library, got %+v", picks)
	}
}
