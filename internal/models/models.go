package models

// Canonical column order for Library and Wishlist tables. User-added
// columns are preserved after these, never dropped.
var Columns = []string{
	"ISBN",
	"Title",
	"Author",
	"Genre",
	"Language",
	"Thumbnail",
	"Description",
	"Rating",
	"PublishedDate",
	"Date Read",
}

// BookRecord is the canonical merged book metadata, ready for storage.
type BookRecord struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre,omitempty"`
	Language      string `json:"language,omitempty"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	Description   string `json:"description,omitempty"`
	Rating        string `json:"rating,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	DateRead      string `json:"date_read,omitempty"` // YYYY/MM/DD, Library only
}

// IsEmpty reports whether no identifying field is populated. Records with
// both title and author empty are never persisted.
func (r BookRecord) IsEmpty() bool {
	return r.Title == "" && r.Author == ""
}

// Field returns the value for a canonical column name.
func (r BookRecord) Field(column string) string {
	switch column {
	case "ISBN":
		return r.ISBN
	case "Title":
		return r.Title
	case "Author":
		return r.Author
	case "Genre":
		return r.Genre
	case "Language":
		return r.Language
	case "Thumbnail":
		return r.Thumbnail
	case "Description":
		return r.Description
	case "Rating":
		return r.Rating
	case "PublishedDate":
		return r.PublishedDate
	case "Date Read":
		return r.DateRead
	}
	return ""
}

// SetField sets the value for a canonical column name, ignoring unknown columns.
func (r *BookRecord) SetField(column, value string) {
	switch column {
	case "ISBN":
		r.ISBN = value
	case "Title":
		r.Title = value
	case "Author":
		r.Author = value
	case "Genre":
		r.Genre = value
	case "Language":
		r.Language = value
	case "Thumbnail":
		r.Thumbnail = value
	case "Description":
		r.Description = value
	case "Rating":
		r.Rating = value
	case "PublishedDate":
		r.PublishedDate = value
	case "Date Read":
		r.DateRead = value
	}
}

// StoredRow is a BookRecord plus its position in a table. RowIndex is
// 1-based counting from the first data row below the header; it is the
// identity for in-place updates.
type StoredRow struct {
	RowIndex int        `json:"row_index"`
	Record   BookRecord `json:"record"`
	// Extra holds user-added columns beyond the canonical set, in header order.
	Extra map[string]string `json:"extra,omitempty"`
}
