// Package merge combines provider records into one canonical BookRecord.
package merge

import (
	"fmt"
	"strings"

	"github.com/misiddons/bookdb/internal/isbn"
	"github.com/misiddons/bookdb/internal/models"
	"github.com/misiddons/bookdb/internal/providers"
)

// goodreadsTag is always appended to the composite rating. Goodreads has
// no public API, so its slot signals "intentionally unavailable" rather
// than a failed fetch.
const goodreadsTag = "GR:unavailable"

const ratingSeparator = " | "

// descriptionLimit caps persisted descriptions, in runes.
const descriptionLimit = 300

// authorCorrections maps known-bad author spellings to their fixed form.
// Includes mojibake repairs for names that arrive double-encoded.
var authorCorrections = map[string]string{
	"J.K. Rowling":           "J. K. Rowling",
	"J.R.R. Tolkien":         "J. R. R. Tolkien",
	"Paulo Coehlo":           "Paulo Coelho",
	"Khaled Hossein":         "Khaled Hosseini",
	"Gabriel Garcia Marquez": "Gabriel García Márquez",
}

// mojibakeReplacer repairs the common UTF-8-read-as-Latin-1 sequences that
// show up in free-text author names from either provider.
var mojibakeReplacer = strings.NewReplacer(
	"Ã¡", "á",
	"Ã©", "é",
	"Ã­", "í",
	"Ã³", "ó",
	"Ãº", "ú",
	"Ã±", "ñ",
	"Ã¨", "è",
	"Ã¶", "ö",
	"Ã¼", "ü",
	"Ã§", "ç",
)

// Merge combines two provider records into one canonical BookRecord.
// The provider with a non-empty title is primary; every empty field is
// backfilled from the other provider. olRating is the Open Library
// community rating obtained via its ratings sub-call, empty when absent.
func Merge(a, b providers.Record, rawISBN, olRating string) models.BookRecord {
	primary, secondary := a, b
	if primary.Title == "" && secondary.Title != "" {
		primary, secondary = b, a
	}

	normalized := isbn.Normalize(rawISBN)

	record := models.BookRecord{
		ISBN:          normalized,
		Title:         backfill(primary.Title, secondary.Title),
		Author:        backfill(primary.Authors, secondary.Authors),
		Genre:         backfill(primary.Genre, secondary.Genre),
		Language:      LanguageName(backfill(primary.Language, secondary.Language)),
		Thumbnail:     backfill(primary.Thumbnail, secondary.Thumbnail),
		Description:   clip(backfill(primary.Description, secondary.Description)),
		PublishedDate: backfill(primary.PublishedDate, secondary.PublishedDate),
		Rating:        compositeRating(a.Rating, olRating),
	}

	// Last-resort cover: Open Library serves covers straight off the ISBN.
	if record.Thumbnail == "" && normalized != "" {
		record.Thumbnail = fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", normalized)
	}

	record.Author = PrimaryAuthor(CorrectAuthor(record.Author))

	return record
}

// backfill returns primary unless it is empty.
func backfill(primary, secondary string) string {
	if strings.TrimSpace(primary) != "" {
		return strings.TrimSpace(primary)
	}
	return strings.TrimSpace(secondary)
}

// compositeRating builds the display rating string, e.g.
// "GB:4.2 | OL:3.90 | GR:unavailable". Provider parts appear only when
// their rating is present; the Goodreads tag is always appended.
func compositeRating(googleRating, olRating string) string {
	var parts []string
	if googleRating != "" {
		parts = append(parts, "GB:"+googleRating)
	}
	if olRating != "" {
		parts = append(parts, "OL:"+olRating)
	}
	parts = append(parts, goodreadsTag)
	return strings.Join(parts, ratingSeparator)
}

// CorrectAuthor repairs mojibake and applies the fixed table of known-bad
// author names.
func CorrectAuthor(author string) string {
	author = strings.TrimSpace(author)
	if corrected, ok := authorCorrections[author]; ok {
		return corrected
	}
	author = mojibakeReplacer.Replace(author)
	if corrected, ok := authorCorrections[author]; ok {
		return corrected
	}
	return author
}

// PrimaryAuthor reduces a possibly multi-author string to one stable name.
// Downstream grouping and duplicate detection need a single name per book:
// two or more comma-separated segments keep only the first; otherwise the
// text before the first " and " or " & " wins; otherwise unchanged.
func PrimaryAuthor(authors string) string {
	authors = strings.TrimSpace(authors)
	if authors == "" {
		return ""
	}

	if segments := strings.Split(authors, ","); len(segments) >= 2 {
		return strings.TrimSpace(segments[0])
	}

	for _, sep := range []string{" and ", " & "} {
		if idx := strings.Index(authors, sep); idx >= 0 {
			return strings.TrimSpace(authors[:idx])
		}
	}

	return authors
}

// clip truncates a description to the persisted limit, appending an
// ellipsis when text was dropped.
func clip(text string) string {
	runes := []rune(text)
	if len(runes) <= descriptionLimit {
		return text
	}
	return strings.TrimSpace(string(runes[:descriptionLimit])) + "..."
}
