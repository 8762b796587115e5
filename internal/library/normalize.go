package library

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/misiddons/bookdb/internal/merge"
)

// closeThreshold is the similarity ratio above which a non-identical
// field pair still counts as the same book. Tuned by trial against the
// real sheet, not derived.
const closeThreshold = 0.85

// Classification buckets for a compared field.
const (
	MatchExact = "exact"
	MatchClose = "close"
	MatchDiff  = "diff"
)

// stripDiacritics removes combining marks, so "Café" compares as "Cafe".
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeTitle reduces a title to its comparison form: diacritics
// stripped, any subtitle after the first colon/paren/bracket cut off, a
// leading article dropped, lowercased, punctuation and whitespace
// collapsed to single spaces.
func NormalizeTitle(title string) string {
	title = stripDiacritics(strings.TrimSpace(title))

	// Cut the subtitle: editions disagree about everything after the colon.
	if idx := strings.IndexAny(title, ":([{"); idx >= 0 {
		title = title[:idx]
	}

	title = strings.ToLower(title)

	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(title, article) {
			title = title[len(article):]
			break
		}
	}

	return collapse(title)
}

// NormalizeAuthor reduces an author string to its comparison form: first
// the primary-author reduction, then diacritics and every non-letter
// dropped, lowercased.
func NormalizeAuthor(author string) string {
	author = merge.PrimaryAuthor(strings.TrimSpace(author))
	author = strings.ToLower(stripDiacritics(author))

	var b strings.Builder
	b.Grow(len(author))
	lastSpace := true
	for _, r := range author {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// collapse replaces punctuation runs with spaces and squeezes whitespace.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity calculates a similarity ratio (0.0 to 1.0) between two
// already-normalized strings using Levenshtein distance.
func Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	distance := levenshteinDistance(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	return 1.0 - (float64(distance) / float64(maxLen))
}

// Classify buckets a similarity ratio into exact, close, or diff.
func Classify(ratio float64) string {
	switch {
	case ratio == 1.0:
		return MatchExact
	case ratio >= closeThreshold:
		return MatchClose
	}
	return MatchDiff
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	rows := len(s1) + 1
	cols := len(s2) + 1
	matrix := make([][]int, rows)
	for i := range matrix {
		matrix[i] = make([]int, cols)
	}

	for i := 0; i < rows; i++ {
		matrix[i][0] = i
	}
	for j := 0; j < cols; j++ {
		matrix[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			matrix[i][j] = min(deletion, min(insertion, substitution))
		}
	}

	return matrix[rows-1][cols-1]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
