package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/misiddons/bookdb/internal/isbn"
)

const googleBooksBaseURL = "https://www.googleapis.com/books/v1"

// GoogleBooks fetches metadata from the Google Books volumes API.
type GoogleBooks struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewGoogleBooks creates a Google Books adapter with the default endpoint.
func NewGoogleBooks() *GoogleBooks {
	return &GoogleBooks{
		BaseURL:    googleBooksBaseURL,
		HTTPClient: newHTTPClient(),
	}
}

// Name returns the source tag used in composite ratings.
func (g *GoogleBooks) Name() string { return "GB" }

type googleIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// googleVolumes is the subset of the volumes response we extract. Every
// field access must tolerate absence; the API omits whole sections freely.
type googleVolumes struct {
	Items []struct {
		VolumeInfo struct {
			Title               string             `json:"title"`
			Authors             []string           `json:"authors"`
			Categories          []string           `json:"categories"`
			Language            string             `json:"language"`
			Description         string             `json:"description"`
			PublishedDate       string             `json:"publishedDate"`
			AverageRating       float64            `json:"averageRating"`
			ImageLinks          map[string]string  `json:"imageLinks"`
			IndustryIdentifiers []googleIdentifier `json:"industryIdentifiers"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// FetchByISBN queries the volumes endpoint for one ISBN.
func (g *GoogleBooks) FetchByISBN(ctx context.Context, isbnKey string) (Record, error) {
	result, err := g.volumes(ctx, url.QueryEscape("isbn:"+isbnKey))
	if err != nil {
		return Record{}, err
	}

	if len(result.Items) == 0 {
		return Record{}, nil
	}

	info := result.Items[0].VolumeInfo
	record := Record{
		Title:         strings.TrimSpace(info.Title),
		Authors:       strings.Join(info.Authors, ", "),
		Genre:         strings.Join(info.Categories, ", "),
		Language:      info.Language,
		Description:   strings.TrimSpace(info.Description),
		PublishedDate: info.PublishedDate,
		Thumbnail:     upgradeScheme(pickThumbnail(info.ImageLinks)),
	}
	if info.AverageRating > 0 {
		record.Rating = strconv.FormatFloat(info.AverageRating, 'f', -1, 64)
	}

	return record, nil
}

// SearchISBN recovers an ISBN from a title+author (or author-only) query.
// Used by the auditor for rows that were stored without an ISBN.
func (g *GoogleBooks) SearchISBN(ctx context.Context, title, author string) (string, error) {
	var terms []string
	if strings.TrimSpace(title) != "" {
		terms = append(terms, "intitle:"+strings.TrimSpace(title))
	}
	if strings.TrimSpace(author) != "" {
		terms = append(terms, "inauthor:"+strings.TrimSpace(author))
	}
	if len(terms) == 0 {
		return "", fmt.Errorf("search requires a title or author")
	}

	result, err := g.volumes(ctx, url.QueryEscape(strings.Join(terms, " ")))
	if err != nil {
		return "", err
	}

	for _, item := range result.Items {
		if id := pickISBN(item.VolumeInfo.IndustryIdentifiers); id != "" {
			return id, nil
		}
	}
	return "", nil
}

// SearchByAuthor returns up to limit search hits for an author query.
// Backs the recommendations feature.
func (g *GoogleBooks) SearchByAuthor(ctx context.Context, author string, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > 40 {
		limit = 40
	}
	query := fmt.Sprintf("%s&maxResults=%d&orderBy=relevance",
		url.QueryEscape("inauthor:"+strings.TrimSpace(author)), limit)

	result, err := g.volumes(ctx, query)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchResult, 0, len(result.Items))
	for _, item := range result.Items {
		info := item.VolumeInfo
		if strings.TrimSpace(info.Title) == "" {
			continue
		}
		hits = append(hits, SearchResult{
			ISBN:          pickISBN(info.IndustryIdentifiers),
			Title:         strings.TrimSpace(info.Title),
			Authors:       strings.Join(info.Authors, ", "),
			Thumbnail:     upgradeScheme(pickThumbnail(info.ImageLinks)),
			PublishedDate: info.PublishedDate,
		})
	}
	return hits, nil
}

func (g *GoogleBooks) volumes(ctx context.Context, escapedQuery string) (*googleVolumes, error) {
	reqURL := fmt.Sprintf("%s/volumes?q=%s", g.BaseURL, escapedQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Google Books request: %w", err)
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Google Books API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google Books API returned status %d", resp.StatusCode)
	}

	var result googleVolumes
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Google Books response: %w", err)
	}
	return &result, nil
}

// pickThumbnail prefers the regular thumbnail over the small one.
func pickThumbnail(links map[string]string) string {
	if links == nil {
		return ""
	}
	if u := links["thumbnail"]; u != "" {
		return u
	}
	return links["smallThumbnail"]
}

// pickISBN prefers ISBN-13 identifiers over ISBN-10.
func pickISBN(ids []googleIdentifier) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return isbn.Normalize(id.Identifier)
		case "ISBN_10":
			isbn10 = isbn.Normalize(id.Identifier)
		}
	}
	return isbn10
}

// upgradeScheme rewrites provider image URLs to https. Google Books still
// hands out http:// image links.
func upgradeScheme(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
