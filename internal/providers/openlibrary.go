package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const openLibraryBaseURL = "https://openlibrary.org"

// OpenLibrary fetches metadata from the Open Library Books API.
type OpenLibrary struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewOpenLibrary creates an Open Library adapter with the default endpoint.
func NewOpenLibrary() *OpenLibrary {
	return &OpenLibrary{
		BaseURL:    openLibraryBaseURL,
		HTTPClient: newHTTPClient(),
	}
}

// Name returns the source tag used in composite ratings.
func (o *OpenLibrary) Name() string { return "OL" }

// openLibraryDetails is the jscmd=details payload keyed by "ISBN:{isbn}".
// The shape drifts between records, so everything is optional and the
// description may be a bare string or an object with a "value" key.
type openLibraryDetails map[string]struct {
	ThumbnailURL string `json:"thumbnail_url"`
	Details      struct {
		Title   string `json:"title"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		Subjects    []string        `json:"subjects"`
		PublishDate string          `json:"publish_date"`
		Description json.RawMessage `json:"description"`
		Covers      []int64         `json:"covers"`
		Languages   []struct {
			Key string `json:"key"`
		} `json:"languages"`
	} `json:"details"`
}

// FetchByISBN queries the books endpoint for one ISBN.
func (o *OpenLibrary) FetchByISBN(ctx context.Context, isbnKey string) (Record, error) {
	reqURL := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&format=json&jscmd=details", o.BaseURL, isbnKey)

	var result openLibraryDetails
	if err := o.getJSON(ctx, reqURL, &result); err != nil {
		return Record{}, err
	}

	book, ok := result["ISBN:"+isbnKey]
	if !ok {
		return Record{}, nil
	}

	details := book.Details
	record := Record{
		Title:         strings.TrimSpace(details.Title),
		Genre:         strings.Join(details.Subjects, ", "),
		Description:   decodeTextValue(details.Description),
		PublishedDate: details.PublishDate,
	}

	names := make([]string, 0, len(details.Authors))
	for _, a := range details.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}
	record.Authors = strings.Join(names, ", ")

	if len(details.Languages) > 0 {
		// Language keys look like "/languages/eng".
		record.Language = strings.TrimPrefix(details.Languages[0].Key, "/languages/")
	}

	if len(details.Covers) > 0 && details.Covers[0] > 0 {
		record.Thumbnail = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", details.Covers[0])
	} else if book.ThumbnailURL != "" {
		record.Thumbnail = upgradeScheme(book.ThumbnailURL)
	}

	return record, nil
}

// RatingByISBN resolves the work behind an ISBN and returns its average
// community rating, formatted to two decimals. This is a separate
// sub-call keyed by ISBN, not part of the primary metadata fetch; an
// empty string means no rating is available.
func (o *OpenLibrary) RatingByISBN(ctx context.Context, isbnKey string) (string, error) {
	var edition struct {
		Works []struct {
			Key string `json:"key"`
		} `json:"works"`
	}
	if err := o.getJSON(ctx, fmt.Sprintf("%s/isbn/%s.json", o.BaseURL, isbnKey), &edition); err != nil {
		return "", err
	}
	if len(edition.Works) == 0 {
		return "", nil
	}

	var ratings struct {
		Summary struct {
			Average float64 `json:"average"`
			Count   int     `json:"count"`
		} `json:"summary"`
	}
	if err := o.getJSON(ctx, fmt.Sprintf("%s%s/ratings.json", o.BaseURL, edition.Works[0].Key), &ratings); err != nil {
		return "", err
	}

	if ratings.Summary.Count == 0 || ratings.Summary.Average == 0 {
		return "", nil
	}
	return strconv.FormatFloat(ratings.Summary.Average, 'f', 2, 64), nil
}

func (o *OpenLibrary) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build Open Library request: %w", err)
	}

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query Open Library: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open Library API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Open Library response: %w", err)
	}
	return nil
}

// decodeTextValue handles Open Library's two description encodings:
// a bare JSON string, or {"type": ..., "value": "..."}.
func decodeTextValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Value)
	}
	return ""
}
