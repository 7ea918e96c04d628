// Package sheet downloads Google Sheets CSV exports and parses them into
// ordered records keyed by a header row.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrTooLarge is returned when the export exceeds the configured size cap.
	ErrTooLarge = errors.New("response body exceeds size limit")

	// ErrNotCSV is returned when the export endpoint answers with an HTML page,
	// which is what Google serves for sheets that are not shared by link.
	ErrNotCSV = errors.New("response is HTML, not CSV (is the sheet shared by link?)")
)

// FetchError reports a failed export download. StatusCode is zero when the
// request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExportURL builds the CSV export URL of one sheet of a spreadsheet.
func ExportURL(baseURL, spreadsheetID, gid string) string {
	q := url.Values{}
	q.Set("format", "csv")
	q.Set("gid", gid)
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(spreadsheetID) + "/export?" + q.Encode()
}

// Fetcher downloads CSV exports over HTTP.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a Fetcher with its own client bounded by timeout.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return NewFetcherWithClient(&http.Client{Timeout: timeout}, maxBytes)
}

// NewFetcherWithClient creates a Fetcher around an existing client.
func NewFetcherWithClient(client *http.Client, maxBytes int64) *Fetcher {
	return &Fetcher{client: client, maxBytes: maxBytes}
}

// Fetch performs a GET on rawURL and returns the body as UTF-8 text with any
// byte order mark removed. Non-2xx responses yield a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", "mobgen")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status, Err: ErrNotCSV}
	}

	body, err := io.ReadAll(io.LimitReader(NewDecodingReader(resp.Body), f.maxBytes+1))
	if err != nil {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}
	if int64(len(body)) > f.maxBytes {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status, Err: ErrTooLarge}
	}

	return string(body), nil
}
