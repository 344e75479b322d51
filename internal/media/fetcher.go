package media

import (
	"context"
	"io"
	"net/http"
	"time"

	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

const fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/113.0.0.0 Safari/537.36"

// Fetcher retrieves the raw bytes of a remote image. Whether the bytes come
// from a plain HTTP request or a rendering engine is this capability's
// concern, not the resolver's.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) (body []byte, contentType string, err error)
}

// HTTPFetcher fetches image bytes over plain HTTP with a browser user agent,
// which the catalog CDN requires.
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher creates an HTTP image fetcher
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *HTTPFetcher) FetchBytes(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", &apperrors.MediaFetchError{URL: url}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &apperrors.MediaFetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &apperrors.MediaFetchError{URL: url}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return body, contentType, nil
}
