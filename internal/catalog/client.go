package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/config"
	"github.com/yashpatel5000/auto-part/internal/domain"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

// Credentials are the parts API auth fields. They are built once per run and
// travel as form-encoded fields on every request, the paged catalog and the
// reference lookups alike.
type Credentials struct {
	Username  string
	Password  string
	UserToken string
}

// Form renders the credentials as the form body every endpoint expects.
func (c Credentials) Form() url.Values {
	form := url.Values{}
	form.Set("username", c.Username)
	form.Set("password", c.Password)
	form.Set("user_token", c.UserToken)
	return form
}

// Client pages through the remote parts catalog
type Client struct {
	endpoint   string
	creds      Credentials
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a parts catalog client
func NewClient(cfg config.PartsAPIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		creds: Credentials{
			Username:  cfg.Username,
			Password:  cfg.Password,
			UserToken: cfg.UserToken,
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type pageResponse struct {
	Data       []domain.RemotePart `json:"data"`
	Pagination struct {
		TotalCount int `json:"total_count"`
	} `json:"pagination"`
}

// FetchPage fetches one catalog page. Each call is independent and
// idempotent against the remote API.
func (c *Client) FetchPage(ctx context.Context, page, limit int) ([]domain.RemotePart, int, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, 0, err
	}
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("limit", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(c.creds.Form().Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("parts API returned %d: %s", resp.StatusCode, string(body))
	}

	var out pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, fmt.Errorf("decode parts page: %w", err)
	}
	return out.Data, out.Pagination.TotalCount, nil
}

// ForEachPage streams every catalog page through fn, starting at page 1.
// The page bound is recomputed from each response's total count, so a feed
// that grows or shrinks mid-run is still walked to its real end. A failure
// on the first page aborts the whole walk; later page failures are logged
// and skipped.
func (c *Client) ForEachPage(ctx context.Context, limit int, fn func(parts []domain.RemotePart) error) error {
	totalPages := 1
	for page := 1; page <= totalPages; page++ {
		parts, totalCount, err := c.FetchPage(ctx, page, limit)
		if err != nil {
			if page == 1 {
				return &apperrors.CatalogError{Page: page, Err: err}
			}
			c.logger.Error("Failed to fetch parts page, skipping", zap.Int("page", page), zap.Error(err))
			continue
		}

		totalPages = (totalCount + limit - 1) / limit

		if err := fn(parts); err != nil {
			return err
		}
	}
	return nil
}
