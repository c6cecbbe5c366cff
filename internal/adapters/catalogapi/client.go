// Package catalogapi loads the track catalog from a remote catalog service.
package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/ewilliams-labs/pacer/internal/core/ports"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const defaultPageSize = 500

// Config describes how to reach the catalog service.
type Config struct {
	BaseURL string
	// TokenURL, ClientID and ClientSecret enable OAuth2 client credentials.
	// Requests are unauthenticated when ClientID is empty.
	TokenURL     string
	ClientID     string
	ClientSecret string

	PageSize    int
	MaxRetries  int
	BaseBackoff time.Duration
	// RateLimit is the maximum requests per second; zero disables limiting.
	RateLimit float64

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is an HTTP client for the catalog service.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	pageSize    int
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// compile-time interface assertion
var _ ports.CatalogSource = (*Client)(nil)

// NewClient constructs a catalog client. ctx scopes the OAuth2 token source.
func NewClient(ctx context.Context, cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, httpClient))
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		pageSize:    pageSize,
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.BaseBackoff,
		limiter:     rate.NewLimiter(limit, 1),
		logger:      logger,
	}
}

// LoadCatalog pages through GET /tracks until the reported total is reached
// or a page comes back empty. Invalid tracks are skipped with a warning.
func (c *Client) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	var tracks []domain.Track
	for offset := 0; ; {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		for _, wt := range page.Items {
			t := wt.toDomain()
			if !t.Valid() {
				c.log().Warn("catalog adapter: skipping invalid track", slog.String("id", wt.ID))
				continue
			}
			tracks = append(tracks, t)
		}
		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.Total {
			break
		}
	}

	c.log().Info("catalog adapter: catalog loaded", slog.Int("tracks", len(tracks)))
	return domain.NewCatalog(tracks), nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) (trackPage, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(c.pageSize))
	endpoint := fmt.Sprintf("%s/tracks?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return trackPage{}, fmt.Errorf("catalog adapter: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return trackPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return trackPage{}, fmt.Errorf("catalog adapter: status %d", resp.StatusCode)
	}

	var page trackPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return trackPage{}, fmt.Errorf("catalog adapter: decode page at offset %d: %w", offset, err)
	}
	return page, nil
}
