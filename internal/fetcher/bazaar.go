package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const bazaarPath = "/skyblock/bazaar"

// BazaarOptions parameterise the bazaar fetcher.
type BazaarOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// BazaarClient fetches the flat bazaar product feed in one request.
type BazaarClient struct {
	opts    BazaarOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewBazaarClient constructs a bazaar fetcher.
func NewBazaarClient(opts BazaarOptions, logger zerolog.Logger) *BazaarClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.hypixel.net/v2"
	}

	return &BazaarClient{
		opts:    opts,
		logger:  logger.With().Str("component", "bazaar_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type bazaarResponse struct {
	Success  bool               `json:"success"`
	Products map[string]Product `json:"products"`
}

// Fetch retrieves the product id → quote mapping.
func (c *BazaarClient) Fetch(ctx context.Context) (map[string]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+bazaarPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}

	var decoded bazaarResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode bazaar response: %w", err)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("bazaar feed returned success=false")
	}

	c.logger.Info().Int("products", len(decoded.Products)).Msg("bazaar fetch complete")
	return decoded.Products, nil
}

var _ BazaarProductFetcher = (*BazaarClient)(nil)
