package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"skyblock-prices/internal/metrics"
)

const auctionsPath = "/skyblock/auctions"

// AuctionOptions parameterise the auction house fetcher.
type AuctionOptions struct {
	BaseURL         string
	PageConcurrency int
	Timeout         time.Duration
	UserAgent       string
}

// AuctionClient fetches the paginated auction house feed.
type AuctionClient struct {
	opts    AuctionOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
	metrics *metrics.Registry
}

// NewAuctionClient constructs an auction fetcher.
func NewAuctionClient(opts AuctionOptions, reg *metrics.Registry, logger zerolog.Logger) *AuctionClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if opts.PageConcurrency <= 0 {
		opts.PageConcurrency = 10
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.hypixel.net/v2"
	}

	return &AuctionClient{
		opts:    opts,
		logger:  logger.With().Str("component", "auction_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		metrics: reg,
	}
}

// FetchAll retrieves every auction page. Page 0 is fetched first to learn the
// total page count; if that fails the whole fetch fails. Individual page
// failures afterwards only cost that page's listings. Completion order is
// irrelevant: results are merged as an unordered union.
func (c *AuctionClient) FetchAll(ctx context.Context) ([]Listing, error) {
	first, err := c.fetchPage(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch auction page count: %w", err)
	}

	totalPages := first.TotalPages
	if totalPages <= 0 {
		return nil, fmt.Errorf("auction feed reported %d pages", totalPages)
	}
	c.logger.Info().Int("total_pages", totalPages).Msg("fetching auction pages")

	sem := make(chan struct{}, c.opts.PageConcurrency)
	var wg sync.WaitGroup
	var fetched, failed atomic.Int64

	var mu sync.Mutex
	var listings []Listing

	for page := 0; page < totalPages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				failed.Add(1)
				return
			}

			resp, err := c.fetchPage(ctx, page)
			if err != nil {
				c.logger.Warn().Err(err).Int("page", page).Msg("auction page failed")
				failed.Add(1)
				if c.metrics != nil {
					c.metrics.PagesFailed.Inc()
				}
				return
			}

			mu.Lock()
			listings = append(listings, resp.Auctions...)
			mu.Unlock()

			fetched.Add(1)
			if c.metrics != nil {
				c.metrics.PagesFetched.Inc()
			}
		}(page)
	}

	wg.Wait()

	c.logger.Info().
		Int64("pages_ok", fetched.Load()).
		Int64("pages_failed", failed.Load()).
		Int("listings", len(listings)).
		Msg("auction fetch complete")

	return listings, nil
}

type auctionPage struct {
	Success    bool      `json:"success"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Auctions   []Listing `json:"auctions"`
}

func (c *AuctionClient) fetchPage(ctx context.Context, page int) (*auctionPage, error) {
	url := fmt.Sprintf("%s%s?page=%d", c.baseURL, auctionsPath, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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

	var decoded auctionPage
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode auction page %d: %w", page, err)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("auction page %d returned success=false", page)
	}

	return &decoded, nil
}

var _ AuctionListingFetcher = (*AuctionClient)(nil)
