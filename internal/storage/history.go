package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"skyblock-prices/internal/spike"
)

var two = decimal.NewFromInt(2)

// AuctionHistorySource adapts the auction table to the spike ranker.
type AuctionHistorySource struct {
	store *Store
}

// NewAuctionHistorySource wraps a Store for auction-side ranking.
func NewAuctionHistorySource(store *Store) *AuctionHistorySource {
	return &AuctionHistorySource{store: store}
}

// LatestWithin returns each item's most recent price inside the window.
// Rows come back newest first; the first row seen per item wins.
func (h *AuctionHistorySource) LatestWithin(ctx context.Context, since time.Time) ([]spike.Sample, error) {
	pool, err := h.store.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, recentAuctionPricesSQL, since)
	if queryErr != nil {
		return nil, fmt.Errorf("recent auction prices: %w", queryErr)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	samples := make([]spike.Sample, 0)
	for rows.Next() {
		var (
			itemID   string
			priceStr string
			ts       time.Time
		)
		if err := rows.Scan(&itemID, &priceStr, &ts); err != nil {
			return nil, err
		}
		if seen[itemID] {
			continue
		}
		seen[itemID] = true

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		samples = append(samples, spike.Sample{EntityID: itemID, Price: price, Timestamp: ts})
	}
	return samples, rows.Err()
}

// Baseline returns up to limit prices older than the item's latest sample.
func (h *AuctionHistorySource) Baseline(ctx context.Context, itemID string, limit int) ([]decimal.Decimal, error) {
	pool, err := h.store.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, auctionBaselineSQL, itemID, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("auction baseline: %w", queryErr)
	}
	defer rows.Close()

	prices := make([]decimal.Decimal, 0, limit)
	for rows.Next() {
		var priceStr string
		if err := rows.Scan(&priceStr); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		prices = append(prices, price)
	}
	return prices, rows.Err()
}

// BazaarHistorySource adapts the bazaar table to the spike ranker. Quoted
// products rank on the buy/sell midpoint, for the live value and every
// baseline sample alike.
type BazaarHistorySource struct {
	store *Store
}

// NewBazaarHistorySource wraps a Store for bazaar-side ranking.
func NewBazaarHistorySource(store *Store) *BazaarHistorySource {
	return &BazaarHistorySource{store: store}
}

// LatestWithin returns each product's most recent midpoint inside the window.
func (h *BazaarHistorySource) LatestWithin(ctx context.Context, since time.Time) ([]spike.Sample, error) {
	pool, err := h.store.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, recentBazaarPricesSQL, since)
	if queryErr != nil {
		return nil, fmt.Errorf("recent bazaar prices: %w", queryErr)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	samples := make([]spike.Sample, 0)
	for rows.Next() {
		var (
			productID string
			buyStr    string
			sellStr   string
			ts        time.Time
		)
		if err := rows.Scan(&productID, &buyStr, &sellStr, &ts); err != nil {
			return nil, err
		}
		if seen[productID] {
			continue
		}
		seen[productID] = true

		mid, err := midpoint(buyStr, sellStr)
		if err != nil {
			return nil, err
		}
		samples = append(samples, spike.Sample{EntityID: productID, Price: mid, Timestamp: ts})
	}
	return samples, rows.Err()
}

// Baseline returns up to limit midpoints older than the product's latest quote.
func (h *BazaarHistorySource) Baseline(ctx context.Context, productID string, limit int) ([]decimal.Decimal, error) {
	pool, err := h.store.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, bazaarBaselineSQL, productID, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("bazaar baseline: %w", queryErr)
	}
	defer rows.Close()

	mids := make([]decimal.Decimal, 0, limit)
	for rows.Next() {
		var buyStr, sellStr string
		if err := rows.Scan(&buyStr, &sellStr); err != nil {
			return nil, err
		}
		mid, err := midpoint(buyStr, sellStr)
		if err != nil {
			return nil, err
		}
		mids = append(mids, mid)
	}
	return mids, rows.Err()
}

func midpoint(buyStr, sellStr string) (decimal.Decimal, error) {
	buy, err := decimal.NewFromString(buyStr)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse buy price: %w", err)
	}
	sell, err := decimal.NewFromString(sellStr)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse sell price: %w", err)
	}
	return buy.Add(sell).Div(two), nil
}

var (
	_ spike.History = (*AuctionHistorySource)(nil)
	_ spike.History = (*BazaarHistorySource)(nil)
)
