package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	createSchemaSQL = `CREATE TABLE IF NOT EXISTS auction_prices (
        id       BIGSERIAL PRIMARY KEY,
        ts       TIMESTAMPTZ NOT NULL,
        item_id  TEXT        NOT NULL,
        price    NUMERIC     NOT NULL
    );
    CREATE INDEX IF NOT EXISTS auction_prices_item_ts_idx ON auction_prices (item_id, ts DESC);
    CREATE INDEX IF NOT EXISTS auction_prices_ts_idx ON auction_prices (ts DESC);
    CREATE TABLE IF NOT EXISTS bazaar_prices (
        id         BIGSERIAL PRIMARY KEY,
        ts         TIMESTAMPTZ NOT NULL,
        product_id TEXT        NOT NULL,
        buy_price  NUMERIC     NOT NULL,
        sell_price NUMERIC     NOT NULL
    );
    CREATE INDEX IF NOT EXISTS bazaar_prices_product_ts_idx ON bazaar_prices (product_id, ts DESC);
    CREATE INDEX IF NOT EXISTS bazaar_prices_ts_idx ON bazaar_prices (ts DESC);`

	insertAuctionPriceSQL = `INSERT INTO auction_prices (ts, item_id, price) VALUES ($1, $2, $3);`

	insertBazaarPriceSQL = `INSERT INTO bazaar_prices (ts, product_id, buy_price, sell_price)
    VALUES ($1, $2, $3, $4);`

	recentAuctionPricesSQL = `SELECT item_id, price, ts
    FROM auction_prices
    WHERE ts >= $1
    ORDER BY ts DESC;`

	auctionBaselineSQL = `SELECT price
    FROM auction_prices
    WHERE item_id = $1
    ORDER BY ts DESC
    LIMIT $2 OFFSET 1;`

	auctionSeriesSQL = `SELECT ts, item_id, price
    FROM auction_prices
    WHERE item_id = $1
    ORDER BY ts;`

	auctionHistorySQL = `SELECT ts, item_id, price
    FROM auction_prices
    WHERE item_id = $1
    ORDER BY ts DESC
    LIMIT $2 OFFSET $3;`

	distinctAuctionItemsSQL = `SELECT DISTINCT item_id FROM auction_prices ORDER BY item_id;`

	recentBazaarPricesSQL = `SELECT product_id, buy_price, sell_price, ts
    FROM bazaar_prices
    WHERE ts >= $1
    ORDER BY ts DESC;`

	bazaarBaselineSQL = `SELECT buy_price, sell_price
    FROM bazaar_prices
    WHERE product_id = $1
    ORDER BY ts DESC
    LIMIT $2 OFFSET 1;`

	bazaarSeriesSQL = `SELECT ts, product_id, buy_price, sell_price
    FROM bazaar_prices
    WHERE product_id = $1
    ORDER BY ts;`

	distinctBazaarProductsSQL = `SELECT DISTINCT product_id FROM bazaar_prices ORDER BY product_id;`
)

// AuctionPriceStore defines the auction side of the append-only store.
type AuctionPriceStore interface {
	InsertAuctionPrices(ctx context.Context, prices []AuctionPrice) error
	AuctionSeries(ctx context.Context, itemID string) ([]AuctionPrice, error)
	AuctionHistory(ctx context.Context, itemID string, limit, offset int) ([]AuctionPrice, error)
	DistinctAuctionItems(ctx context.Context) ([]string, error)
}

// BazaarPriceStore defines the bazaar side of the append-only store.
type BazaarPriceStore interface {
	InsertBazaarPrices(ctx context.Context, prices []BazaarPrice) error
	BazaarSeries(ctx context.Context, productID string) ([]BazaarPrice, error)
	DistinctBazaarProducts(ctx context.Context) ([]string, error)
}

// Store aggregates access to both price tables.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the price tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertAuctionPrices appends one cycle's auction records in a single batch.
func (s *Store) InsertAuctionPrices(ctx context.Context, prices []AuctionPrice) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range prices {
		batch.Queue(insertAuctionPriceSQL, p.TS, p.ItemID, p.Price.String())
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for range prices {
		if _, execErr := results.Exec(); execErr != nil {
			return fmt.Errorf("insert auction price: %w", execErr)
		}
	}
	return nil
}

// InsertBazaarPrices appends one cycle's bazaar quotes in a single batch.
func (s *Store) InsertBazaarPrices(ctx context.Context, prices []BazaarPrice) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range prices {
		batch.Queue(insertBazaarPriceSQL, p.TS, p.ProductID, p.BuyPrice.String(), p.SellPrice.String())
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for range prices {
		if _, execErr := results.Exec(); execErr != nil {
			return fmt.Errorf("insert bazaar price: %w", execErr)
		}
	}
	return nil
}

// AuctionSeries returns an item's full stored history, oldest first.
func (s *Store) AuctionSeries(ctx context.Context, itemID string) ([]AuctionPrice, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, auctionSeriesSQL, itemID)
	if queryErr != nil {
		return nil, fmt.Errorf("auction series: %w", queryErr)
	}
	defer rows.Close()

	return scanAuctionPrices(rows)
}

// AuctionHistory returns an item's samples newest first with limit/offset.
func (s *Store) AuctionHistory(ctx context.Context, itemID string, limit, offset int) ([]AuctionPrice, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, auctionHistorySQL, itemID, limit, offset)
	if queryErr != nil {
		return nil, fmt.Errorf("auction history: %w", queryErr)
	}
	defer rows.Close()

	return scanAuctionPrices(rows)
}

// DistinctAuctionItems lists every item id seen in the auction table.
func (s *Store) DistinctAuctionItems(ctx context.Context) ([]string, error) {
	return s.distinctIDs(ctx, distinctAuctionItemsSQL)
}

// BazaarSeries returns a product's full stored history, oldest first.
func (s *Store) BazaarSeries(ctx context.Context, productID string) ([]BazaarPrice, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, bazaarSeriesSQL, productID)
	if queryErr != nil {
		return nil, fmt.Errorf("bazaar series: %w", queryErr)
	}
	defer rows.Close()

	prices := make([]BazaarPrice, 0)
	for rows.Next() {
		var (
			p       BazaarPrice
			buyStr  string
			sellStr string
		)
		if err := rows.Scan(&p.TS, &p.ProductID, &buyStr, &sellStr); err != nil {
			return nil, err
		}
		if p.BuyPrice, err = decimal.NewFromString(buyStr); err != nil {
			return nil, fmt.Errorf("parse buy price: %w", err)
		}
		if p.SellPrice, err = decimal.NewFromString(sellStr); err != nil {
			return nil, fmt.Errorf("parse sell price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// DistinctBazaarProducts lists every product id seen in the bazaar table.
func (s *Store) DistinctBazaarProducts(ctx context.Context) ([]string, error) {
	return s.distinctIDs(ctx, distinctBazaarProductsSQL)
}

func (s *Store) distinctIDs(ctx context.Context, sql string) ([]string, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, sql)
	if queryErr != nil {
		return nil, fmt.Errorf("distinct ids: %w", queryErr)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanAuctionPrices(rows pgx.Rows) ([]AuctionPrice, error) {
	prices := make([]AuctionPrice, 0)
	for rows.Next() {
		var (
			ts       time.Time
			itemID   string
			priceStr string
		)
		if err := rows.Scan(&ts, &itemID, &priceStr); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		prices = append(prices, AuctionPrice{TS: ts, ItemID: itemID, Price: price})
	}
	return prices, rows.Err()
}
