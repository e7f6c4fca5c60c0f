package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionPrice is one persisted lowest-BIN observation for an item.
type AuctionPrice struct {
	TS     time.Time
	ItemID string
	Price  decimal.Decimal
}

// BazaarPrice is one persisted bazaar quote for a product.
type BazaarPrice struct {
	TS        time.Time
	ProductID string
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}
