package fetcher

import "github.com/shopspring/decimal"

// Listing is one raw auction entry. The name is untrusted human-typed text;
// it lives only for the duration of one fetch cycle.
type Listing struct {
	Name        string          `json:"item_name"`
	Category    string          `json:"category"`
	StartingBid decimal.Decimal `json:"starting_bid"`
	BIN         bool            `json:"bin"`
}

// Product is one bazaar product with its continuously updated quote.
type Product struct {
	QuickStatus QuickStatus `json:"quick_status"`
}

// QuickStatus carries the live buy/sell quote. Either side may be absent,
// which excludes the product downstream.
type QuickStatus struct {
	BuyPrice  *decimal.Decimal `json:"buyPrice"`
	SellPrice *decimal.Decimal `json:"sellPrice"`
}
