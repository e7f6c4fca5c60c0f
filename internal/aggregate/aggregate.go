package aggregate

import (
	"github.com/shopspring/decimal"

	"skyblock-prices/internal/catalog"
	"skyblock-prices/internal/fetcher"
	"skyblock-prices/internal/normalize"
)

// PriceRecord is the single comparable price point for one catalog id in one
// cycle: the minimum buy-it-now starting bid, rounded to one decimal.
type PriceRecord struct {
	ItemID string
	Price  decimal.Decimal
}

// ProductQuote is a bazaar quote reduced to the fields the store keeps.
type ProductQuote struct {
	ProductID string
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

// LowestPrices reduces raw listings to one lowest-price record per resolved
// catalog id. Non-BIN listings are dropped; names that resolve to no catalog
// entry are returned (post-sanitization) for diagnostics. Ties keep the
// first record seen; output order is first-seen order.
func LowestPrices(listings []fetcher.Listing, resolver *normalize.Resolver) ([]PriceRecord, []string) {
	records := make([]PriceRecord, 0, len(listings))
	index := make(map[string]int, len(listings))
	var skipped []string

	for _, listing := range listings {
		if !listing.BIN {
			continue
		}

		res := resolver.Resolve(listing.Name, listing.Category)
		if !res.Resolved {
			skipped = append(skipped, res.Sanitized)
			continue
		}

		price := listing.StartingBid.Round(1)
		if i, ok := index[res.ID]; ok {
			if price.LessThan(records[i].Price) {
				records[i].Price = price
			}
			continue
		}

		index[res.ID] = len(records)
		records = append(records, PriceRecord{ItemID: res.ID, Price: price})
	}

	return records, skipped
}

// FilterBazaar keeps quoted products that are catalog members with both buy
// and sell prices present, rounding both to one decimal. Excluded product
// ids are returned for logging.
func FilterBazaar(products map[string]fetcher.Product, cat *catalog.Catalog) ([]ProductQuote, []string) {
	quotes := make([]ProductQuote, 0, len(products))
	var skipped []string

	for id, product := range products {
		qs := product.QuickStatus
		if !cat.Has(id) || qs.BuyPrice == nil || qs.SellPrice == nil {
			skipped = append(skipped, id)
			continue
		}

		quotes = append(quotes, ProductQuote{
			ProductID: id,
			BuyPrice:  qs.BuyPrice.Round(1),
			SellPrice: qs.SellPrice.Round(1),
		})
	}

	return quotes, skipped
}
