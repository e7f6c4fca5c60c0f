package fetcher

import (
	"context"
)

// AuctionListingFetcher retrieves every page of the auction house feed.
type AuctionListingFetcher interface {
	FetchAll(ctx context.Context) ([]Listing, error)
}

// BazaarProductFetcher retrieves the flat quoted-product feed.
type BazaarProductFetcher interface {
	Fetch(ctx context.Context) (map[string]Product, error)
}
