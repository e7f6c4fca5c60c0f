package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"skyblock-prices/internal/storage"
)

// Show prints one entity's recent history with a small summary, or lists
// every known entity id when none is given.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show history")
	}
	defer closeStore()

	if opts.EntityID == "" {
		return a.listEntities(ctx, store, opts.Feed)
	}

	switch opts.Feed {
	case "bazaar":
		return a.showBazaar(ctx, store, opts)
	case "", "auction":
		return a.showAuction(ctx, store, opts)
	default:
		return fmt.Errorf("unknown feed %q (want auction or bazaar)", opts.Feed)
	}
}

func (a *App) listEntities(ctx context.Context, store *storage.Store, feed string) error {
	var (
		ids []string
		err error
	)
	switch feed {
	case "bazaar":
		ids, err = store.DistinctBazaarProducts(ctx)
	case "", "auction":
		ids, err = store.DistinctAuctionItems(ctx)
	default:
		return fmt.Errorf("unknown feed %q (want auction or bazaar)", feed)
	}
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stdout, "no entities recorded yet")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(os.Stdout, id)
	}
	return nil
}

func (a *App) showAuction(ctx context.Context, store *storage.Store, opts ShowOptions) error {
	rows, err := store.AuctionHistory(ctx, opts.EntityID, opts.Limit, 0)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "no samples found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tPrice")
	for _, row := range rows {
		fmt.Fprintf(writer, "%s\t%s\n", row.TS.UTC().Format(time.RFC3339), row.Price.String())
	}
	writer.Flush()

	prices := make([]decimal.Decimal, 0, len(rows))
	for _, row := range rows {
		prices = append(prices, row.Price)
	}
	// Rows come back newest first.
	printSummary(prices[0], prices[len(prices)-1], prices)
	return nil
}

func (a *App) showBazaar(ctx context.Context, store *storage.Store, opts ShowOptions) error {
	rows, err := store.BazaarSeries(ctx, opts.EntityID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "no samples found")
		return nil
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[len(rows)-opts.Limit:]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tBuy\tSell\tMid")
	mids := make([]decimal.Decimal, 0, len(rows))
	for _, row := range rows {
		mid := row.BuyPrice.Add(row.SellPrice).Div(decimal.NewFromInt(2))
		mids = append(mids, mid)
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			row.TS.UTC().Format(time.RFC3339),
			row.BuyPrice.String(),
			row.SellPrice.String(),
			mid.String(),
		)
	}
	writer.Flush()

	// Rows come back oldest first.
	printSummary(mids[len(mids)-1], mids[0], mids)
	return nil
}

func printSummary(latest, oldest decimal.Decimal, prices []decimal.Decimal) {
	min, max := prices[0], prices[0]
	sum := decimal.Zero
	for _, p := range prices {
		if p.LessThan(min) {
			min = p
		}
		if p.GreaterThan(max) {
			max = p
		}
		sum = sum.Add(p)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(prices))))

	delta := latest.Sub(oldest)
	pct := "n/a"
	if !oldest.IsZero() {
		pct = delta.Div(oldest).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
	}

	fmt.Fprintf(os.Stdout, "\nmin=%s max=%s avg=%s delta=%s (%s)\n",
		min.String(), max.String(), formatDecimal(avg, 1), delta.String(), pct)
}
