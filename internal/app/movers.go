package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"skyblock-prices/internal/service"
	"skyblock-prices/internal/spike"
)

// Movers prints the global movers board across both feeds, ranked by the
// magnitude of the change against each entity's deep baseline.
func (a *App) Movers(ctx context.Context, opts MoversOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot rank movers")
	}
	defer closeStore()

	window := spike.Window{
		Recency:       a.Config.Spikes.RecencyWindow,
		BaselineCount: a.Config.Spikes.Movers.BaselineCount,
		TopK:          a.Config.Spikes.Movers.TopK,
	}
	if opts.BaselineCount > 0 {
		window.BaselineCount = opts.BaselineCount
	}
	if opts.TopK > 0 {
		window.TopK = opts.TopK
	}

	// Only the ranking half of the service is exercised here, so the
	// fetchers and notifier stay nil.
	svc := service.New(a.Config, nil, nil, nil, nil, a.newStores(store), nil, nil, a.Logger)
	movers := svc.RankCombined(ctx, time.Now().UTC(), window, a.Logger)
	if len(movers) == 0 {
		fmt.Fprintln(os.Stdout, "no movers inside the recency window")
		return nil
	}

	fmt.Fprintf(os.Stdout, "Top movers - last %s\n", a.Config.Spikes.RecencyWindow)
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Entity\tChange%")
	for _, mover := range movers {
		fmt.Fprintf(writer, "%s\t%s%%\n", mover.EntityID, mover.PercentChange.StringFixed(2))
	}
	return writer.Flush()
}
