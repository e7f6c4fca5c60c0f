package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"skyblock-prices/internal/aggregate"
	"skyblock-prices/internal/alerting"
	"skyblock-prices/internal/catalog"
	"skyblock-prices/internal/config"
	"skyblock-prices/internal/diagnostics"
	"skyblock-prices/internal/fetcher"
	"skyblock-prices/internal/metrics"
	"skyblock-prices/internal/normalize"
	"skyblock-prices/internal/scheduler"
	"skyblock-prices/internal/spike"
	"skyblock-prices/internal/storage"
)

// Stores bundles the optional persistence dependencies. Any nil field
// disables that concern for the cycle instead of failing it.
type Stores struct {
	Auction        storage.AuctionPriceStore
	Bazaar         storage.BazaarPriceStore
	AuctionHistory spike.History
	BazaarHistory  spike.History
}

// Service orchestrates one polling cycle: fetch, normalize, aggregate,
// persist, rank, alert.
type Service struct {
	scheduler *scheduler.Scheduler
	auctions  fetcher.AuctionListingFetcher
	bazaar    fetcher.BazaarProductFetcher
	catalog   *catalog.Catalog
	resolver  *normalize.Resolver
	stores    Stores
	ranker    *spike.Ranker
	notifier  alerting.Notifier
	metrics   *metrics.Registry
	logger    zerolog.Logger

	alertWindow spike.Window
	threshold   decimal.Decimal
	channels    []string
	alertsOn    bool

	dumpEnabled bool
	dumpPath    string
}

// New constructs the watcher service.
func New(
	cfg *config.Config,
	sched *scheduler.Scheduler,
	auctions fetcher.AuctionListingFetcher,
	bazaar fetcher.BazaarProductFetcher,
	cat *catalog.Catalog,
	stores Stores,
	notifier alerting.Notifier,
	reg *metrics.Registry,
	logger zerolog.Logger,
) *Service {
	threshold := decimal.Zero
	if cfg.Alerting.Enabled && cfg.Alerting.ThresholdPct > 0 {
		threshold = decimal.NewFromFloat(cfg.Alerting.ThresholdPct)
	}

	return &Service{
		scheduler: sched,
		auctions:  auctions,
		bazaar:    bazaar,
		catalog:   cat,
		resolver:  normalize.NewResolver(cat),
		stores:    stores,
		ranker:    spike.NewRanker(logger),
		notifier:  notifier,
		metrics:   reg,
		logger:    logger.With().Str("component", "service").Logger(),
		alertWindow: spike.Window{
			Recency:       cfg.Spikes.RecencyWindow,
			BaselineCount: cfg.Spikes.Alert.BaselineCount,
			TopK:          cfg.Spikes.Alert.TopK,
		},
		threshold:   threshold,
		channels:    cfg.Alerting.Channels,
		alertsOn:    cfg.Alerting.Enabled,
		dumpEnabled: cfg.Diagnostics.Enabled,
		dumpPath:    cfg.Diagnostics.AuctionDumpPath,
	}
}

// Run begins the polling loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.RunCycle)
}

// RunCycle executes one full fetch cycle. No failure inside the cycle is
// fatal: the auction and bazaar halves and the spike ranking each degrade
// independently, and the next scheduled cycle is the retry mechanism.
func (s *Service) RunCycle(ctx context.Context, start time.Time) error {
	logger := s.logger.With().Str("cycle_id", uuid.NewString()).Logger()
	began := time.Now()

	s.processAuctions(ctx, start, logger)
	s.processBazaar(ctx, start, logger)
	s.rankAndAlert(ctx, start, logger)

	if s.metrics != nil {
		s.metrics.CyclesTotal.Inc()
		s.metrics.CycleDuration.Observe(time.Since(began).Seconds())
	}

	logger.Info().Dur("elapsed", time.Since(began)).Msg("cycle complete")
	return nil
}

func (s *Service) processAuctions(ctx context.Context, start time.Time, logger zerolog.Logger) {
	listings, err := s.auctions.FetchAll(ctx)
	if err != nil {
		// Page count unavailable: the listing half of this cycle is
		// abandoned rather than persisted partially.
		logger.Error().Err(err).Msg("auction fetch failed; skipping listing aggregation")
		return
	}

	records, skipped := aggregate.LowestPrices(listings, s.resolver)
	logger.Info().
		Int("listings", len(listings)).
		Int("records", len(records)).
		Int("skipped", len(skipped)).
		Msg("auction listings aggregated")

	if s.metrics != nil {
		s.metrics.ListingsSkipped.Add(float64(len(skipped)))
	}

	if s.dumpEnabled && s.dumpPath != "" {
		if err := diagnostics.WriteSkippedNames(s.dumpPath, s.catalog.Mapping(), skipped); err != nil {
			logger.Error().Err(err).Str("path", s.dumpPath).Msg("failed to write skipped-name dump")
		}
	}

	if s.stores.Auction == nil {
		return
	}

	rows := make([]storage.AuctionPrice, 0, len(records))
	for _, record := range records {
		rows = append(rows, storage.AuctionPrice{TS: start, ItemID: record.ItemID, Price: record.Price})
	}
	if err := s.stores.Auction.InsertAuctionPrices(ctx, rows); err != nil {
		logger.Error().Err(err).Msg("failed to insert auction prices")
		return
	}
	if s.metrics != nil {
		s.metrics.RowsInserted.WithLabelValues("auction_prices").Add(float64(len(rows)))
	}
}

func (s *Service) processBazaar(ctx context.Context, start time.Time, logger zerolog.Logger) {
	products, err := s.bazaar.Fetch(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("bazaar fetch failed; skipping bazaar aggregation")
		return
	}

	quotes, skipped := aggregate.FilterBazaar(products, s.catalog)
	logger.Info().
		Int("products", len(products)).
		Int("kept", len(quotes)).
		Int("excluded", len(skipped)).
		Msg("bazaar products filtered")

	if s.stores.Bazaar == nil {
		return
	}

	rows := make([]storage.BazaarPrice, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, storage.BazaarPrice{TS: start, ProductID: q.ProductID, BuyPrice: q.BuyPrice, SellPrice: q.SellPrice})
	}
	if err := s.stores.Bazaar.InsertBazaarPrices(ctx, rows); err != nil {
		logger.Error().Err(err).Msg("failed to insert bazaar prices")
		return
	}
	if s.metrics != nil {
		s.metrics.RowsInserted.WithLabelValues("bazaar_prices").Add(float64(len(rows)))
	}
}

func (s *Service) rankAndAlert(ctx context.Context, start time.Time, logger zerolog.Logger) {
	movers := s.RankCombined(ctx, start, s.alertWindow, logger)
	if len(movers) == 0 {
		return
	}

	for _, mover := range movers {
		logger.Info().
			Str("entity", mover.EntityID).
			Str("change_pct", mover.PercentChange.StringFixed(2)).
			Msg("price mover")
	}

	if !s.alertsOn || s.notifier == nil || s.threshold.IsZero() {
		return
	}

	var breaching []spike.Mover
	for _, mover := range movers {
		if mover.PercentChange.Abs().GreaterThan(s.threshold) {
			breaching = append(breaching, mover)
		}
	}
	if len(breaching) == 0 {
		return
	}

	note := alerting.Notification{
		CycleTS:      start,
		Movers:       breaching,
		ThresholdPct: s.threshold,
		Channels:     s.channels,
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		logger.Error().Err(err).Msg("failed to dispatch alert")
	}
}

// RankCombined ranks both feeds with one window and merges them into a
// single board, auction entities prefixed "A-" and bazaar entities "B-".
func (s *Service) RankCombined(ctx context.Context, now time.Time, window spike.Window, logger zerolog.Logger) []spike.Mover {
	var movers []spike.Mover

	if s.stores.AuctionHistory != nil {
		ranked, err := s.ranker.Rank(ctx, s.stores.AuctionHistory, now, window)
		if err != nil {
			logger.Error().Err(err).Msg("auction spike ranking failed")
		} else {
			for _, m := range ranked {
				movers = append(movers, spike.Mover{EntityID: "A-" + m.EntityID, PercentChange: m.PercentChange})
			}
		}
	}

	if s.stores.BazaarHistory != nil {
		ranked, err := s.ranker.Rank(ctx, s.stores.BazaarHistory, now, window)
		if err != nil {
			logger.Error().Err(err).Msg("bazaar spike ranking failed")
		} else {
			for _, m := range ranked {
				movers = append(movers, spike.Mover{EntityID: "B-" + m.EntityID, PercentChange: m.PercentChange})
			}
		}
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].PercentChange.Abs().GreaterThan(movers[j].PercentChange.Abs())
	})
	if window.TopK > 0 && len(movers) > window.TopK {
		movers = movers[:window.TopK]
	}
	return movers
}
