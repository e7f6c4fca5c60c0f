package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"skyblock-prices/internal/alerting"
	"skyblock-prices/internal/catalog"
	"skyblock-prices/internal/config"
	"skyblock-prices/internal/fetcher"
	"skyblock-prices/internal/metrics"
	"skyblock-prices/internal/scheduler"
	"skyblock-prices/internal/service"
	"skyblock-prices/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(a.Config.Catalog.Path)
	if err != nil {
		return nil, err
	}
	a.Logger.Info().Int("entries", cat.Len()).Str("path", a.Config.Catalog.Path).Msg("catalog loaded")
	return cat, nil
}

func (a *App) newFetchers(reg *metrics.Registry) (fetcher.AuctionListingFetcher, fetcher.BazaarProductFetcher) {
	auctions := fetcher.NewAuctionClient(fetcher.AuctionOptions{
		BaseURL:         a.Config.Hypixel.BaseURL,
		PageConcurrency: a.Config.Hypixel.PageConcurrency,
		Timeout:         a.Config.Hypixel.RequestTimeout,
		UserAgent:       a.Config.Hypixel.UserAgent,
	}, reg, a.Logger)

	bazaar := fetcher.NewBazaarClient(fetcher.BazaarOptions{
		BaseURL:   a.Config.Hypixel.BaseURL,
		Timeout:   a.Config.Hypixel.RequestTimeout,
		UserAgent: a.Config.Hypixel.UserAgent,
	}, a.Logger)

	return auctions, bazaar
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) newStores(store *storage.Store) service.Stores {
	if store == nil {
		return service.Stores{}
	}
	return service.Stores{
		Auction:        store,
		Bazaar:         store,
		AuctionHistory: storage.NewAuctionHistorySource(store),
		BazaarHistory:  storage.NewBazaarHistorySource(store),
	}
}

// Run executes the long-running watcher service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cat, err := a.loadCatalog()
	if err != nil {
		return err
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; persistence disabled")
	} else {
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	if closeStore != nil {
		defer closeStore()
	}

	reg := metrics.NewRegistry()
	if a.Config.Metrics.Enabled {
		go reg.Serve(ctx, a.Config.Metrics.ListenAddr, a.Logger)
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	auctions, bazaar := a.newFetchers(reg)
	notifier := a.newNotifier()

	svc := service.New(a.Config, sched, auctions, bazaar, cat, a.newStores(store), notifier, reg, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting watcher service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("watcher service stopped")
	return nil
}

// ExportOptions hold parameters for exporting one entity's history.
type ExportOptions struct {
	Feed      string
	EntityID  string
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Feed     string
	EntityID string
	Limit    int
}

// MoversOptions configure the movers command.
type MoversOptions struct {
	BaselineCount int
	TopK          int
}
