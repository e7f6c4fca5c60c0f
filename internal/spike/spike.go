package spike

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Sample is one historical price observation for an entity. For quoted
// products the price is the buy/sell midpoint; the History implementation
// owns that choice.
type Sample struct {
	EntityID  string
	Price     decimal.Decimal
	Timestamp time.Time
}

// History is the read side of the external store the ranker consumes.
type History interface {
	// LatestWithin returns the most recent sample per entity with at least
	// one sample newer than since.
	LatestWithin(ctx context.Context, since time.Time) ([]Sample, error)
	// Baseline returns up to limit prices strictly older than the entity's
	// most recent sample, newest first.
	Baseline(ctx context.Context, entityID string, limit int) ([]decimal.Decimal, error)
}

// Window parameterises one ranking view. The two production views use
// different baseline depths (5 for per-cycle alerts, 100 for the global
// movers board); both stay configurable rather than hard-coded.
type Window struct {
	Recency       time.Duration
	BaselineCount int
	TopK          int
}

// Mover is one ranked entity with its relative price change.
type Mover struct {
	EntityID      string
	PercentChange decimal.Decimal
}

// Ranker computes rolling-window price movers.
type Ranker struct {
	logger zerolog.Logger
}

// NewRanker constructs a Ranker.
func NewRanker(logger zerolog.Logger) *Ranker {
	return &Ranker{logger: logger.With().Str("component", "spike_ranker").Logger()}
}

// Rank returns the top movers within the window, ordered by descending
// absolute percent change against the mean of each entity's baseline
// samples. Entities with no baseline, or a zero baseline, are excluded:
// their percent change is undefined, not an error.
func (r *Ranker) Rank(ctx context.Context, history History, now time.Time, window Window) ([]Mover, error) {
	latest, err := history.LatestWithin(ctx, now.Add(-window.Recency))
	if err != nil {
		return nil, fmt.Errorf("query recent samples: %w", err)
	}

	movers := make([]Mover, 0, len(latest))
	for _, sample := range latest {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		baseline, err := history.Baseline(ctx, sample.EntityID, window.BaselineCount)
		if err != nil {
			r.logger.Warn().Err(err).Str("entity", sample.EntityID).Msg("baseline query failed")
			continue
		}
		if len(baseline) == 0 {
			continue
		}

		mean := meanOf(baseline)
		if mean.IsZero() {
			continue
		}

		change := sample.Price.Sub(mean).Div(mean).Mul(decimal.NewFromInt(100))
		movers = append(movers, Mover{EntityID: sample.EntityID, PercentChange: change})
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].PercentChange.Abs().GreaterThan(movers[j].PercentChange.Abs())
	})

	if window.TopK > 0 && len(movers) > window.TopK {
		movers = movers[:window.TopK]
	}
	return movers, nil
}

func meanOf(prices []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(len(prices))))
}
