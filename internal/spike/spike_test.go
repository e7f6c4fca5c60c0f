package spike

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	latest    []Sample
	baselines map[string][]decimal.Decimal
	errFor    map[string]error
	limitSeen int
}

func (f *fakeHistory) LatestWithin(ctx context.Context, since time.Time) ([]Sample, error) {
	return f.latest, nil
}

func (f *fakeHistory) Baseline(ctx context.Context, entityID string, limit int) ([]decimal.Decimal, error) {
	f.limitSeen = limit
	if err, ok := f.errFor[entityID]; ok {
		return nil, err
	}
	return f.baselines[entityID], nil
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decs(vs ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = dec(v)
	}
	return out
}

func TestRankOrdersByAbsoluteChange(t *testing.T) {
	now := time.Now()
	hist := &fakeHistory{
		latest: []Sample{
			{EntityID: "UP_SMALL", Price: dec(110), Timestamp: now},
			{EntityID: "DOWN_BIG", Price: dec(40), Timestamp: now},
			{EntityID: "UP_BIG", Price: dec(180), Timestamp: now},
		},
		baselines: map[string][]decimal.Decimal{
			"UP_SMALL": decs(100),      // +10%
			"DOWN_BIG": decs(100, 100), // -60%
			"UP_BIG":   decs(100),      // +80%
		},
	}

	movers, err := NewRanker(zerolog.Nop()).Rank(context.Background(), hist, now, Window{Recency: 2 * time.Hour, BaselineCount: 5, TopK: 5})
	require.NoError(t, err)
	require.Len(t, movers, 3)

	assert.Equal(t, "UP_BIG", movers[0].EntityID)
	assert.Equal(t, "DOWN_BIG", movers[1].EntityID)
	assert.Equal(t, "UP_SMALL", movers[2].EntityID)
	assert.True(t, movers[1].PercentChange.Equal(dec(-60)), "got %s", movers[1].PercentChange)

	for i := 1; i < len(movers); i++ {
		assert.False(t, movers[i].PercentChange.Abs().GreaterThan(movers[i-1].PercentChange.Abs()),
			"ranking must be non-increasing in |percent change|")
	}
}

func TestRankSkipsEmptyAndZeroBaselines(t *testing.T) {
	now := time.Now()
	hist := &fakeHistory{
		latest: []Sample{
			{EntityID: "NO_HISTORY", Price: dec(50), Timestamp: now},
			{EntityID: "ZERO_BASE", Price: dec(50), Timestamp: now},
			{EntityID: "OK", Price: dec(50), Timestamp: now},
		},
		baselines: map[string][]decimal.Decimal{
			"ZERO_BASE": decs(0, 0, 0),
			"OK":        decs(100),
		},
	}

	movers, err := NewRanker(zerolog.Nop()).Rank(context.Background(), hist, now, Window{Recency: time.Hour, BaselineCount: 5, TopK: 10})
	require.NoError(t, err)
	require.Len(t, movers, 1)
	assert.Equal(t, "OK", movers[0].EntityID)
}

func TestRankTruncatesToTopK(t *testing.T) {
	now := time.Now()
	hist := &fakeHistory{
		latest: []Sample{
			{EntityID: "A", Price: dec(110)},
			{EntityID: "B", Price: dec(120)},
			{EntityID: "C", Price: dec(130)},
		},
		baselines: map[string][]decimal.Decimal{
			"A": decs(100), "B": decs(100), "C": decs(100),
		},
	}

	movers, err := NewRanker(zerolog.Nop()).Rank(context.Background(), hist, now, Window{Recency: time.Hour, BaselineCount: 100, TopK: 2})
	require.NoError(t, err)
	require.Len(t, movers, 2)
	assert.Equal(t, "C", movers[0].EntityID)
	assert.Equal(t, 100, hist.limitSeen, "configured baseline depth must reach the store")
}

func TestRankContinuesPastBaselineErrors(t *testing.T) {
	now := time.Now()
	hist := &fakeHistory{
		latest: []Sample{
			{EntityID: "BROKEN", Price: dec(10)},
			{EntityID: "OK", Price: dec(120)},
		},
		baselines: map[string][]decimal.Decimal{"OK": decs(100)},
		errFor:    map[string]error{"BROKEN": errors.New("boom")},
	}

	movers, err := NewRanker(zerolog.Nop()).Rank(context.Background(), hist, now, Window{Recency: time.Hour, BaselineCount: 5, TopK: 5})
	require.NoError(t, err)
	require.Len(t, movers, 1)
	assert.Equal(t, "OK", movers[0].EntityID)
}

func TestRankMeanBaseline(t *testing.T) {
	now := time.Now()
	hist := &fakeHistory{
		latest:    []Sample{{EntityID: "X", Price: dec(150)}},
		baselines: map[string][]decimal.Decimal{"X": decs(90, 110)}, // mean 100
	}

	movers, err := NewRanker(zerolog.Nop()).Rank(context.Background(), hist, now, Window{Recency: time.Hour, BaselineCount: 5, TopK: 5})
	require.NoError(t, err)
	require.Len(t, movers, 1)
	assert.True(t, movers[0].PercentChange.Equal(dec(50)), "got %s", movers[0].PercentChange)
}
