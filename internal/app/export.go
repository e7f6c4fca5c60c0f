package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"skyblock-prices/internal/storage"
)

type seriesPoint struct {
	ts     time.Time
	values []decimal.Decimal
}

// Export renders one entity's stored history as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	if opts.EntityID == "" {
		return errors.New("an item or product id is required")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	defer closeStore()

	points, labels, err := loadSeries(ctx, store, opts.Feed, opts.EntityID)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		a.Logger.Info().Str("entity", opts.EntityID).Msg("no stored samples for entity")
		return nil
	}

	downsampled := downsamplePoints(points, opts.MaxPoints)
	a.Logger.Info().Int("total", len(points)).Int("exported", len(downsampled)).Msg("exporting samples")

	if opts.CSVPath != "" {
		if err := writeSeriesCSV(opts.CSVPath, downsampled, labels); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeSeriesPNG(opts.PNGPath, opts.EntityID, downsampled, labels); err != nil {
			return err
		}
	}

	return nil
}

func loadSeries(ctx context.Context, store *storage.Store, feed, entityID string) ([]seriesPoint, []string, error) {
	switch feed {
	case "bazaar":
		rows, err := store.BazaarSeries(ctx, entityID)
		if err != nil {
			return nil, nil, err
		}
		points := make([]seriesPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, seriesPoint{ts: r.TS, values: []decimal.Decimal{r.BuyPrice, r.SellPrice}})
		}
		return points, []string{"buy_price", "sell_price"}, nil
	case "", "auction":
		rows, err := store.AuctionSeries(ctx, entityID)
		if err != nil {
			return nil, nil, err
		}
		points := make([]seriesPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, seriesPoint{ts: r.TS, values: []decimal.Decimal{r.Price}})
		}
		return points, []string{"price"}, nil
	default:
		return nil, nil, fmt.Errorf("unknown feed %q (want auction or bazaar)", feed)
	}
}

func downsamplePoints(points []seriesPoint, max int) []seriesPoint {
	if max <= 0 || len(points) <= max {
		return points
	}
	if max == 1 {
		// The stride below needs at least two output slots; with one, keep
		// the most recent sample.
		return points[len(points)-1:]
	}

	result := make([]seriesPoint, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}

func writeSeriesCSV(path string, points []seriesPoint, labels []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"ts"}, labels...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, point := range points {
		record := make([]string, 0, len(point.values)+1)
		record = append(record, point.ts.UTC().Format(time.RFC3339))
		for _, v := range point.values {
			record = append(record, v.String())
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeSeriesPNG(path, entityID string, points []seriesPoint, labels []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(points))
	ys := make([][]float64, len(labels))
	for i := range ys {
		ys[i] = make([]float64, len(points))
	}
	for i, point := range points {
		x[i] = point.ts
		for j, v := range point.values {
			ys[j][i] = v.InexactFloat64()
		}
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.1f")
	}
	graph := chart.Chart{
		Title:  entityID,
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price (coins)",
			ValueFormatter: priceFormatter,
		},
	}
	for j, label := range labels {
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    label,
			XValues: x,
			YValues: ys[j],
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
