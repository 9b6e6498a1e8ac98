package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"CatalystScanner/internal/metrics"
	"CatalystScanner/internal/model"
)

// FallbackFetcher tries each source in order. The first one that returns at
// least one bar wins.
type FallbackFetcher struct {
	Sources []Fetcher
}

// NewFallbackFetcher chains sources in priority order.
func NewFallbackFetcher(sources ...Fetcher) *FallbackFetcher {
	return &FallbackFetcher{Sources: sources}
}

func (f *FallbackFetcher) Name() string { return "fallback" }

func (f *FallbackFetcher) FetchDailyBars(ctx context.Context, symbol string, n int) (*model.PriceSeries, error) {
	var errs []error
	for _, src := range f.Sources {
		series, err := src.FetchDailyBars(ctx, symbol, n)
		if err == nil && !series.Empty() {
			return series, nil
		}
		if err == nil {
			err = fmt.Errorf("no bars for %s", symbol)
		}
		metrics.FetchFailuresTotal.WithLabelValues(src.Name()).Inc()
		log.Warn().Err(err).Str("source", src.Name()).Str("symbol", symbol).Msg("data source failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, errors.New("no data sources configured")
	}
	return nil, fmt.Errorf("all data sources failed: %w", errors.Join(errs...))
}
