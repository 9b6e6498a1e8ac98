package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"CatalystScanner/internal/calculator"
	"CatalystScanner/internal/calendar"
	"CatalystScanner/internal/model"
	"CatalystScanner/internal/volatility"
)

const (
	// DefaultLookback is the number of daily bars fetched per scan, about six
	// months of sessions.
	DefaultLookback = 126
	// DefaultNewsLimit caps the headlines attached to a snapshot.
	DefaultNewsLimit = 5
	// DefaultIV is the IV percentile assumed when no volatility source
	// answers.
	DefaultIV = 50
)

// Collector gathers everything one scan needs. Only the price fetch is
// mandatory; news, calendar and volatility failures degrade to defaults.
type Collector struct {
	Fetcher    Fetcher
	News       NewsFetcher       // optional
	Calendar   calendar.Source   // optional
	Volatility volatility.Source // optional
	Lookback   int
	NewsLimit  int
	DefaultIV  int
}

// NewCollector creates a Collector with default lookback and news limit.
func NewCollector(fetcher Fetcher, news NewsFetcher, cal calendar.Source, vol volatility.Source) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		News:       news,
		Calendar:   cal,
		Volatility: vol,
		Lookback:   DefaultLookback,
		NewsLimit:  DefaultNewsLimit,
		DefaultIV:  DefaultIV,
	}
}

// Collect fetches bars, events, news and the IV percentile for symbol.
func (c *Collector) Collect(ctx context.Context, symbol string, now time.Time) (*model.MarketSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	series, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.lookback())
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if series.Empty() {
		return nil, fmt.Errorf("fetch daily bars: no data for %s", symbol)
	}

	snap := &model.MarketSnapshot{
		Series:       *series,
		IVPercentile: c.DefaultIV,
		Technicals:   calculator.Summarize(series.Bars),
	}

	if c.Calendar != nil {
		if events, err := c.Calendar.Events(ctx, symbol, now); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("calendar lookup failed, continuing without events")
		} else {
			snap.Events = events
		}
	}

	if c.News != nil && c.NewsLimit > 0 {
		if news, err := c.News.FetchNews(ctx, symbol, c.NewsLimit); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("news fetch failed, continuing without headlines")
		} else {
			snap.News = news
		}
	}

	if c.Volatility != nil {
		if iv, err := c.Volatility.IVPercentile(ctx, symbol, series.Bars); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Int("default", c.DefaultIV).Msg("IV percentile unavailable, using default")
		} else {
			snap.IVPercentile = iv
		}
	}

	return snap, nil
}

func (c *Collector) lookback() int {
	if c.Lookback <= 0 {
		return DefaultLookback
	}
	return c.Lookback
}
