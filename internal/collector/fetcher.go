package collector

import (
	"context"
	"time"

	"CatalystScanner/internal/model"
)

var timeNow = time.Now

// Fetcher retrieves a chronological window of daily bars. Implementations
// fill Symbol, Source, CurrentPrice (last close) and FetchedAt.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, bars int) (*model.PriceSeries, error)
	Name() string
}

// NewsFetcher retrieves recent headlines for a ticker.
type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error)
}

func newSeries(symbol, source string, bars []model.OHLCV) *model.PriceSeries {
	s := &model.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		Source:    source,
		FetchedAt: timeNow(),
	}
	s.CurrentPrice = s.LastClose()
	return s
}
