package collector

import (
	"context"
	"time"

	"CatalystScanner/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Headlines []model.NewsItem
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, n int) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return newSeries(symbol, m.Name(), m.DailyData), nil
	}
	return newSeries(symbol, m.Name(), generateMockBars(m.Price, n, timeNow())), nil
}

func (m *MockFetcher) FetchNews(_ context.Context, _ string, limit int) ([]model.NewsItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Headlines) > limit {
		return m.Headlines[:limit], nil
	}
	return m.Headlines, nil
}

// generateMockBars builds a gently rising series ending at basePrice on the
// day before end.
func generateMockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	if basePrice <= 0 || count <= 0 {
		return nil
	}
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count+1)*0.001)
		bars[i] = model.OHLCV{
			Time:   day.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
