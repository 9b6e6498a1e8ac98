package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CatalystScanner/internal/calendar"
	"CatalystScanner/internal/model"
	"CatalystScanner/internal/volatility"
)

var testNow = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

type failingNews struct{}

func (failingNews) FetchNews(context.Context, string, int) ([]model.NewsItem, error) {
	return nil, errors.New("news down")
}

type failingVol struct{}

func (failingVol) Name() string { return "broken" }
func (failingVol) IVPercentile(context.Context, string, []model.OHLCV) (int, error) {
	return 0, errors.New("no chain")
}

type countingFetcher struct {
	calls  int
	series *model.PriceSeries
	err    error
	name   string
}

func (c *countingFetcher) Name() string { return c.name }
func (c *countingFetcher) FetchDailyBars(context.Context, string, int) (*model.PriceSeries, error) {
	c.calls++
	return c.series, c.err
}

func TestMockFetcher_GeneratesBars(t *testing.T) {
	m := &MockFetcher{Price: 200}
	series, err := m.FetchDailyBars(context.Background(), "ABNB", 30)
	require.NoError(t, err)
	require.Len(t, series.Bars, 30)
	assert.InDelta(t, 200, series.CurrentPrice, 1e-9)
	for i := 1; i < len(series.Bars); i++ {
		assert.True(t, series.Bars[i-1].Time.Before(series.Bars[i].Time))
	}
}

func TestCollector_Collect(t *testing.T) {
	m := &MockFetcher{
		Price:     150,
		Headlines: []model.NewsItem{{Title: "a"}, {Title: "b"}, {Title: "c"}},
	}
	cal := calendar.NewStatic([]calendar.Entry{
		{Symbol: "ABNB", Date: testNow.AddDate(0, 0, 3), Label: "Earnings", Importance: model.ImportanceHigh},
	})
	c := NewCollector(m, m, cal, volatility.Fixed{Value: 72})
	c.NewsLimit = 2

	snap, err := c.Collect(context.Background(), " abnb ", testNow)
	require.NoError(t, err)
	assert.Equal(t, "ABNB", snap.Series.Symbol)
	assert.Len(t, snap.Series.Bars, DefaultLookback)
	assert.InDelta(t, 150, snap.Series.CurrentPrice, 1e-9)
	assert.Len(t, snap.News, 2)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "Earnings", snap.Events[0].Label)
	assert.Equal(t, 72, snap.IVPercentile)
	assert.Equal(t, DefaultLookback, snap.Technicals.Bars)
	assert.NotZero(t, snap.Technicals.SMA50)
}

func TestCollector_OptionalFailuresDegrade(t *testing.T) {
	m := &MockFetcher{Price: 80}
	c := NewCollector(m, failingNews{}, nil, failingVol{})

	snap, err := c.Collect(context.Background(), "TSLA", testNow)
	require.NoError(t, err)
	assert.Empty(t, snap.News)
	assert.Empty(t, snap.Events)
	assert.Equal(t, DefaultIV, snap.IVPercentile)
}

func TestCollector_PriceFailureIsError(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("offline")}, nil, nil, nil)
	_, err := c.Collect(context.Background(), "ABNB", testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")

	c = NewCollector(&MockFetcher{}, nil, nil, nil)
	_, err = c.Collect(context.Background(), "ABNB", testNow)
	assert.Error(t, err, "zero price yields no bars")

	_, err = c.Collect(context.Background(), "  ", testNow)
	assert.Error(t, err)
}

func TestFallbackFetcher(t *testing.T) {
	good := &model.PriceSeries{Symbol: "ABNB", Bars: []model.OHLCV{{Close: 1}}, Source: "second"}
	first := &countingFetcher{name: "first", err: errors.New("down")}
	empty := &countingFetcher{name: "empty", series: &model.PriceSeries{}}
	second := &countingFetcher{name: "second", series: good}
	third := &countingFetcher{name: "third", series: good}

	f := NewFallbackFetcher(first, empty, second, third)
	series, err := f.FetchDailyBars(context.Background(), "ABNB", 10)
	require.NoError(t, err)
	assert.Equal(t, "second", series.Source)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 0, third.calls)
}

func TestFallbackFetcher_AllFail(t *testing.T) {
	f := NewFallbackFetcher(
		&countingFetcher{name: "a", err: errors.New("a down")},
		&countingFetcher{name: "b", err: errors.New("b down")},
	)
	_, err := f.FetchDailyBars(context.Background(), "ABNB", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a down")
	assert.Contains(t, err.Error(), "b down")

	_, err = NewFallbackFetcher().FetchDailyBars(context.Background(), "ABNB", 10)
	assert.Error(t, err)
}

func TestCachedFetcher(t *testing.T) {
	inner := &countingFetcher{name: "inner", series: &model.PriceSeries{Bars: []model.OHLCV{{Close: 5}}}}
	c := NewCachedFetcher(inner, time.Hour)
	clock := testNow
	c.cache.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		_, err := c.FetchDailyBars(context.Background(), "ABNB", 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inner.calls)

	_, _ = c.FetchDailyBars(context.Background(), "ABNB", 20)
	assert.Equal(t, 2, inner.calls, "different window is a different key")

	clock = clock.Add(time.Hour)
	_, _ = c.FetchDailyBars(context.Background(), "ABNB", 10)
	assert.Equal(t, 3, inner.calls, "expired entry refetched")
}

func TestCachedFetcher_SweepsExpiredKeys(t *testing.T) {
	inner := &countingFetcher{name: "inner", series: &model.PriceSeries{Bars: []model.OHLCV{{Close: 5}}}}
	c := NewCachedFetcher(inner, time.Hour)
	clock := testNow
	c.cache.now = func() time.Time { return clock }

	for i := 0; i < 50; i++ {
		_, err := c.FetchDailyBars(context.Background(), fmt.Sprintf("SYM%d", i), 10)
		require.NoError(t, err)
	}
	assert.Len(t, c.cache.entries, 50)

	clock = clock.Add(2 * time.Hour)
	_, err := c.FetchDailyBars(context.Background(), "FRESH", 10)
	require.NoError(t, err)
	assert.Len(t, c.cache.entries, 1, "keys never read again are dropped")
	_, ok := c.cache.entries["FRESH|10"]
	assert.True(t, ok)
}

func TestCachedFetcher_ErrorsNotCached(t *testing.T) {
	inner := &countingFetcher{name: "inner", err: errors.New("down")}
	c := NewCachedFetcher(inner, time.Hour)
	_, err := c.FetchDailyBars(context.Background(), "ABNB", 10)
	require.Error(t, err)
	_, err = c.FetchDailyBars(context.Background(), "ABNB", 10)
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedNewsFetcher(t *testing.T) {
	m := &MockFetcher{Headlines: []model.NewsItem{{Title: "x"}}}
	c := NewCachedNewsFetcher(m, time.Minute)
	items, err := c.FetchNews(context.Background(), "ABNB", 5)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	m.Err = errors.New("down")
	items, err = c.FetchNews(context.Background(), "ABNB", 5)
	require.NoError(t, err, "served from cache")
	assert.Len(t, items, 1)
}
