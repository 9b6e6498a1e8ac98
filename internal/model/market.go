package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds a chronological window of daily bars for one symbol.
type PriceSeries struct {
	Symbol       string
	Bars         []OHLCV
	CurrentPrice float64
	Source       string
	FetchedAt    time.Time
}

// Empty reports whether the series carries no bars.
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Bars) == 0
}

// LastClose returns the close of the most recent bar, or 0 when empty.
func (s *PriceSeries) LastClose() float64 {
	if s.Empty() {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// NewsItem is a single headline about the ticker.
type NewsItem struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// MarketSnapshot bundles everything the collector gathers for one scan.
type MarketSnapshot struct {
	Series       PriceSeries
	Events       []CalendarEvent
	News         []NewsItem
	IVPercentile int
	Technicals   Technicals
}
