package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CatalystScanner/internal/model"
)

func snapshot(price float64) *model.MarketSnapshot {
	var bars []model.OHLCV
	for i := 0; i < 30; i++ {
		p := price * (0.9 + float64(i)*0.004)
		bars = append(bars, model.OHLCV{
			Time:  testNow.AddDate(0, 0, i-30),
			Open:  p,
			High:  p * 1.01,
			Low:   p * 0.99,
			Close: p,
		})
	}
	bars[len(bars)-1].Close = price
	return &model.MarketSnapshot{
		Series: model.PriceSeries{
			Symbol:       "ABNB",
			Bars:         bars,
			CurrentPrice: price,
			Source:       "mock",
		},
		Events: []model.CalendarEvent{
			eventIn(-2, "Old News", model.ImportanceHigh),
			eventIn(10, "Earnings Release", model.ImportanceHigh),
		},
		IVPercentile: 50,
	}
}

func TestEvaluate_FullReport(t *testing.T) {
	report, err := Evaluate(snapshot(100), scenarioParams(), testNow)
	require.NoError(t, err)

	assert.Equal(t, "ABNB", report.Symbol)
	assert.Equal(t, 14, report.DTE)
	assert.Equal(t, "mock", report.Source)
	assert.False(t, report.Levels.IsZero())
	require.NotNil(t, report.Plan)
	assert.Equal(t, 95.0, report.Plan.ShortStrike)
	assert.Len(t, report.Curve, DefaultCurvePoints)
	assert.Contains(t, report.Risk.Reasons, "Upcoming Earnings Release in 10 days")
	require.Len(t, report.Events, 1, "past events are not listed")
	assert.Equal(t, "Earnings Release", report.Events[0].Label)
	assert.NotEmpty(t, report.Recommendation.Verdict)
}

func TestEvaluate_EmptySeries(t *testing.T) {
	snap := &model.MarketSnapshot{Series: model.PriceSeries{Symbol: "NOPE"}, IVPercentile: 90}
	report, err := Evaluate(snap, scenarioParams(), testNow)
	require.NoError(t, err)

	assert.True(t, report.Levels.IsZero())
	assert.Equal(t, model.RiskHigh, report.Risk.Level)
	assert.Equal(t, 100, report.Risk.Score)
	assert.Equal(t, []string{InvalidPriceReason}, report.Risk.Reasons)
	assert.Nil(t, report.Plan)
	assert.Empty(t, report.Curve)
	assert.Equal(t, "Not Recommended", report.Recommendation.Verdict)
}

func TestEvaluate_InvalidSpread(t *testing.T) {
	p := scenarioParams()
	p.PremiumFraction = 1.5
	report, err := Evaluate(snapshot(100), p, testNow)
	assert.ErrorIs(t, err, ErrInvalidSpreadParameters)
	require.NotNil(t, report)
	assert.Nil(t, report.Plan)
}
