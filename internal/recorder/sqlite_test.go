package recorder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CatalystScanner/internal/model"
)

func openMemory(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleReport(id string, at time.Time, withPlan bool) *model.ScanReport {
	rep := &model.ScanReport{
		ID:           id,
		Symbol:       "ABNB",
		DTE:          14,
		ScannedAt:    at,
		Source:       "yahoo",
		CurrentPrice: 187.37,
		IVPercentile: 45,
		Levels: model.TechnicalLevels{
			Pivot:   180,
			Support: [2]float64{175, 170},
		},
		Risk: model.RiskAssessment{
			Score:   55,
			Level:   model.RiskHigh,
			Reasons: []string{"Upcoming Earnings in 3 days", "Moderately close to support level ($175.00)"},
			Factors: []model.RiskFactor{
				{Name: "events", Points: 40, Reason: "Upcoming Earnings in 3 days"},
				{Name: "support", Points: 15, Reason: "Moderately close to support level ($175.00)"},
			},
		},
	}
	if withPlan {
		rep.Plan = &model.SpreadPlan{
			ShortStrike: 178, LongStrike: 169.1, Premium: 3.11, Contracts: 1,
			MaxProfit: 311, MaxLoss: 579,
		}
	}
	return rep
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

	require.NoError(t, r.RecordScan(ctx, sampleReport("a", base, true)))
	require.NoError(t, r.RecordScan(ctx, sampleReport("b", base.Add(time.Hour), false)))

	recs, err := r.RecentScans(ctx, "abnb", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	latest := recs[0]
	assert.Equal(t, "b", latest.ID)
	assert.False(t, latest.HasPlan())
	assert.Equal(t, base.Add(time.Hour), latest.Time())

	first := recs[1]
	assert.True(t, first.HasPlan())
	assert.Equal(t, 178.0, *first.ShortStrike)
	assert.Equal(t, 1, *first.Contracts)
	assert.Equal(t, 55, first.RiskScore)
	assert.Equal(t, "High", first.RiskLevel)
	assert.Equal(t, []string{"Upcoming Earnings in 3 days", "Moderately close to support level ($175.00)"}, first.ReasonList())

	factors, err := r.Factors(ctx, "a")
	require.NoError(t, err)
	require.Len(t, factors, 2)
	assert.Equal(t, "events", factors[0].Name)
	assert.Equal(t, 15, factors[1].Points)
}

func TestSQLiteRecorder_Limit(t *testing.T) {
	r := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)
	for i, id := range []string{"1", "2", "3"} {
		require.NoError(t, r.RecordScan(ctx, sampleReport(id, base.AddDate(0, 0, i), false)))
	}

	recs, err := r.RecentScans(ctx, "ABNB", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "3", recs[0].ID)
	assert.Equal(t, "2", recs[1].ID)

	none, err := r.RecentScans(ctx, "TSLA", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRecorder_RejectsMissingID(t *testing.T) {
	r := openMemory(t)
	err := r.RecordScan(context.Background(), sampleReport("", time.Now(), false))
	assert.Error(t, err)
}

func TestSQLiteRecorder_DuplicateIDRollsBack(t *testing.T) {
	r := openMemory(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)
	require.NoError(t, r.RecordScan(ctx, sampleReport("dup", at, false)))
	assert.Error(t, r.RecordScan(ctx, sampleReport("dup", at, false)))

	factors, err := r.Factors(ctx, "dup")
	require.NoError(t, err)
	assert.Len(t, factors, 2)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordScan(context.Background(), sampleReport("x", time.Now(), true)))
	recs, err := r.RecentScans(context.Background(), "ABNB", 5)
	assert.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, r.Close())
}
