package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CatalystScanner/internal/model"
)

func scenarioPlan(t *testing.T) model.SpreadPlan {
	t.Helper()
	plan, err := PlanSpread(100, scenarioParams())
	require.NoError(t, err)
	return plan
}

func TestProfitLossCurve_Domain(t *testing.T) {
	plan := scenarioPlan(t)
	curve := ProfitLossCurve(100, plan, 100)
	require.Len(t, curve, 100)
	assert.InDelta(t, 85.25, curve[0].Price, 1e-9)
	assert.Equal(t, 110.0, curve[99].Price)
	for i := 1; i < len(curve); i++ {
		assert.Greater(t, curve[i].Price, curve[i-1].Price)
		assert.GreaterOrEqual(t, curve[i].PnL, curve[i-1].PnL, "payoff never decreases with price")
	}
}

func TestProfitLossCurve_Plateaus(t *testing.T) {
	plan := scenarioPlan(t)
	maxProfit := plan.Premium * 100 * float64(plan.Contracts)
	maxLoss := (plan.Premium - plan.Width) * 100 * float64(plan.Contracts)

	for _, pt := range ProfitLossCurve(100, plan, 250) {
		switch {
		case pt.Price >= plan.ShortStrike:
			assert.Equal(t, maxProfit, pt.PnL)
		case pt.Price <= plan.LongStrike:
			assert.Equal(t, maxLoss, pt.PnL)
		default:
			assert.Greater(t, pt.PnL, maxLoss)
			assert.Less(t, pt.PnL, maxProfit)
		}
	}
	assert.InDelta(t, 166.0, maxProfit, 1e-9)
	assert.InDelta(t, -309.0, maxLoss, 1e-9)
}

func TestPayoffAt_Continuity(t *testing.T) {
	plan := scenarioPlan(t)
	const eps = 1e-9

	assert.InDelta(t, PayoffAt(plan.ShortStrike, plan), PayoffAt(plan.ShortStrike-eps, plan), 1e-5)
	assert.InDelta(t, PayoffAt(plan.LongStrike, plan), PayoffAt(plan.LongStrike+eps, plan), 1e-5)
	assert.InDelta(t, 0, PayoffAt(plan.BreakEven, plan), 1e-9)
}

func TestProfitLossCurve_PointCounts(t *testing.T) {
	plan := scenarioPlan(t)

	assert.Len(t, ProfitLossCurve(100, plan, 0), DefaultCurvePoints)

	single := ProfitLossCurve(100, plan, 1)
	require.Len(t, single, 1)
	assert.InDelta(t, 85.25, single[0].Price, 1e-9)

	a := ProfitLossCurve(100, plan, 20)
	b := ProfitLossCurve(100, plan, 20)
	assert.Equal(t, a, b, "curve is regenerable")
}
