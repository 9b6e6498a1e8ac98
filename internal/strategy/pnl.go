package strategy

import "CatalystScanner/internal/model"

// ProfitLossCurve samples the spread's expiration payoff at numPoints evenly
// spaced prices from LongStrike-5 to currentPrice+10.
func ProfitLossCurve(currentPrice float64, plan model.SpreadPlan, numPoints int) []model.PnLPoint {
	if numPoints <= 0 {
		numPoints = DefaultCurvePoints
	}
	start := plan.LongStrike - 5
	end := currentPrice + 10

	step := 0.0
	if numPoints > 1 {
		step = (end - start) / float64(numPoints-1)
	}

	points := make([]model.PnLPoint, numPoints)
	for i := range points {
		price := start + step*float64(i)
		if numPoints > 1 && i == numPoints-1 {
			price = end
		}
		points[i] = model.PnLPoint{Price: price, PnL: PayoffAt(price, plan)}
	}
	return points
}

// PayoffAt is the spread's profit or loss at expiration for a given price.
func PayoffAt(price float64, plan model.SpreadPlan) float64 {
	perPoint := 100 * float64(plan.Contracts)
	switch {
	case price >= plan.ShortStrike:
		return plan.Premium * perPoint
	case price <= plan.LongStrike:
		return (plan.Premium - plan.Width) * perPoint
	default:
		return (plan.Premium - (plan.ShortStrike - price)) * perPoint
	}
}
