package strategy

import (
	"fmt"
	"time"

	"CatalystScanner/internal/calculator"
	"CatalystScanner/internal/model"
)

// Evaluate runs the full engine over a snapshot: levels, risk, spread plan,
// P/L curve and recommendation.
//
// A snapshot without a usable price still yields a displayable report (High
// risk, no plan). Invalid spread parameters are returned as an error together
// with the partial report.
func Evaluate(snap *model.MarketSnapshot, p Params, now time.Time) (*model.ScanReport, error) {
	price := snap.Series.CurrentPrice
	levels := calculator.ComputeLevels(snap.Series.Bars)
	risk := AssessRisk(snap.Events, p.DTE, price, levels.Support[:], snap.IVPercentile, now)

	report := &model.ScanReport{
		Symbol:         snap.Series.Symbol,
		DTE:            p.DTE,
		ScannedAt:      now,
		Source:         snap.Series.Source,
		CurrentPrice:   price,
		IVPercentile:   snap.IVPercentile,
		Levels:         levels,
		Technicals:     snap.Technicals,
		Risk:           risk,
		Recommendation: Recommend(risk.Level, now, p.DTE),
		Events:         UpcomingEvents(snap.Events, now),
		News:           snap.News,
	}
	if price <= 0 {
		return report, nil
	}

	plan, err := PlanSpread(price, p)
	if err != nil {
		return report, fmt.Errorf("plan spread for %s: %w", report.Symbol, err)
	}
	report.Plan = &plan
	report.Curve = ProfitLossCurve(price, plan, p.CurvePoints)
	return report, nil
}
