package strategy

import (
	"time"

	"CatalystScanner/internal/model"
)

// ManagementRule is the exit rule attached to every recommendation.
const ManagementRule = "Close at 50% of max profit or if price breaches short strike"

// Recommendations maps each risk level to its verdict.
var Recommendations = map[model.RiskLevel]struct {
	Verdict string
	Notes   []string
}{
	model.RiskHigh: {
		Verdict: "Not Recommended",
		Notes: []string{
			"Upcoming catalysts that may increase volatility",
			"Price near key support levels",
			"Consider waiting until after events or choosing a different underlying",
		},
	},
	model.RiskMedium: {
		Verdict: "Caution Advised",
		Notes: []string{
			"Consider smaller position sizes",
			"Choose wider spreads for more room",
			"Closely monitor positions",
			"Consider shorter DTE to avoid upcoming events",
		},
	},
	model.RiskLow: {
		Verdict: "Favorable Conditions",
		Notes: []string{
			"No major catalysts in the selected DTE period",
			"Adequate distance from key support levels",
			"Standard position sizing appropriate",
		},
	},
}

// Recommend turns a risk level into a verdict with an expiration date dte
// days out.
func Recommend(level model.RiskLevel, now time.Time, dte int) model.Recommendation {
	r, ok := Recommendations[level]
	if !ok {
		r = Recommendations[model.RiskHigh]
	}
	y, m, d := now.Date()
	return model.Recommendation{
		Verdict:    r.Verdict,
		Notes:      append([]string(nil), r.Notes...),
		Expiration: time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, dte),
		Management: ManagementRule,
	}
}
