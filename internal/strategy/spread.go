package strategy

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"CatalystScanner/internal/model"
)

// ErrInvalidSpreadParameters means the credit would meet or exceed the
// spread width, leaving no defined loss per contract to size against.
var ErrInvalidSpreadParameters = errors.New("invalid spread parameters")

var hundred = decimal.NewFromInt(100)

// PlanSpread places the short put StrikeDistancePct below spot and the long
// put SpreadWidthPct below the short, then sizes contracts so the full loss
// stays within MaxRiskPct of capital (at least one contract).
func PlanSpread(currentPrice float64, p Params) (model.SpreadPlan, error) {
	short := roundCents(currentPrice * (1 - p.StrikeDistancePct/100))
	long := roundCents(short.InexactFloat64() * (1 - p.SpreadWidthPct/100))
	width := short.Sub(long)
	premium := roundCents(width.InexactFloat64() * p.PremiumFraction)

	lossPerContract := width.Sub(premium).Mul(hundred)
	if !lossPerContract.IsPositive() {
		return model.SpreadPlan{}, fmt.Errorf("%w: premium %s >= width %s", ErrInvalidSpreadParameters, premium, width)
	}

	maxRisk := decimal.NewFromFloat(p.Capital).Mul(decimal.NewFromFloat(p.MaxRiskPct)).Div(hundred)
	contracts := maxRisk.Div(lossPerContract).Floor().IntPart()
	if contracts < 1 {
		contracts = 1
	}
	n := decimal.NewFromInt(contracts)

	maxLoss := lossPerContract.Mul(n)
	maxProfit := premium.Mul(hundred).Mul(n)
	collateral := width.Mul(hundred).Mul(n)

	roi := decimal.Zero
	if collateral.IsPositive() {
		roi = maxProfit.Div(collateral).Mul(hundred)
	}
	usage := decimal.Zero
	if p.Capital > 0 {
		usage = collateral.Div(decimal.NewFromFloat(p.Capital)).Mul(hundred)
	}

	return model.SpreadPlan{
		ShortStrike:  short.InexactFloat64(),
		LongStrike:   long.InexactFloat64(),
		Width:        width.InexactFloat64(),
		Premium:      premium.InexactFloat64(),
		Contracts:    int(contracts),
		MaxProfit:    maxProfit.InexactFloat64(),
		MaxLoss:      maxLoss.InexactFloat64(),
		Collateral:   collateral.InexactFloat64(),
		ROI:          roi.InexactFloat64(),
		CapitalUsage: usage.InexactFloat64(),
		BreakEven:    short.Sub(premium).InexactFloat64(),
	}, nil
}

// roundCents rounds the exact binary value of x to two places, so 0.175
// stored as 0.17499... goes down rather than up.
func roundCents(x float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(x, 'f', 2, 64))
}
