package calculator

import (
	"errors"

	"CatalystScanner/internal/model"
)

// NeutralRSI is reported when there is not enough history.
const NeutralRSI = 50.0

// RSI computes the Wilder-smoothed relative strength index over period.
// Fewer than period+1 bars yields NeutralRSI.
func RSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return NeutralRSI, nil
	}

	closes := Closes(bars)
	gainLoss := func(i int) (float64, float64) {
		d := closes[i] - closes[i-1]
		if d > 0 {
			return d, 0
		}
		return 0, -d
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		g, l := gainLoss(i)
		avgGain += g
		avgLoss += l
	}
	p := float64(period)
	avgGain /= p
	avgLoss /= p

	for i := period + 1; i < len(closes); i++ {
		g, l := gainLoss(i)
		avgGain = (avgGain*(p-1) + g) / p
		avgLoss = (avgLoss*(p-1) + l) / p
	}

	if avgLoss == 0 {
		return 100, nil
	}
	return 100 - 100/(1+avgGain/avgLoss), nil
}
