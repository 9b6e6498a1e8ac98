package calculator

import "CatalystScanner/internal/model"

// ComputeLevels derives classic floor-trader pivot levels from the whole
// window: the pivot uses the window's highest high, lowest low and last close.
//
// An empty window yields the zero TechnicalLevels, which callers treat as
// "unavailable".
func ComputeLevels(bars []model.OHLCV) model.TechnicalLevels {
	high, low, err := HighLow(bars, 0)
	if err != nil {
		return model.TechnicalLevels{}
	}
	lastClose := bars[len(bars)-1].Close

	pivot := (high + low + lastClose) / 3
	rng := high - low

	return model.TechnicalLevels{
		Pivot:      pivot,
		Support:    [2]float64{2*pivot - high, pivot - rng},
		Resistance: [2]float64{2*pivot - low, pivot + rng},
	}
}
