package calculator

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"CatalystScanner/internal/model"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// RollingVolatility returns the annualized sample standard deviation of daily
// log returns for every trailing window of the given size, oldest first.
func RollingVolatility(bars []model.OHLCV, window int) ([]float64, error) {
	if window < 2 {
		return nil, fmt.Errorf("window must be >= 2, got %d", window)
	}
	closes := Closes(bars)
	if len(closes) < window+1 {
		return nil, fmt.Errorf("need %d bars for %d-day volatility, have %d", window+1, window, len(closes))
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			return nil, fmt.Errorf("non-positive close at bar %d", i)
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}

	// talib.StdDev divides by n; rescale to the n-1 estimator.
	scale := math.Sqrt(float64(window)/float64(window-1)) * math.Sqrt(TradingDaysPerYear)
	sd := talib.StdDev(returns, window, 1)
	vols := make([]float64, 0, len(returns)-window+1)
	for _, v := range sd[window-1:] {
		vols = append(vols, v*scale)
	}
	return vols, nil
}

// PercentileRank ranks the last value against all earlier ones: the share of
// earlier values strictly below it, scaled to 0..100. A single value ranks 50.
func PercentileRank(values []float64) int {
	if len(values) < 2 {
		return 50
	}
	current := values[len(values)-1]
	below := 0
	for _, v := range values[:len(values)-1] {
		if v < current {
			below++
		}
	}
	return int(math.Round(float64(below) / float64(len(values)-1) * 100))
}
