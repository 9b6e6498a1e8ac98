package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"CatalystScanner/internal/model"
)

// SMA computes the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA")
	}
	if period == 1 {
		// talib.Sma leaves the output zeroed below period 2
		return values[len(values)-1], nil
	}
	out := talib.Sma(values[len(values)-period:], period)
	return out[len(out)-1], nil
}

// CloseSMA is SMA over the bars' closing prices.
func CloseSMA(bars []model.OHLCV, period int) (float64, error) {
	return SMA(Closes(bars), period)
}

// Closes extracts closing prices in bar order.
func Closes(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
