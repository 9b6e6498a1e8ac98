package volatility

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CatalystScanner/internal/model"
)

func barsFromCloses(closes []float64) []model.OHLCV {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func TestFixed(t *testing.T) {
	v, err := Fixed{Value: 42}.IVPercentile(context.Background(), "X", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, _ = Fixed{Value: 140}.IVPercentile(context.Background(), "X", nil)
	assert.Equal(t, 100, v)
}

func TestRandom_Range(t *testing.T) {
	r := NewRandom(rand.New(rand.NewSource(3)), 30, 80)
	for i := 0; i < 200; i++ {
		v, err := r.IVPercentile(context.Background(), "X", nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 30)
		assert.LessOrEqual(t, v, 80)
	}
}

func TestRandom_SwappedBounds(t *testing.T) {
	r := NewRandom(rand.New(rand.NewSource(3)), 60, 60)
	v, err := r.IVPercentile(context.Background(), "X", nil)
	require.NoError(t, err)
	assert.Equal(t, 60, v)

	r = NewRandom(rand.New(rand.NewSource(3)), 80, 30)
	assert.Equal(t, 30, r.Min)
	assert.Equal(t, 80, r.Max)
}

func TestHistorical_CalmThenVolatile(t *testing.T) {
	var closes []float64
	p := 100.0
	for i := 0; i < 60; i++ {
		p *= math.Exp(0.001 * float64(i%2*2-1))
		closes = append(closes, p)
	}
	for i := 0; i < 10; i++ {
		p *= math.Exp(0.05 * float64(i%2*2-1))
		closes = append(closes, p)
	}
	v, err := Historical{Window: 10}.IVPercentile(context.Background(), "X", barsFromCloses(closes))
	require.NoError(t, err)
	assert.Equal(t, 100, v, "a volatility spike ranks at the top")
}

func TestHistorical_NotEnoughBars(t *testing.T) {
	_, err := Historical{Window: 20}.IVPercentile(context.Background(), "X", barsFromCloses([]float64{1, 2, 3}))
	assert.Error(t, err)
}

func TestWithFallback(t *testing.T) {
	src := WithFallback{Primary: Historical{Window: 20}, Fallback: Fixed{Value: 50}}
	v, err := src.IVPercentile(context.Background(), "X", nil)
	require.NoError(t, err)
	assert.Equal(t, 50, v)
	assert.Equal(t, "historical", src.Name())
}
