package calendar

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CatalystScanner/internal/model"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestStatic_FiltersAndSorts(t *testing.T) {
	src := NewStatic([]Entry{
		{Symbol: "*", Date: day(9), Label: "Fed Meeting", Importance: model.ImportanceMedium},
		{Symbol: "abnb", Date: day(3), Label: "Investor Day", Importance: model.ImportanceHigh},
		{Symbol: "TSLA", Date: day(1), Label: "Delivery Numbers", Importance: model.ImportanceHigh},
		{Symbol: "ABNB", Date: day(-1), Label: "Past Event", Importance: model.ImportanceHigh},
		{Symbol: "ABNB", Date: day(0), Label: "Today", Importance: model.ImportanceMedium},
	})

	evs, err := src.Events(context.Background(), "ABNB", now)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	assert.Equal(t, "Today", evs[0].Label)
	assert.Equal(t, "Investor Day", evs[1].Label)
	assert.Equal(t, "Fed Meeting", evs[2].Label)
}

func TestMockEarnings_Deterministic(t *testing.T) {
	a := NewMockEarnings(rand.New(rand.NewSource(7)))
	b := NewMockEarnings(rand.New(rand.NewSource(7)))

	for i := 0; i < 10; i++ {
		ea, err := a.Events(context.Background(), "ABNB", now)
		require.NoError(t, err)
		eb, err := b.Events(context.Background(), "ABNB", now)
		require.NoError(t, err)
		require.Len(t, ea, 1)
		assert.Equal(t, ea, eb)

		assert.Equal(t, model.ImportanceHigh, ea[0].Importance)
		days := int(ea[0].Date.Sub(day(0)).Hours() / 24)
		assert.Contains(t, DefaultEarningsOffsets, days)
	}
}

func TestMockEarnings_NoOffsets(t *testing.T) {
	m := NewMockEarnings(rand.New(rand.NewSource(1)))
	m.Offsets = nil
	evs, err := m.Events(context.Background(), "X", now)
	require.NoError(t, err)
	assert.Empty(t, evs)
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Events(context.Context, string, time.Time) ([]model.CalendarEvent, error) {
	return nil, errors.New("boom")
}

func TestMerged_SkipsFailures(t *testing.T) {
	m := Merged{
		NewStatic([]Entry{{Symbol: "*", Date: day(20), Label: "Late", Importance: model.ImportanceMedium}}),
		failingSource{},
		NewStatic([]Entry{{Symbol: "*", Date: day(2), Label: "Early", Importance: model.ImportanceHigh}}),
	}
	evs, err := m.Events(context.Background(), "ABNB", now)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, "Early", evs[0].Label)
	assert.Equal(t, "Late", evs[1].Label)
}
