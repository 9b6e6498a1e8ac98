// Package calendar supplies upcoming catalysts for a ticker.
package calendar

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"CatalystScanner/internal/model"
)

// AnySymbol marks an entry that applies to every ticker, e.g. a Fed meeting.
const AnySymbol = "*"

// Source returns catalysts dated on or after now, sorted by date.
type Source interface {
	Events(ctx context.Context, symbol string, now time.Time) ([]model.CalendarEvent, error)
	Name() string
}

// Entry is a configured catalyst.
type Entry struct {
	Symbol     string
	Date       time.Time
	Label      string
	Importance model.Importance
}

// Static serves a fixed list of configured catalysts.
type Static struct {
	entries []Entry
}

// NewStatic creates a Static source.
func NewStatic(entries []Entry) *Static {
	return &Static{entries: entries}
}

func (s *Static) Name() string { return "static" }

func (s *Static) Events(_ context.Context, symbol string, now time.Time) ([]model.CalendarEvent, error) {
	var out []model.CalendarEvent
	for _, e := range s.entries {
		if e.Symbol != AnySymbol && e.Symbol != "" && !strings.EqualFold(e.Symbol, symbol) {
			continue
		}
		if beforeDay(e.Date, now) {
			continue
		}
		out = append(out, model.CalendarEvent{Date: e.Date, Label: e.Label, Importance: e.Importance})
	}
	sortByDate(out)
	return out, nil
}

// DefaultEarningsOffsets are the candidate days-ahead for a mocked earnings date.
var DefaultEarningsOffsets = []int{5, 15, 22, 30}

// MockEarnings estimates a single earnings date by picking one of Offsets
// days ahead. It stands in for a real earnings calendar; the random source is
// injected so tests stay deterministic.
type MockEarnings struct {
	Offsets []int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockEarnings creates a MockEarnings drawing from rng.
func NewMockEarnings(rng *rand.Rand) *MockEarnings {
	return &MockEarnings{Offsets: DefaultEarningsOffsets, rng: rng}
}

func (m *MockEarnings) Name() string { return "mock-earnings" }

func (m *MockEarnings) Events(_ context.Context, _ string, now time.Time) ([]model.CalendarEvent, error) {
	if len(m.Offsets) == 0 {
		return nil, nil
	}
	m.mu.Lock()
	offset := m.Offsets[m.rng.Intn(len(m.Offsets))]
	m.mu.Unlock()

	y, mo, d := now.Date()
	date := time.Date(y, mo, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, offset)
	return []model.CalendarEvent{{
		Date:       date,
		Label:      "Earnings Release",
		Importance: model.ImportanceHigh,
	}}, nil
}

// Merged fans out to several sources and merges their events by date.
// A failing source is logged and skipped.
type Merged []Source

func (m Merged) Name() string { return "merged" }

func (m Merged) Events(ctx context.Context, symbol string, now time.Time) ([]model.CalendarEvent, error) {
	var out []model.CalendarEvent
	for _, src := range m {
		evs, err := src.Events(ctx, symbol, now)
		if err != nil {
			log.Warn().Err(err).Str("source", src.Name()).Str("symbol", symbol).Msg("calendar source failed")
			continue
		}
		out = append(out, evs...)
	}
	sortByDate(out)
	return out, nil
}

func sortByDate(events []model.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
}

// beforeDay reports whether t falls on a calendar day before now's.
func beforeDay(t, now time.Time) bool {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	return time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Before(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC))
}
