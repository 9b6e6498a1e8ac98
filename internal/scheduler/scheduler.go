package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"CatalystScanner/internal/model"
	"CatalystScanner/internal/notifier"
	"CatalystScanner/internal/recorder"
	"CatalystScanner/internal/scanner"
)

// historyLimit is how many past scans /history shows.
const historyLimit = 10

// Scanner runs scans and reads back their history.
type Scanner interface {
	Scan(ctx context.Context, symbol string, dte int) (*model.ScanReport, error)
	History(ctx context.Context, symbol string, limit int) ([]recorder.ScanRecord, error)
}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the watchlist cron job and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Scanner   Scanner
	Notifier  Sender // nil disables push notifications
	Watchlist []string
	DTE       int
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc Scanner, tn Sender, watchlist []string, dte int) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Scanner:   sc,
		Notifier:  tn,
		Watchlist: watchlist,
		DTE:       dte,
		Ctx:       ctx,
	}
}

// Register adds the watchlist scan on the given cron spec (with seconds).
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanWatchlist); err != nil {
		return fmt.Errorf("register watchlist scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Strs("watchlist", s.Watchlist).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow scans the watchlist immediately (for manual trigger / run on start).
func (s *Scheduler) RunNow() {
	s.scanWatchlist()
}

func (s *Scheduler) scanWatchlist() {
	log.Info().Int("symbols", len(s.Watchlist)).Msg("running watchlist scan")
	for _, sym := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		rep, err := s.Scanner.Scan(s.Ctx, sym, s.DTE)
		if rep == nil {
			log.Error().Err(err).Str("symbol", sym).Msg("watchlist scan failed")
			s.trySend(fmt.Sprintf("❌ %s scan failed: %s", html.EscapeString(sym), html.EscapeString(errString(err))))
			continue
		}
		msg := notifier.FormatScanReport(rep)
		if err != nil {
			msg += "\n⚠️ " + html.EscapeString(err.Error())
		}
		s.trySend(msg)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i] // "/scan@SomeBot" in group chats
	}
	args := fields[1:]

	switch name {
	case "/scan":
		return s.handleScan(ctx, args)
	case "/history":
		if len(args) != 1 {
			return "Usage: /history TICKER"
		}
		recs, err := s.Scanner.History(ctx, args[0], historyLimit)
		if err != nil {
			log.Error().Err(err).Msg("load history")
			return "❌ history unavailable: " + html.EscapeString(err.Error())
		}
		return notifier.FormatHistory(strings.ToUpper(args[0]), recs)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) handleScan(ctx context.Context, args []string) string {
	if len(args) < 1 || len(args) > 2 {
		return "Usage: /scan TICKER [DTE]"
	}
	dte := s.DTE
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return "DTE must be a whole number of days"
		}
		dte = v
	}

	rep, err := s.Scanner.Scan(ctx, args[0], dte)
	switch {
	case errors.Is(err, scanner.ErrInvalidParams):
		return "❌ " + html.EscapeString(err.Error())
	case rep == nil:
		return "❌ scan failed: " + html.EscapeString(errString(err))
	case err != nil:
		return notifier.FormatScanReport(rep) + "\n⚠️ " + html.EscapeString(err.Error())
	default:
		return notifier.FormatScanReport(rep)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
