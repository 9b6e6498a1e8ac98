package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"CatalystScanner/internal/calendar"
	"CatalystScanner/internal/collector"
	"CatalystScanner/internal/config"
	"CatalystScanner/internal/logging"
	"CatalystScanner/internal/notifier"
	"CatalystScanner/internal/recorder"
	"CatalystScanner/internal/scanner"
	"CatalystScanner/internal/scheduler"
	"CatalystScanner/internal/server"
	"CatalystScanner/internal/strategy"
	"CatalystScanner/internal/volatility"
)

func main() {
	cfgPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "path to the YAML config")
	symbol := flag.String("symbol", "", "scan one ticker, print the report and exit")
	dte := flag.Int("dte", 0, "days to expiration (5-45); omit to use the configured default")
	once := flag.Bool("once", false, "scan the watchlist once and exit")
	serveOnly := flag.Bool("serve", false, "run only the HTTP API")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("config", *cfgPath).Msg("CatalystScanner starting")

	rec := openRecorder(cfg)
	defer rec.Close()

	sc := scanner.New(buildCollector(cfg), rec, cfg.StrategyParams())

	defaultDTE := cfg.Strategy.DTE
	if flagSet("dte") {
		defaultDTE = *dte
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// One-shot console scan
	if *symbol != "" {
		rep, err := sc.Scan(ctx, *symbol, defaultDTE)
		if rep != nil {
			notifier.NewConsole().Print(rep)
		}
		if err != nil {
			log.Error().Err(err).Msg("scan")
			code := 1
			if errors.Is(err, scanner.ErrInvalidParams) || errors.Is(err, strategy.ErrInvalidSpreadParameters) {
				code = 2
			}
			rec.Close()
			os.Exit(code)
		}
		return
	}

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, push notifications disabled")
	}

	sched := scheduler.NewScheduler(ctx, sc, sender, cfg.Schedule.Watchlist, defaultDTE)

	if *once {
		sched.RunNow()
		return
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.NewRouter(server.NewHandler(sc, defaultDTE)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			cancel()
		}
	}()

	if !*serveOnly {
		if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
			log.Fatal().Err(err).Msg("register cron tasks")
		}
		sched.Start()
		defer sched.Stop()

		if tn != nil {
			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info().Msg("telegram polling started")
		}
		if os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("RUN_ON_START enabled, scanning watchlist now")
			go sched.RunNow()
		}
	}

	log.Info().Msg("CatalystScanner is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	log.Info().Msg("CatalystScanner stopped")
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func buildCollector(cfg *config.Config) *collector.Collector {
	ds := cfg.DataSource
	policy := cfg.RetryPolicy()
	mock := &collector.MockFetcher{Price: ds.MockPrice}
	yahoo := collector.NewYahooFetcher(cfg.Proxy, policy)

	var primary collector.Fetcher
	switch ds.Provider {
	case "rest":
		primary = collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, policy)
	case "mock":
		primary = mock
	default:
		primary = yahoo
	}
	fetcher := primary
	if ds.MockFallback && ds.Provider != "mock" {
		fetcher = collector.NewFallbackFetcher(primary, mock)
	}
	log.Info().Str("provider", ds.Provider).Bool("mock_fallback", ds.MockFallback).Msg("data source")

	var news collector.NewsFetcher = yahoo
	if ds.Provider == "mock" {
		news = mock
	}

	entries, _ := cfg.CalendarEntries() // validated at startup
	sources := calendar.Merged{calendar.NewStatic(entries)}
	if cfg.Calendar.MockEarnings {
		sources = append(sources, calendar.NewMockEarnings(rand.New(rand.NewSource(seed(cfg.Calendar.Seed)))))
	}

	var vol volatility.Source
	switch cfg.Volatility.Source {
	case "fixed":
		vol = volatility.Fixed{Value: cfg.Volatility.Value}
	case "random":
		vol = volatility.NewRandom(rand.New(rand.NewSource(seed(cfg.Volatility.Seed))), 30, 80)
	default:
		vol = volatility.WithFallback{
			Primary:  volatility.Historical{Window: cfg.Volatility.Window},
			Fallback: volatility.Fixed{Value: cfg.Volatility.Default},
		}
	}

	col := collector.NewCollector(
		collector.NewCachedFetcher(fetcher, ds.CacheTTL),
		collector.NewCachedNewsFetcher(news, ds.CacheTTL),
		sources,
		vol,
	)
	col.Lookback = ds.LookbackDays
	col.NewsLimit = ds.NewsLimit
	col.DefaultIV = cfg.Volatility.Default
	return col
}

func seed(v int64) int64 {
	if v == 0 {
		return time.Now().UnixNano()
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// flagSet reports whether name was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
