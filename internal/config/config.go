package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"CatalystScanner/internal/calendar"
	"CatalystScanner/internal/collector"
	"CatalystScanner/internal/model"
	"CatalystScanner/internal/retry"
	"CatalystScanner/internal/strategy"
)

const dateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider     string        `yaml:"provider"` // yahoo | rest | mock
		BaseURL      string        `yaml:"base_url"`
		APIKey       string        `yaml:"api_key"`
		MockFallback bool          `yaml:"mock_fallback"`
		MockPrice    float64       `yaml:"mock_price"`
		LookbackDays int           `yaml:"lookback_days"`
		NewsLimit    int           `yaml:"news_limit"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
		Retry        struct {
			MaxAttempts int           `yaml:"max_attempts"`
			Delay       time.Duration `yaml:"delay"`
			Multiplier  float64       `yaml:"multiplier"`
		} `yaml:"retry"`
	} `yaml:"data_source"`
	Strategy struct {
		DTE               int     `yaml:"dte"`
		StrikeDistancePct float64 `yaml:"strike_distance_pct"`
		SpreadWidthPct    float64 `yaml:"spread_width_pct"`
		PremiumFraction   float64 `yaml:"premium_fraction"`
		Capital           float64 `yaml:"capital"`
		MaxRiskPct        float64 `yaml:"max_risk_pct"`
		CurvePoints       int     `yaml:"curve_points"`
	} `yaml:"strategy"`
	Volatility struct {
		Source  string `yaml:"source"` // historical | fixed | random
		Window  int    `yaml:"window"`
		Value   int    `yaml:"value"`
		Default int    `yaml:"default"`
		Seed    int64  `yaml:"seed"`
	} `yaml:"volatility"`
	Calendar struct {
		MockEarnings bool         `yaml:"mock_earnings"`
		Seed         int64        `yaml:"seed"`
		Events       []EventEntry `yaml:"events"`
	} `yaml:"calendar"`
	Schedule struct {
		ScanCron  string   `yaml:"scan_cron"`
		Watchlist []string `yaml:"watchlist"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`  // debug | info | warn | error
		Format string `yaml:"format"` // json | console
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// EventEntry is a catalyst listed in the config file.
type EventEntry struct {
	Symbol     string `yaml:"symbol"` // "*" applies to every ticker
	Date       string `yaml:"date"`   // YYYY-MM-DD
	Label      string `yaml:"label"`
	Importance string `yaml:"importance"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Schedule.Watchlist = splitList(v)
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CAPITAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Strategy.Capital = f
		}
	}
	if v := os.Getenv("DTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Strategy.DTE = n
		}
	}
}

func setDefaults(cfg *Config) {
	def := strategy.DefaultParams()
	st := &cfg.Strategy
	if st.DTE == 0 {
		st.DTE = def.DTE
	}
	if st.StrikeDistancePct == 0 {
		st.StrikeDistancePct = def.StrikeDistancePct
	}
	if st.SpreadWidthPct == 0 {
		st.SpreadWidthPct = def.SpreadWidthPct
	}
	if st.PremiumFraction == 0 {
		st.PremiumFraction = def.PremiumFraction
	}
	if st.Capital == 0 {
		st.Capital = def.Capital
	}
	if st.MaxRiskPct == 0 {
		st.MaxRiskPct = def.MaxRiskPct
	}
	if st.CurvePoints == 0 {
		st.CurvePoints = def.CurvePoints
	}

	ds := &cfg.DataSource
	if ds.Provider == "" {
		ds.Provider = "yahoo"
	}
	if ds.MockPrice == 0 {
		ds.MockPrice = 100
	}
	if ds.LookbackDays == 0 {
		ds.LookbackDays = collector.DefaultLookback
	}
	if ds.NewsLimit == 0 {
		ds.NewsLimit = collector.DefaultNewsLimit
	}
	if ds.CacheTTL == 0 {
		ds.CacheTTL = time.Hour
	}
	policy := retry.Default()
	if ds.Retry.MaxAttempts == 0 {
		ds.Retry.MaxAttempts = policy.MaxAttempts
	}
	if ds.Retry.Delay == 0 {
		ds.Retry.Delay = policy.Delay
	}
	if ds.Retry.Multiplier == 0 {
		ds.Retry.Multiplier = policy.Multiplier
	}

	vol := &cfg.Volatility
	if vol.Source == "" {
		vol.Source = "historical"
	}
	if vol.Window == 0 {
		vol.Window = 20
	}
	if vol.Default == 0 {
		vol.Default = collector.DefaultIV
	}

	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 35 9 * * 1-5"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/catalyst_scanner.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	for i, s := range cfg.Schedule.Watchlist {
		cfg.Schedule.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.StrategyParams().Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider must be yahoo, rest or mock, got %q", c.DataSource.Provider)
	}
	switch c.Volatility.Source {
	case "historical", "random":
	case "fixed":
		if c.Volatility.Value < 0 || c.Volatility.Value > 100 {
			return fmt.Errorf("volatility.value must be within 0..100")
		}
	default:
		return fmt.Errorf("volatility.source must be historical, fixed or random, got %q", c.Volatility.Source)
	}
	if c.Volatility.Window < 2 {
		return fmt.Errorf("volatility.window must be at least 2")
	}
	if _, err := c.CalendarEntries(); err != nil {
		return err
	}
	return nil
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// StrategyParams converts the strategy section into engine parameters.
func (c *Config) StrategyParams() strategy.Params {
	st := c.Strategy
	return strategy.Params{
		DTE:               st.DTE,
		StrikeDistancePct: st.StrikeDistancePct,
		SpreadWidthPct:    st.SpreadWidthPct,
		PremiumFraction:   st.PremiumFraction,
		Capital:           st.Capital,
		MaxRiskPct:        st.MaxRiskPct,
		CurvePoints:       st.CurvePoints,
	}
}

// RetryPolicy converts the retry section into a fetch retry policy.
func (c *Config) RetryPolicy() retry.Policy {
	r := c.DataSource.Retry
	return retry.Policy{MaxAttempts: r.MaxAttempts, Delay: r.Delay, Multiplier: r.Multiplier}
}

// CalendarEntries parses the configured events.
func (c *Config) CalendarEntries() ([]calendar.Entry, error) {
	out := make([]calendar.Entry, 0, len(c.Calendar.Events))
	for i, e := range c.Calendar.Events {
		d, err := time.Parse(dateLayout, e.Date)
		if err != nil {
			return nil, fmt.Errorf("calendar.events[%d]: bad date %q: %w", i, e.Date, err)
		}
		if e.Label == "" {
			return nil, fmt.Errorf("calendar.events[%d]: label is required", i)
		}
		sym := strings.ToUpper(strings.TrimSpace(e.Symbol))
		if sym == "" {
			sym = calendar.AnySymbol
		}
		out = append(out, calendar.Entry{
			Symbol:     sym,
			Date:       d,
			Label:      e.Label,
			Importance: model.ParseImportance(e.Importance),
		})
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
