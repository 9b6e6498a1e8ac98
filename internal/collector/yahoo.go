package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"CatalystScanner/internal/model"
	"CatalystScanner/internal/retry"
)

const defaultYahooBase = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher and NewsFetcher using Yahoo Finance's
// public chart and search endpoints.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Limiter   *rate.Limiter
	Retry     retry.Policy
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a Yahoo fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, policy retry.Policy) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: defaultYahooBase,
		Client:  newHTTPClient(proxyURL),
		Limiter: rate.NewLimiter(rate.Limit(2), 4),
		Retry:   policy,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return strings.ToUpper(symbol)
}

// yahooChart is the response structure from the v8 chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSearch is the response structure from the v1 search API.
type yahooSearch struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// present reports whether every series has a value at i.
func present(i int, series ...[]*float64) bool {
	for _, v := range series {
		if i >= len(v) || v[i] == nil {
			return false
		}
	}
	return true
}

func deref(v []*float64, i int) float64 {
	if i >= len(v) || v[i] == nil {
		return 0
	}
	return *v[i]
}

// chartRange picks the smallest Yahoo range covering the requested bars.
func chartRange(bars int) string {
	switch {
	case bars <= 21:
		return "1mo"
	case bars <= 63:
		return "3mo"
	case bars <= 126:
		return "6mo"
	case bars <= 252:
		return "1y"
	default:
		return "2y"
	}
}

// FetchDailyBars returns up to the most recent n daily bars.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, n int) (*model.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), chartRange(n))

	var chart yahooChart
	if err := f.getJSON(ctx, u, &chart); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// holidays, halts and partial sessions come back with null fields
		if !present(i, quote.Open, quote.High, quote.Low, quote.Close) {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: deref(quote.Volume, i),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if n > 0 && len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return newSeries(symbol, f.Name(), bars), nil
}

// FetchNews returns up to limit recent headlines.
func (f *YahooFetcher) FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	q := url.Values{}
	q.Set("q", f.yahooSymbol(symbol))
	q.Set("quotesCount", "0")
	q.Set("newsCount", fmt.Sprint(limit))
	u := f.BaseURL + "/v1/finance/search?" + q.Encode()

	var res yahooSearch
	if err := f.getJSON(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("yahoo news %s: %w", symbol, err)
	}
	items := make([]model.NewsItem, 0, len(res.News))
	for _, n := range res.News {
		if len(items) == limit {
			break
		}
		item := model.NewsItem{Title: n.Title, Publisher: n.Publisher, Link: n.Link}
		if item.Title == "" {
			item.Title = "No title"
		}
		if item.Publisher == "" {
			item.Publisher = "Unknown"
		}
		if n.ProviderPublishTime > 0 {
			item.PublishedAt = time.Unix(n.ProviderPublishTime, 0).UTC()
		}
		items = append(items, item)
	}
	return items, nil
}

// getJSON performs a rate-limited GET under the retry policy. 4xx responses
// other than 429 are not retried.
func (f *YahooFetcher) getJSON(ctx context.Context, u string, out any) error {
	attempt := 0
	return f.Retry.Do(ctx, func() error {
		attempt++
		if f.Limiter != nil {
			if err := f.Limiter.Wait(ctx); err != nil {
				return retry.Permanent(fmt.Errorf("rate limiter: %w", err))
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		req.Header.Set("Accept", "application/json")

		resp, err := f.Client.Do(req)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("yahoo request failed")
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return retry.Permanent(statusErr)
			}
			log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("yahoo request retrying")
			return statusErr
		}
		if err := json.Unmarshal(body, out); err != nil {
			return retry.Permanent(fmt.Errorf("decode: %w", err))
		}
		return nil
	})
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
