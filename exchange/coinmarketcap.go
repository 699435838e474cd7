package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/polyrabbit/coin-board/config"
	"github.com/polyrabbit/coin-board/http"
	"github.com/polyrabbit/coin-board/market"
)

// https://coinmarketcap.com/api/documentation/v1/
const (
	coinmarketcapBaseApi = "https://pro-api.coinmarketcap.com"
	listingsPath         = "/v1/cryptocurrency/listings/latest"
	globalMetricsPath    = "/v1/global-metrics/quotes/latest"
	listingsLimit        = "100"
	apiKeyHeader         = "X-CMC_PRO_API_KEY"
)

type coinMarketCapClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

func NewCoinMarketCapClient(cfg *config.Config, httpClient *http.Client) *coinMarketCapClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = coinmarketcapBaseApi
	}
	return &coinMarketCapClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (client *coinMarketCapClient) GetName() string {
	return "CoinMarketCap"
}

func (client *coinMarketCapClient) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	respBytes, err := client.httpClient.Get(ctx, client.baseURL+path, params, map[string]string{
		"Accept":     "application/json",
		apiKeyHeader: client.apiKey,
	})
	if err != nil {
		var herr *http.ResponseError
		if errors.As(err, &herr) {
			// CoinMarketCap explains rejections in status.error_message
			if msg, perr := jsonparser.GetString(herr.Body, "status", "error_message"); perr == nil && msg != "" {
				return nil, errors.WithMessage(err, msg)
			}
		}
		return nil, err
	}
	return respBytes, nil
}

// FetchListings returns the top 100 assets quoted in currency. Either every
// row is complete or the whole fetch fails with a *FetchError.
func (client *coinMarketCapClient) FetchListings(ctx context.Context, currency string) (market.Table, error) {
	currency, err := market.ParseCurrency(currency)
	if err != nil {
		return market.Table{}, &FetchError{Op: OpListings, Err: err}
	}
	respBytes, err := client.get(ctx, listingsPath, map[string]string{
		"start":   "1",
		"limit":   listingsLimit,
		"convert": currency,
	})
	if err != nil {
		return market.Table{}, &FetchError{Op: OpListings, Err: err}
	}

	rows, err := parseListings(respBytes, currency)
	if err != nil {
		return market.Table{}, &FetchError{Op: OpListings, Err: err}
	}
	table, err := market.NewTable(currency, rows, client.now())
	if err != nil {
		return market.Table{}, &FetchError{Op: OpListings, Err: err}
	}
	return table, nil
}

// FetchGlobalMetrics is always converted to USD.
func (client *coinMarketCapClient) FetchGlobalMetrics(ctx context.Context) (market.GlobalMetrics, error) {
	respBytes, err := client.get(ctx, globalMetricsPath, map[string]string{"convert": market.CurrencyUSD})
	if err != nil {
		return market.GlobalMetrics{}, &FetchError{Op: OpGlobalMetrics, Err: err}
	}
	metrics, err := parseGlobalMetrics(respBytes)
	if err != nil {
		return market.GlobalMetrics{}, &FetchError{Op: OpGlobalMetrics, Err: err}
	}
	return metrics, nil
}

func parseListings(body []byte, currency string) ([]market.AssetQuote, error) {
	var (
		rows     []market.AssetQuote
		parseErr error
	)
	_, err := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if parseErr != nil {
			return
		}
		if err != nil {
			parseErr = err
			return
		}
		row, err := parseAsset(value, currency)
		if err != nil {
			parseErr = errors.Wrapf(err, "listing #%d", len(rows)+1)
			return
		}
		rows = append(rows, row)
	}, "data")
	if err != nil {
		return nil, errors.Wrap(err, "decode listings data")
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return rows, nil
}

func parseAsset(value []byte, currency string) (market.AssetQuote, error) {
	var (
		row market.AssetQuote
		err error
	)
	if row.Name, err = jsonparser.GetString(value, "name"); err != nil {
		return row, errors.Wrap(err, "name")
	}
	if row.Symbol, err = jsonparser.GetString(value, "symbol"); err != nil {
		return row, errors.Wrapf(err, "symbol of %s", row.Name)
	}

	quoteFields := []struct {
		key string
		dst *float64
	}{
		{"price", &row.Price},
		{"percent_change_1h", &row.PercentChange1h},
		{"percent_change_24h", &row.PercentChange24h},
		{"percent_change_7d", &row.PercentChange7d},
		{"market_cap", &row.MarketCap},
		{"volume_24h", &row.Volume24h},
	}
	for _, field := range quoteFields {
		v, err := jsonparser.GetFloat(value, "quote", currency, field.key)
		if err != nil {
			return row, errors.Wrapf(err, "quote.%s.%s of %s", currency, field.key, row.Symbol)
		}
		*field.dst = v
	}
	return row, nil
}

func parseGlobalMetrics(body []byte) (market.GlobalMetrics, error) {
	var (
		metrics market.GlobalMetrics
		err     error
	)
	if metrics.TotalMarketCap, err = jsonparser.GetFloat(body, "data", "quote", market.CurrencyUSD, "total_market_cap"); err != nil {
		return metrics, errors.Wrap(err, "data.quote.USD.total_market_cap")
	}
	if metrics.BTCDominance, err = jsonparser.GetFloat(body, "data", "btc_dominance"); err != nil {
		return metrics, errors.Wrap(err, "data.btc_dominance")
	}
	if metrics.ETHDominance, err = jsonparser.GetFloat(body, "data", "eth_dominance"); err != nil {
		return metrics, errors.Wrap(err, "data.eth_dominance")
	}
	return metrics, nil
}
