package config

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/polyrabbit/coin-board/market"
)

const (
	ViewMovers    = "movers"
	ViewMarketCap = "marketcap"
	ViewDominance = "dominance"
	ViewPrices    = "prices"
	ViewChanges   = "changes"
)

func supportedViews() []string {
	return []string{ViewMovers, ViewMarketCap, ViewDominance, ViewPrices, ViewChanges}
}

type Config struct {
	APIKey     string   `mapstructure:"api_key"`
	BaseURL    string   `mapstructure:"base_url"`
	Currency   string   `mapstructure:"currency"`
	Symbols    []string `mapstructure:"symbols"`
	Timeframe  string   `mapstructure:"timeframe"`
	Timeout    int      `mapstructure:"timeout"`
	Proxy      string   `mapstructure:"proxy"`
	Refresh    int      `mapstructure:"refresh"`
	RefreshNow bool     `mapstructure:"refresh-now"`
	CacheTTL   int      `mapstructure:"cache-ttl"`
	Views      []string `mapstructure:"show"`
	Export     string   `mapstructure:"export"`
	Listen     string   `mapstructure:"listen"`
	Debug      bool     `mapstructure:"debug"`
}

// Normalize fills defaults and validates the values coming from flags,
// config file and environment.
func (c *Config) Normalize() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("missing CoinMarketCap API key, set CMC_PRO_API_KEY or api_key in the config file")
	}
	c.APIKey = strings.TrimSpace(c.APIKey)

	if c.Currency == "" {
		c.Currency = market.CurrencyUSD
	}
	currency, err := market.ParseCurrency(c.Currency)
	if err != nil {
		return err
	}
	c.Currency = currency

	tf, err := market.ParseTimeframe(c.Timeframe)
	if err != nil {
		return err
	}
	c.Timeframe = string(tf)

	if len(c.Symbols) == 0 {
		c.Symbols = market.DefaultSymbols()
	}
	c.Symbols = market.NewSelection(c.Symbols, tf).Symbols

	if len(c.Views) == 0 {
		c.Views = supportedViews()
	}
	for i, view := range c.Views {
		view = strings.ToLower(strings.TrimSpace(view))
		if !isSupportedView(view) {
			return errors.Errorf("unknown view %q, expecting some of %s", view, strings.Join(supportedViews(), ","))
		}
		c.Views[i] = view
	}

	if c.Timeout < 0 || c.Refresh < 0 || c.CacheTTL < 0 {
		return errors.New("timeout, refresh and cache-ttl must not be negative")
	}
	return nil
}

// Selection is the user's initial pick from the command line or config file.
func (c *Config) Selection() market.Selection {
	return market.NewSelection(c.Symbols, market.Timeframe(c.Timeframe))
}

func isSupportedView(view string) bool {
	for _, v := range supportedViews() {
		if v == view {
			return true
		}
	}
	return false
}
