package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Supported quote currencies
const (
	CurrencyUSD = "USD"
	CurrencyBTC = "BTC"
)

func SupportedCurrencies() []string {
	return []string{CurrencyUSD, CurrencyBTC}
}

// ParseCurrency upper-cases s and checks it against the supported set.
func ParseCurrency(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	for _, supported := range SupportedCurrencies() {
		if c == supported {
			return c, nil
		}
	}
	return "", fmt.Errorf("unsupported currency %q, expecting one of %s", s, strings.Join(SupportedCurrencies(), ", "))
}

// AssetQuote is one cryptocurrency row, every number is denominated in the
// currency of the table holding it.
type AssetQuote struct {
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	MarketCap        float64 `json:"market_cap"`
	Volume24h        float64 `json:"volume_24h"`
	PercentChange1h  float64 `json:"percent_change_1h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	PercentChange7d  float64 `json:"percent_change_7d"`
}

// PercentChange returns the change over the given timeframe.
func (q AssetQuote) PercentChange(tf Timeframe) float64 {
	switch tf {
	case Timeframe1h:
		return q.PercentChange1h
	case Timeframe24h:
		return q.PercentChange24h
	default:
		return q.PercentChange7d
	}
}

// Table is the normalized listings result of a single fetch. Rows keep the
// upstream order (rank by market cap) and are never modified after creation.
type Table struct {
	currency  string
	rows      []AssetQuote
	fetchedAt time.Time
}

// NewTable copies rows into a new table, symbols must be unique.
func NewTable(currency string, rows []AssetQuote, fetchedAt time.Time) (Table, error) {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.Symbol]; dup {
			return Table{}, errors.Errorf("duplicate symbol %s in %s listings", row.Symbol, currency)
		}
		seen[row.Symbol] = struct{}{}
	}
	copied := make([]AssetQuote, len(rows))
	copy(copied, rows)
	return Table{currency: currency, rows: copied, fetchedAt: fetchedAt}, nil
}

// EmptyTable is the sentinel used when listings could not be fetched.
func EmptyTable(currency string) Table {
	return Table{currency: currency}
}

func (t Table) Currency() string     { return t.currency }
func (t Table) FetchedAt() time.Time { return t.fetchedAt }
func (t Table) Len() int             { return len(t.rows) }

// Rows returns a copy of the rows.
func (t Table) Rows() []AssetQuote {
	rows := make([]AssetQuote, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Symbols returns all symbols in table order.
func (t Table) Symbols() []string {
	symbols := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		symbols = append(symbols, row.Symbol)
	}
	return symbols
}

// Filter keeps the rows whose symbol is in symbols, in table order.
func (t Table) Filter(symbols []string) Table {
	wanted := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		wanted[strings.ToUpper(s)] = struct{}{}
	}
	filtered := Table{currency: t.currency, fetchedAt: t.fetchedAt}
	for _, row := range t.rows {
		if _, ok := wanted[strings.ToUpper(row.Symbol)]; ok {
			filtered.rows = append(filtered.rows, row)
		}
	}
	return filtered
}

// MaxMarketCap returns the largest market cap, or 0 for an empty table.
func (t Table) MaxMarketCap() float64 {
	var maxCap float64
	for i, row := range t.rows {
		if i == 0 || row.MarketCap > maxCap {
			maxCap = row.MarketCap
		}
	}
	return maxCap
}

// GlobalMetrics is always denominated in USD, whatever currency the listings use.
type GlobalMetrics struct {
	TotalMarketCap float64 `json:"total_market_cap"`
	BTCDominance   float64 `json:"btc_dominance"`
	ETHDominance   float64 `json:"eth_dominance"`
}
