package dashboard

import (
	"sort"
	"time"

	"github.com/polyrabbit/coin-board/market"
)

// Bar is one column of the market cap chart.
type Bar struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
}

// PercentChangeRow is a row of the percent change table.
type PercentChangeRow struct {
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	PercentChange1h  float64 `json:"percent_change_1h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	PercentChange7d  float64 `json:"percent_change_7d"`
}

// View holds everything a page render needs.
type View struct {
	CycleID        string              `json:"cycle_id"`
	Currency       string              `json:"currency"`
	Timeframe      market.Timeframe    `json:"timeframe"`
	Symbols        []string            `json:"symbols"`
	Available      []string            `json:"available_symbols"`
	FetchedAt      time.Time           `json:"fetched_at"`
	Movers         []market.Mover      `json:"movers"`
	MarketCaps     []Bar               `json:"market_caps"`
	MarketCapUnit  string              `json:"market_cap_unit"`
	MarketCapAxis  string              `json:"market_cap_axis"`
	Dominance      market.Dominance    `json:"dominance"`
	TotalMarketCap float64             `json:"total_market_cap"`
	Prices         []market.AssetQuote `json:"prices"`
	PercentChanges []PercentChangeRow  `json:"percent_changes"`
	ListingsFailed bool                `json:"listings_failed"`
	GlobalFailed   bool                `json:"global_failed"`
	Warnings       []string            `json:"warnings"`

	selected market.Table
}

// Selected is the listings table narrowed to the user's symbols.
func (v *View) Selected() market.Table {
	return v.selected
}

// Build derives all display data from a snapshot. It is pure and works on
// empty snapshots too.
func Build(snap *Snapshot, sel market.Selection) *View {
	selected := snap.Listings.Filter(sel.Symbols)
	unit := market.MagnitudeLabel(selected.MaxMarketCap())

	available := snap.Listings.Symbols()
	sort.Strings(available)
	v := &View{
		CycleID:        snap.CycleID,
		Currency:       snap.Listings.Currency(),
		Timeframe:      sel.Timeframe,
		Symbols:        sel.Symbols,
		Available:      available,
		FetchedAt:      snap.Listings.FetchedAt(),
		Movers:         make([]market.Mover, 0),
		MarketCapUnit:  unit,
		MarketCapAxis:  market.MarketCapAxisLabel(unit),
		Dominance:      market.SplitDominance(snap.Global),
		TotalMarketCap: snap.Global.TotalMarketCap,
		Prices:         selected.Rows(),
		MarketCaps:     make([]Bar, 0),
		PercentChanges: make([]PercentChangeRow, 0),
		ListingsFailed: snap.ListingsErr != nil,
		GlobalFailed:   snap.GlobalErr != nil,
		Warnings:       append([]string{}, snap.Warnings...),
		selected:       selected,
	}
	v.Movers = append(v.Movers, market.SelectMovers(snap.Listings, sel)...)
	if v.Currency == "" {
		v.Currency = snap.Currency
	}
	for _, row := range selected.Rows() {
		v.MarketCaps = append(v.MarketCaps, Bar{Symbol: row.Symbol, Value: row.MarketCap})
		v.PercentChanges = append(v.PercentChanges, PercentChangeRow{
			Name:             row.Name,
			Symbol:           row.Symbol,
			PercentChange1h:  row.PercentChange1h,
			PercentChange24h: row.PercentChange24h,
			PercentChange7d:  row.PercentChange7d,
		})
	}
	return v
}
