package market

import "sort"

const topMoversCount = 5

type MoverGroup string

const (
	GroupTopGainers      MoverGroup = "top_gainers"
	GroupTopLosers       MoverGroup = "top_losers"
	GroupSelectedGainers MoverGroup = "selected_gainers"
	GroupSelectedLosers  MoverGroup = "selected_losers"
)

// Mover is one bar of the percent change chart.
type Mover struct {
	AssetQuote
	Group                 MoverGroup `json:"group"`
	Change                float64    `json:"change"`
	PositivePercentChange bool       `json:"positive_percent_change"`
}

// SelectMovers concatenates the top 5 gainers, the top 5 losers, the selected
// gainers and the selected losers of the table. An asset that belongs to more
// than one group shows up once per group.
func SelectMovers(t Table, sel Selection) []Mover {
	tf := sel.Timeframe
	if tf == "" {
		tf = Timeframe7d
	}
	selected := t.Filter(sel.Symbols)

	var movers []Mover
	appendGroup := func(rows []AssetQuote, group MoverGroup) {
		for _, row := range rows {
			change := row.PercentChange(tf)
			movers = append(movers, Mover{
				AssetQuote:            row,
				Group:                 group,
				Change:                change,
				PositivePercentChange: change > 0,
			})
		}
	}

	appendGroup(largest(t.rows, tf, topMoversCount), GroupTopGainers)
	appendGroup(smallest(t.rows, tf, topMoversCount), GroupTopLosers)
	appendGroup(keep(selected.rows, func(c float64) bool { return c > 0 }, tf), GroupSelectedGainers)
	appendGroup(keep(selected.rows, func(c float64) bool { return c < 0 }, tf), GroupSelectedLosers)
	return movers
}

// largest returns the n rows with the biggest change, ties keep table order.
func largest(rows []AssetQuote, tf Timeframe, n int) []AssetQuote {
	sorted := make([]AssetQuote, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PercentChange(tf) > sorted[j].PercentChange(tf)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// smallest returns the n rows with the lowest change, ties keep table order.
func smallest(rows []AssetQuote, tf Timeframe, n int) []AssetQuote {
	sorted := make([]AssetQuote, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PercentChange(tf) < sorted[j].PercentChange(tf)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func keep(rows []AssetQuote, pred func(float64) bool, tf Timeframe) []AssetQuote {
	var kept []AssetQuote
	for _, row := range rows {
		if pred(row.PercentChange(tf)) {
			kept = append(kept, row)
		}
	}
	return kept
}
