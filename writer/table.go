package writer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/polyrabbit/coin-board/config"
	"github.com/polyrabbit/coin-board/dashboard"
	"github.com/polyrabbit/coin-board/market"
)

const barWidth = 30

var (
	faint    = color.New(color.Faint).SprintFunc()
	bold     = color.New(color.Bold).SprintFunc()
	positive = color.New(color.FgCyan).SprintFunc()
	negative = color.New(color.FgMagenta).SprintFunc()
	yellow   = color.New(color.FgYellow).SprintFunc()
)

type tableWriter struct {
	*uilive.Writer
	views []string
}

// NewTableWriter renders dashboards to out, re-rendering in place on every
// refresh.
func NewTableWriter(out io.Writer, views []string) *tableWriter {
	tw := &tableWriter{Writer: uilive.New(), views: views}
	tw.Writer.Out = out
	return tw
}

func newTable(out io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	formattedHeaders := make([]string, len(headers))
	for i, hdr := range headers {
		formattedHeaders[i] = yellow(hdr)
	}
	table.SetHeader(formattedHeaders)
	table.SetCenterSeparator(faint("-"))
	table.SetColumnSeparator(faint("|"))
	table.SetRowSeparator(faint("-"))
	return table
}

func highlightChange(changePct float64) string {
	changeText := strconv.FormatFloat(changePct, 'f', 2, 64)
	if changePct == 0 {
		changeText = faint("0")
	} else if changePct > 0 {
		changeText = color.GreenString(changeText)
	} else {
		changeText = color.RedString(changeText)
	}
	return changeText
}

// bar draws v as a horizontal bar scaled against maxAbs.
func bar(v, maxAbs float64) string {
	if maxAbs <= 0 || math.IsNaN(v) {
		return ""
	}
	n := int(math.Round(math.Abs(v) / maxAbs * barWidth))
	if n == 0 && v != 0 {
		n = 1
	}
	text := strings.Repeat("█", n)
	if v < 0 {
		return negative(text)
	}
	return positive(text)
}

func formatPrice(v float64, currency string) string {
	d := decimal.NewFromFloat(v)
	if currency == market.CurrencyBTC {
		return d.Round(8).String()
	}
	if math.Abs(v) >= 1 {
		return d.StringFixed(2)
	}
	return d.Round(6).String()
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(0)
}

func (tw *tableWriter) Render(v *dashboard.View) {
	render(tw, v, tw.views)
	tw.Flush()
}

func render(out io.Writer, v *dashboard.View, views []string) {
	for _, w := range v.Warnings {
		fmt.Fprintln(out, yellow("WARNING: "+w))
	}
	for _, view := range views {
		switch view {
		case config.ViewMovers:
			renderMovers(out, v)
		case config.ViewMarketCap:
			renderMarketCaps(out, v)
		case config.ViewDominance:
			renderDominance(out, v)
		case config.ViewPrices:
			renderPrices(out, v)
		case config.ViewChanges:
			renderChanges(out, v)
		}
	}
}

func renderMovers(out io.Writer, v *dashboard.View) {
	fmt.Fprintf(out, "\n%s %s\n", bold("Bar plot of % Price Change"), faint("Last "+string(v.Timeframe)+" period"))
	var maxAbs float64
	for _, m := range v.Movers {
		maxAbs = math.Max(maxAbs, math.Abs(m.Change))
	}
	table := newTable(out, "Symbol", "Percent Change", "")
	for _, m := range v.Movers {
		table.Append([]string{m.Symbol, highlightChange(m.Change), bar(m.Change, maxAbs)})
	}
	table.Render()
}

func renderMarketCaps(out io.Writer, v *dashboard.View) {
	fmt.Fprintf(out, "\n%s %s\n", bold("Bar plot of Market Cap (Selected Cryptos)"), faint("in "+v.Currency))
	var maxCap float64
	for _, b := range v.MarketCaps {
		maxCap = math.Max(maxCap, b.Value)
	}
	table := newTable(out, "Symbol", v.MarketCapAxis, "")
	for _, b := range v.MarketCaps {
		table.Append([]string{b.Symbol, formatAmount(b.Value), bar(b.Value, maxCap)})
	}
	table.Render()
}

func renderDominance(out io.Writer, v *dashboard.View) {
	fmt.Fprintf(out, "\n%s %s\n", bold("Market Share of Cryptos"),
		faint("total market cap "+formatAmount(v.TotalMarketCap)+" USD"))
	table := newTable(out, "Crypto", "Share", "")
	for _, slice := range v.Dominance.Slices() {
		table.Append([]string{slice.Label, fmt.Sprintf("%.1f%%", slice.Share), bar(slice.Share, 100)})
	}
	table.Render()
}

func renderPrices(out io.Writer, v *dashboard.View) {
	fmt.Fprintf(out, "\n%s\n", bold("Price Data of Selected Cryptocurrencies"))
	table := newTable(out, "Name", "Symbol", "Market Cap", "Price", "Volume(24h)")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, q := range v.Prices {
		table.Append([]string{q.Name, q.Symbol, formatAmount(q.MarketCap), formatPrice(q.Price, v.Currency), formatAmount(q.Volume24h)})
	}
	table.Render()
}

func renderChanges(out io.Writer, v *dashboard.View) {
	fmt.Fprintf(out, "\n%s\n", bold("Percent Change Data of Selected Cryptocurrencies"))
	table := newTable(out, "Name", "Symbol", "%Change(1h)", "%Change(24h)", "%Change(7d)")
	for _, row := range v.PercentChanges {
		table.Append([]string{row.Name, row.Symbol,
			highlightChange(row.PercentChange1h), highlightChange(row.PercentChange24h), highlightChange(row.PercentChange7d)})
	}
	table.Render()
}
