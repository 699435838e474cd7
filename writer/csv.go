package writer

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/polyrabbit/coin-board/market"
)

// ExportFileName is the suggested name of the downloaded file.
const ExportFileName = "crypto.csv"

// ExportColumns is the header of the price data export, order matters.
var ExportColumns = []string{"name", "symbol", "market_cap", "price", "volume_24h"}

// WriteCSV writes one line per asset in table order after the header.
func WriteCSV(w io.Writer, table market.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, row := range table.Rows() {
		record := []string{
			row.Name,
			row.Symbol,
			formatNumber(row.MarketCap),
			formatNumber(row.Price),
			formatNumber(row.Volume24h),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write csv row %s", row.Symbol)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// formatNumber prints the shortest decimal that reads back as v, never in
// scientific notation.
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}
