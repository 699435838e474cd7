package market

import (
	"math"
	"strconv"
)

const DefaultMagnitude = "less than ten million"

var magnitudeByDigits = map[int]string{
	8:  "tens of millions",
	9:  "hundreds of millions",
	10: "billions",
	11: "tens of billions",
	12: "hundreds of billions",
}

// MagnitudeLabel describes the scale of v by the number of decimal digits of
// its integer part. Anything not in the 8 to 12 digits range, including zero,
// negative numbers and NaN, gets DefaultMagnitude.
func MagnitudeLabel(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return DefaultMagnitude
	}
	digits := len(strconv.FormatFloat(math.Floor(v), 'f', 0, 64))
	if label, ok := magnitudeByDigits[digits]; ok {
		return label
	}
	return DefaultMagnitude
}

// MarketCapAxisLabel is the y axis title of the market cap chart.
func MarketCapAxisLabel(unit string) string {
	if unit == DefaultMagnitude {
		return "Market Cap"
	}
	return "Market Cap (" + unit + ")"
}
