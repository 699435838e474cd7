package market

import (
	"fmt"
	"strings"
)

type Timeframe string

const (
	Timeframe7d  Timeframe = "7d"
	Timeframe24h Timeframe = "24h"
	Timeframe1h  Timeframe = "1h"
)

// Timeframes lists the choices in the order they are offered to users.
func Timeframes() []Timeframe {
	return []Timeframe{Timeframe7d, Timeframe24h, Timeframe1h}
}

// ParseTimeframe accepts "7d", "24h" or "1h", an empty string means 7d.
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Timeframe7d, nil
	}
	for _, tf := range Timeframes() {
		if s == string(tf) {
			return tf, nil
		}
	}
	return "", fmt.Errorf("unknown percent change timeframe %q, expecting one of 7d, 24h, 1h", s)
}

func DefaultSymbols() []string {
	return []string{"BTC", "ETH", "ADA", "DOGE", "BNB"}
}

// Selection is what the user picked; it only lives for one render.
type Selection struct {
	Symbols   []string
	Timeframe Timeframe
}

// NewSelection upper-cases and de-duplicates symbols, keeping their first occurrence.
func NewSelection(symbols []string, tf Timeframe) Selection {
	seen := make(map[string]struct{}, len(symbols))
	sel := Selection{Timeframe: tf}
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		sel.Symbols = append(sel.Symbols, s)
	}
	if sel.Timeframe == "" {
		sel.Timeframe = Timeframe7d
	}
	return sel
}
