package market

const (
	LabelBitcoin  = "Bitcoin"
	LabelEthereum = "Ethereum"
	LabelAltCoins = "Alt Coins"
)

// Slice is one wedge of the market share pie.
type Slice struct {
	Label string  `json:"label"`
	Share float64 `json:"share"`
}

// Dominance splits the market into Bitcoin, Ethereum and everything else.
// AltCoins is not clamped, it goes negative if upstream reports btc+eth > 100.
type Dominance struct {
	Bitcoin  float64 `json:"bitcoin"`
	Ethereum float64 `json:"ethereum"`
	AltCoins float64 `json:"alt_coins"`
}

func SplitDominance(g GlobalMetrics) Dominance {
	return Dominance{
		Bitcoin:  g.BTCDominance,
		Ethereum: g.ETHDominance,
		AltCoins: 100 - (g.BTCDominance + g.ETHDominance),
	}
}

// Slices returns the wedges in display order.
func (d Dominance) Slices() []Slice {
	return []Slice{
		{Label: LabelBitcoin, Share: d.Bitcoin},
		{Label: LabelEthereum, Share: d.Ethereum},
		{Label: LabelAltCoins, Share: d.AltCoins},
	}
}
