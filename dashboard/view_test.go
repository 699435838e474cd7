package dashboard

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyrabbit/coin-board/market"
)

func TestBuild(t *testing.T) {

	t.Run("full snapshot", func(t *testing.T) {
		snap := &Snapshot{CycleID: "c1", Currency: "USD", Listings: createTestTable(t, "USD"), Global: testMetrics}
		v := Build(snap, market.NewSelection([]string{"ETH", "BTC", "XRP"}, market.Timeframe7d))

		assert.Equal(t, "USD", v.Currency)
		assert.Equal(t, []string{"BTC", "ETH"}, v.Available)
		assert.Equal(t, []string{"BTC", "ETH"}, v.Selected().Symbols())
		require.Len(t, v.MarketCaps, 2)
		assert.Equal(t, Bar{Symbol: "BTC", Value: 950e9}, v.MarketCaps[0])
		assert.Equal(t, "hundreds of billions", v.MarketCapUnit)
		assert.Equal(t, "Market Cap (hundreds of billions)", v.MarketCapAxis)
		assert.Equal(t, float64(30), v.Dominance.AltCoins)
		assert.Equal(t, 1.8e12, v.TotalMarketCap)
		// 2 top gainers, 2 top losers, BTC selected gainer, ETH selected loser
		assert.Len(t, v.Movers, 6)
		assert.Len(t, v.Prices, 2)
		assert.Len(t, v.PercentChanges, 2)
		assert.False(t, v.ListingsFailed)
		assert.Empty(t, v.Warnings)
	})

	t.Run("failed listings render empty views", func(t *testing.T) {
		snap := &Snapshot{
			Currency:    "USD",
			Listings:    market.EmptyTable("USD"),
			ListingsErr: errors.New("HTTP 500"),
			GlobalErr:   errors.New("HTTP 500"),
			Warnings:    []string{"Failed to fetch cryptocurrency listings: HTTP 500"},
		}
		v := Build(snap, market.NewSelection(market.DefaultSymbols(), market.Timeframe24h))

		assert.True(t, v.ListingsFailed)
		assert.True(t, v.GlobalFailed)
		assert.NotNil(t, v.Movers)
		assert.Empty(t, v.Movers)
		assert.Empty(t, v.MarketCaps)
		assert.Empty(t, v.Prices)
		assert.Equal(t, market.DefaultMagnitude, v.MarketCapUnit)
		assert.Equal(t, "Market Cap", v.MarketCapAxis)
		assert.Equal(t, market.Dominance{AltCoins: 100}, v.Dominance)
		assert.Len(t, v.Warnings, 1)
	})
}
