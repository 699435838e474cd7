package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {

	t.Run("defaults", func(t *testing.T) {
		v := viper.New()
		v.Set("api_key", " secret ")
		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, "USD", cfg.Currency)
		assert.Equal(t, "7d", cfg.Timeframe)
		assert.Equal(t, []string{"BTC", "ETH", "ADA", "DOGE", "BNB"}, cfg.Symbols)
		assert.Equal(t, supportedViews(), cfg.Views)
	})

	t.Run("normalizes user input", func(t *testing.T) {
		v := viper.New()
		v.Set("api_key", "secret")
		v.Set("currency", "btc")
		v.Set("timeframe", "1H")
		v.Set("symbols", []string{"sol", "SOL", "eth"})
		v.Set("show", []string{"Movers", "dominance"})
		v.Set("cache-ttl", 5)
		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "BTC", cfg.Currency)
		assert.Equal(t, "1h", cfg.Timeframe)
		assert.Equal(t, []string{"SOL", "ETH"}, cfg.Symbols)
		assert.Equal(t, []string{ViewMovers, ViewDominance}, cfg.Views)
		assert.Equal(t, 5, cfg.CacheTTL)

		sel := cfg.Selection()
		assert.Equal(t, []string{"SOL", "ETH"}, sel.Symbols)
		assert.EqualValues(t, "1h", sel.Timeframe)
	})

	t.Run("rejects bad values", func(t *testing.T) {
		bad := map[string]interface{}{
			"currency":  "EUR",
			"timeframe": "30d",
			"show":      []string{"candles"},
			"timeout":   -1,
		}
		for key, value := range bad {
			v := viper.New()
			v.Set("api_key", "secret")
			v.Set(key, value)
			_, err := Load(v)
			assert.Error(t, err, key)
		}
	})
}

func TestNormalize_MissingAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Normalize())
}
