package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/polyrabbit/coin-board/market"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) GetName() string { return "Mock" }

func (m *MockFetcher) FetchListings(ctx context.Context, currency string) (market.Table, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).(market.Table), args.Error(1)
}

func (m *MockFetcher) FetchGlobalMetrics(ctx context.Context) (market.GlobalMetrics, error) {
	args := m.Called(ctx)
	return args.Get(0).(market.GlobalMetrics), args.Error(1)
}

func createTestTable(t *testing.T, currency string) market.Table {
	t.Helper()
	table, err := market.NewTable(currency, []market.AssetQuote{
		{Name: "Bitcoin", Symbol: "BTC", Price: 50000, MarketCap: 950e9, Volume24h: 30e9, PercentChange7d: 8},
		{Name: "Ethereum", Symbol: "ETH", Price: 3000, MarketCap: 360e9, Volume24h: 15e9, PercentChange7d: -4},
	}, time.Now())
	require.NoError(t, err)
	return table
}

var testMetrics = market.GlobalMetrics{TotalMarketCap: 1.8e12, BTCDominance: 52, ETHDominance: 18}

func TestService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		fetcher := &MockFetcher{}
		fetcher.On("FetchListings", ctx, "USD").Return(createTestTable(t, "USD"), nil).Once()
		fetcher.On("FetchGlobalMetrics", ctx).Return(testMetrics, nil).Once()

		snap := NewService(fetcher, 0, false).Load(ctx, "USD", false)
		assert.False(t, snap.Failed())
		assert.Empty(t, snap.Warnings)
		assert.Equal(t, 2, snap.Listings.Len())
		assert.Equal(t, testMetrics, snap.Global)
		assert.NotEmpty(t, snap.CycleID)
		fetcher.AssertExpectations(t)
	})

	t.Run("listings failure becomes an empty table and a warning", func(t *testing.T) {
		fetcher := &MockFetcher{}
		upstreamErr := errors.New("HTTP 500 Internal Server Error")
		fetcher.On("FetchListings", ctx, "BTC").Return(market.Table{}, upstreamErr).Once()
		fetcher.On("FetchGlobalMetrics", ctx).Return(testMetrics, nil).Once()

		snap := NewService(fetcher, time.Minute, false).Load(ctx, "BTC", false)
		assert.True(t, snap.Failed())
		assert.Equal(t, upstreamErr, snap.ListingsErr)
		assert.NoError(t, snap.GlobalErr)
		assert.Equal(t, 0, snap.Listings.Len())
		assert.Equal(t, "BTC", snap.Listings.Currency())
		require.Len(t, snap.Warnings, 1)
		assert.Contains(t, snap.Warnings[0], "listings")
		fetcher.AssertExpectations(t)
	})

	t.Run("global metrics failure zeroes the metrics", func(t *testing.T) {
		fetcher := &MockFetcher{}
		fetcher.On("FetchListings", ctx, "USD").Return(createTestTable(t, "USD"), nil).Once()
		fetcher.On("FetchGlobalMetrics", ctx).Return(market.GlobalMetrics{TotalMarketCap: 1}, errors.New("timeout")).Once()

		snap := NewService(fetcher, 0, false).Load(ctx, "USD", false)
		assert.Error(t, snap.GlobalErr)
		assert.Equal(t, market.GlobalMetrics{}, snap.Global)
		require.Len(t, snap.Warnings, 1)
		assert.Contains(t, snap.Warnings[0], "global")
	})
}

func TestService_Cache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newCachedService := func(fetcher Fetcher) *Service {
		svc := NewService(fetcher, 30*time.Second, false)
		svc.cache.now = func() time.Time { return now }
		return svc
	}

	t.Run("reuses results within ttl", func(t *testing.T) {
		fetcher := &MockFetcher{}
		fetcher.On("FetchListings", ctx, "USD").Return(createTestTable(t, "USD"), nil).Once()
		fetcher.On("FetchGlobalMetrics", ctx).Return(testMetrics, nil).Once()
		svc := newCachedService(fetcher)

		first := svc.Load(ctx, "USD", false)
		second := svc.Load(ctx, "USD", false)
		assert.Equal(t, first.Listings.Symbols(), second.Listings.Symbols())
		assert.Equal(t, testMetrics, second.Global)
		assert.NotEqual(t, first.CycleID, second.CycleID)
		fetcher.AssertExpectations(t)
	})

	t.Run("keyed by currency", func(t *testing.T) {
		fetcher := &MockFetcher{}
		fetcher.On("FetchListings", ctx, "USD").Return(createTestTable(t, "USD"), nil).Once()
		fetcher.On("FetchListings", ctx, "BTC").Return(createTestTable(t, "BTC"), nil).Once()
		fetcher.On("FetchGlobalMetrics", ctx).Return(testMetrics, nil).Once()
		svc := newCachedService(fetcher)

		assert.Equal(t, "USD", svc.Load(ctx, "USD", false).Listings.Currency())
		assert.Equal(t, "BTC", svc.Load(ctx, "BTC", false).Listings.Currency())
		fetcher.AssertExpectations(t)
	})

	t.Run("force and expiry refetch", func(t *testing.T) {
		fetcher := &MockFetcher{}
		fetcher.On("FetchListings", ctx, "USD").Return(createTestTable(t, "USD"), nil).Times(3)
		fetcher.On("FetchGlobalMetrics", ctx).Return(testMetrics, nil).Times(3)
		svc := newCachedService(fetcher)

		svc.Load(ctx, "USD", false)
		svc.Load(ctx, "USD", true)
		now = now.Add(31 * time.Second)
		svc.Load(ctx, "USD", false)
		fetcher.AssertExpectations(t)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		fetcher := &MockFetcher{}
		fetcher.On("FetchListings", ctx, "USD").Return(market.Table{}, errors.New("boom")).Once()
		fetcher.On("FetchListings", ctx, "USD").Return(createTestTable(t, "USD"), nil).Once()
		fetcher.On("FetchGlobalMetrics", ctx).Return(testMetrics, nil).Once()
		svc := newCachedService(fetcher)

		assert.Error(t, svc.Load(ctx, "USD", false).ListingsErr)
		snap := svc.Load(ctx, "USD", false)
		assert.NoError(t, snap.ListingsErr)
		assert.Equal(t, 2, snap.Listings.Len())
		fetcher.AssertExpectations(t)
	})
}
