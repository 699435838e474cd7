package dashboard

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/coin-board/market"
)

// Fetcher is the upstream market data source.
type Fetcher interface {
	GetName() string
	FetchListings(ctx context.Context, currency string) (market.Table, error)
	FetchGlobalMetrics(ctx context.Context) (market.GlobalMetrics, error)
}

// Snapshot is the raw data of one fetch cycle. A failed fetch leaves an empty
// table or zero metrics behind and records why in the matching error field, so
// an empty market and a failed request stay distinguishable.
type Snapshot struct {
	CycleID     string
	Currency    string
	Listings    market.Table
	Global      market.GlobalMetrics
	ListingsErr error
	GlobalErr   error
	Warnings    []string
}

func (s *Snapshot) Failed() bool {
	return s.ListingsErr != nil || s.GlobalErr != nil
}

type Service struct {
	fetcher  Fetcher
	cache    *ttlCache
	hasProxy bool
}

func NewService(fetcher Fetcher, cacheTTL time.Duration, hasProxy bool) *Service {
	return &Service{fetcher: fetcher, cache: newTTLCache(cacheTTL), hasProxy: hasProxy}
}

func listingsKey(currency string) string { return "listings:" + currency }

const globalKey = "global:" + market.CurrencyUSD

// Load fetches listings and then global metrics. It never fails: errors are
// logged, turned into warnings and replaced by safe defaults. force skips the
// cache and refreshes it.
func (s *Service) Load(ctx context.Context, currency string, force bool) *Snapshot {
	snap := &Snapshot{CycleID: uuid.New().String(), Currency: currency}
	logEntry := logrus.WithField("cycle", snap.CycleID)

	if cached, ok := s.cache.get(listingsKey(currency)); ok && !force {
		logEntry.Debugf("Using cached %s listings", currency)
		snap.Listings = cached.(market.Table)
	} else {
		start := time.Now()
		table, err := s.fetcher.FetchListings(ctx, currency)
		if err != nil {
			s.warn(logEntry, err, start, "Failed to get %s listings from %s", currency, s.fetcher.GetName())
			snap.Listings = market.EmptyTable(currency)
			snap.ListingsErr = err
			snap.Warnings = append(snap.Warnings, "Failed to fetch cryptocurrency listings: "+err.Error())
		} else {
			logEntry.Debugf("Got %d %s listings from %s", table.Len(), currency, s.fetcher.GetName())
			snap.Listings = table
			s.cache.set(listingsKey(currency), table)
		}
	}

	if cached, ok := s.cache.get(globalKey); ok && !force {
		logEntry.Debug("Using cached global metrics")
		snap.Global = cached.(market.GlobalMetrics)
	} else {
		start := time.Now()
		metrics, err := s.fetcher.FetchGlobalMetrics(ctx)
		if err != nil {
			s.warn(logEntry, err, start, "Failed to get global metrics from %s", s.fetcher.GetName())
			snap.Global = market.GlobalMetrics{}
			snap.GlobalErr = err
			snap.Warnings = append(snap.Warnings, "Failed to fetch global market metrics: "+err.Error())
		} else {
			snap.Global = metrics
			s.cache.set(globalKey, metrics)
		}
	}
	return snap
}

func (s *Service) warn(logEntry *logrus.Entry, err error, start time.Time, format string, args ...interface{}) {
	logEntry = logEntry.WithError(err)
	var netErr net.Error
	timeout := errors.As(err, &netErr) && netErr.Timeout()
	if timeout {
		logEntry = logEntry.WithField("elapsed", time.Since(start).String())
	}
	logEntry.Warnf(format, args...)
	if timeout && !s.hasProxy {
		logrus.Info("Maybe you are blocked by a firewall, try using --proxy to go through a proxy?")
	}
}
