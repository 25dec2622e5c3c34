// Package memo はプロセス（セッション）寿命のインメモリ株価キャッシュを提供します。
package memo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/feature/prediction/usecase"
)

// HitRecorder counts memo hits and misses.
type HitRecorder interface {
	RecordMemo(hit bool)
}

// SessionPriceCache memoizes price series by ticker for the lifetime of the
// process. Entries never expire and are never evicted. The key is the ticker
// alone, so a later call with a different date range returns the first result.
// Concurrent misses for the same ticker share one fetch; mu is never held
// while the inner repository is called.
type SessionPriceCache struct {
	inner    usecase.PriceRepository
	recorder HitRecorder

	mu      sync.RWMutex
	entries map[string]entity.PriceSeries
	flight  singleflight.Group
}

var _ usecase.PriceRepository = (*SessionPriceCache)(nil)

// NewSessionPriceCache は inner をメモ化するデコレータを作成します。recorder は nil でも構いません。
func NewSessionPriceCache(inner usecase.PriceRepository, recorder HitRecorder) *SessionPriceCache {
	return &SessionPriceCache{
		inner:    inner,
		recorder: recorder,
		entries:  make(map[string]entity.PriceSeries),
	}
}

// GetDailyPrices returns the memoized series for ticker, fetching it on first use.
func (c *SessionPriceCache) GetDailyPrices(ctx context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error) {
	if s, ok := c.lookup(ticker); ok {
		c.record(true)
		return s, nil
	}

	fetched := false
	v, err, _ := c.flight.Do(ticker, func() (any, error) {
		// Do の直前に別の呼び出しが格納し終えている場合がある
		if s, ok := c.lookup(ticker); ok {
			return s, nil
		}
		fetched = true
		s, err := c.inner.GetDailyPrices(ctx, ticker, start, end)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[ticker] = s
		c.mu.Unlock()
		return s, nil
	})
	c.record(!fetched)
	if err != nil {
		return nil, err
	}
	return v.(entity.PriceSeries), nil
}

// Len reports how many tickers are memoized.
func (c *SessionPriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *SessionPriceCache) lookup(ticker string) (entity.PriceSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[ticker]
	return s, ok
}

func (c *SessionPriceCache) record(hit bool) {
	if c.recorder != nil {
		c.recorder.RecordMemo(hit)
	}
}
