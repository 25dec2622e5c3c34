// Package cache はリポジトリインターフェースのキャッシュ実装を提供します。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/feature/prediction/usecase"
)

const keyDateLayout = "20060102"

var _ usecase.PriceRepository = (*CachingPriceRepository)(nil)

// CachingPriceRepository は PriceRepository を Redis キャッシュでデコレートします。
// 下位のリポジトリ（Yahoo クライアント）を変更せずに、プロセス間で共有されるキャッシュを追加します。
type CachingPriceRepository struct {
	inner     usecase.PriceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

// NewCachingPriceRepository は PriceRepository を Redis キャッシュでデコレートします。
// ttl が 0 以下の場合、エントリは次の米国市場の引け後（TimeUntilNextClose）まで保持されます。
// namespace が空の場合は "prices" を使用します。rdb が nil の場合はキャッシュをバイパスします。
func NewCachingPriceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PriceRepository, namespace string) *CachingPriceRepository {
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// GetDailyPrices はまずキャッシュを確認し、ミスした場合は下位のリポジトリから取得します。
func (c *CachingPriceRepository) GetDailyPrices(ctx context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error) {
	if c.rdb == nil {
		return c.inner.GetDailyPrices(ctx, ticker, start, end)
	}

	key := c.cacheKey(ticker, start, end)

	// 1) キャッシュを確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.PriceSeries
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		slog.Warn("deleting corrupted price cache entry", "key", key)
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) プロバイダーにフォールバック
	out, err := c.inner.GetDailyPrices(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}
	// 空の結果はキャッシュしない（上場直後や一時的なデータ欠損を固定化しないため）
	if len(out) == 0 {
		return out, nil
	}

	// 3) キャッシュに保存（ベストエフォート）
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.expiry()).Err(); err != nil {
			slog.Warn("failed to store price cache entry", "key", key, "error", err)
		}
	}
	return out, nil
}

func (c *CachingPriceRepository) expiry() time.Duration {
	if c.ttl > 0 {
		return c.ttl
	}
	return TimeUntilNextClose(c.now())
}

// cacheKey は namespace:TICKER:start:end 形式のキーを生成します。
func (c *CachingPriceRepository) cacheKey(ticker string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		c.namespace,
		safe(ticker),
		start.UTC().Format(keyDateLayout),
		end.UTC().Format(keyDateLayout),
	)
}

// safe は Redis キーで問題となる文字をエスケープし、ティッカーを大文字に正規化します。
func safe(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
