package di

import (
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_predictor/internal/feature/prediction/adapters/memo"
	"stock_predictor/internal/feature/prediction/usecase"
	"stock_predictor/internal/platform/cache"
)

// NewPriceRepository は株価取得のデコレータを重ねます。
//
//	セッションメモ（ティッカー単位・無期限） → Redis 共有キャッシュ（任意） → provider
//
// rdb が nil の場合、Redis 層は素通りになります。
func NewPriceRepository(provider usecase.PriceRepository, rdb *redis.Client, recorder memo.HitRecorder) *memo.SessionPriceCache {
	shared := cache.NewCachingPriceRepository(rdb, PriceCacheTTL(), provider, "prices")
	return memo.NewSessionPriceCache(shared, recorder)
}

// PriceCacheTTL は PRICE_CACHE_TTL を読み込みます。未設定または不正な場合は 0（次の引け後まで）です。
func PriceCacheTTL() time.Duration {
	v := os.Getenv("PRICE_CACHE_TTL")
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		slog.Warn("invalid PRICE_CACHE_TTL, caching until next market close", "value", v)
		return 0
	}
	return d
}
