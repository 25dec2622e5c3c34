package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stock_predictor/internal/feature/prediction/usecase"
	"stock_predictor/internal/shared/ratelimiter"
)

// Client はYahoo Financeから銘柄情報と株価を取得する実装です。
// usecase.TickerValidator と usecase.PriceRepository の両方を満たします。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

// Clientがusecaseのインターフェースを実装していることをコンパイル時に検証します。
var (
	_ usecase.TickerValidator = (*Client)(nil)
	_ usecase.PriceRepository = (*Client)(nil)
)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// limiter が nil の場合は cfg.RequestsPerMinute から作成します。
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Client {
	if limiter == nil {
		limiter = ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
	}
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// get performs a rate-limited GET. The caller closes the body.
func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo request: %w", err)
	}
	return res, nil
}
