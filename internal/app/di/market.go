// Package di はアプリケーションコンポーネントを組み立てるファクトリを提供します。
package di

import (
	"stock_predictor/internal/platform/externalapi/yahoo"
	infrahttp "stock_predictor/internal/platform/http"
)

// NewYahooClient は環境変数の設定とチューニング済みHTTPクライアントで Yahoo クライアントを作成します。
func NewYahooClient() *yahoo.Client {
	cfg := yahoo.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, cfg.UserAgent)
	return yahoo.NewClient(cfg, httpClient, nil)
}
