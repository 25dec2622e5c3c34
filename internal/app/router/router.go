// Package router は HTTP ルーティングを定義します。
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	predictionhandler "stock_predictor/internal/feature/prediction/transport/handler"
	symbolshandler "stock_predictor/internal/feature/symbols/transport/handler"
	platformhandler "stock_predictor/internal/platform/http/handler"
	"stock_predictor/internal/platform/http/middleware"
	"stock_predictor/internal/platform/metrics"
)

// Handlers は NewRouter に渡すハンドラー群です。
type Handlers struct {
	Health     *platformhandler.HealthHandler
	Dashboard  *predictionhandler.DashboardHandler
	Prediction *predictionhandler.PredictionHandler
	Symbols    *symbolshandler.SymbolHandler
}

// NewRouter はルートを登録した gin エンジンを返します。m が nil の場合メトリクスは無効です。
func NewRouter(h Handlers, m *metrics.Recorder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(slog.Default()))
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// 導通確認用
	r.GET("/healthz", h.Health.Live)
	r.HEAD("/healthz", h.Health.Live)
	r.OPTIONS("/healthz", h.Health.Live)
	r.GET("/readyz", h.Health.Ready)

	// ダッシュボード
	r.GET("/", h.Dashboard.Show)

	// JSON API
	api := r.Group("/api")
	{
		api.GET("/forecast", h.Prediction.GetForecast)
		api.GET("/prices/:ticker", h.Prediction.GetPrices)
		api.GET("/symbols", h.Symbols.List)
	}

	return r
}
