// Package yahoo はYahoo Finance公開APIのクライアントを提供します。
package yahoo

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
)

// Config はYahoo Financeクライアントの設定を保持します。
// 既定値は default タグで与え、環境変数で上書きします。
type Config struct {
	QuoteBaseURL      string        `default:"https://query2.finance.yahoo.com"`              // quoteSummary エンドポイントのベースURL
	ChartBaseURL      string        `default:"https://query1.finance.yahoo.com"`              // chart エンドポイントのベースURL
	UserAgent         string        `default:"Mozilla/5.0 (compatible; stock-predictor/1.0)"` // Yahoo は User-Agent のないリクエストを拒否する
	Timeout           time.Duration `default:"30s"`                                           // HTTPリクエストタイムアウト
	RequestsPerMinute int           `default:"60"`                                            // 外部APIへの最大リクエスト数
}

// LoadConfig は環境変数から設定を読み込み、未設定の項目にはデフォルト値を使用します。
func LoadConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		slog.Error("failed to apply yahoo config defaults", "error", err)
	}
	if v := os.Getenv("YAHOO_QUOTE_BASE_URL"); v != "" {
		cfg.QuoteBaseURL = v
	}
	if v := os.Getenv("YAHOO_CHART_BASE_URL"); v != "" {
		cfg.ChartBaseURL = v
	}
	if v := os.Getenv("YAHOO_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v, err := time.ParseDuration(os.Getenv("YAHOO_TIMEOUT")); err == nil && v > 0 {
		cfg.Timeout = v
	}
	if v, err := strconv.Atoi(os.Getenv("YAHOO_REQUESTS_PER_MINUTE")); err == nil && v > 0 {
		cfg.RequestsPerMinute = v
	}
	return cfg
}
