// Package logging は slog ロガーの構築を提供します。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config は LOG_LEVEL（debug/info/warn/error）と LOG_FORMAT（text/json）です。
type Config struct {
	Level  string
	Format string
}

// LoadConfig は環境変数からログ設定を読み込みます。
func LoadConfig() Config {
	return Config{Level: os.Getenv("LOG_LEVEL"), Format: os.Getenv("LOG_FORMAT")}
}

// New は cfg に従って w に出力するロガーを作成します。不明な値は info / text になります。
func New(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
