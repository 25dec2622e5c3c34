// Package db はティッカーカタログ用の SQLite 接続を gorm で提供します。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const retryInterval = 500 * time.Millisecond

// Config はカタログ DB の接続設定です。
type Config struct {
	Path          string        // SQLite ファイルパス。":memory:" でインメモリ
	BusyTimeout   time.Duration // ロック待ちの上限
	RunMigrations bool
}

// LoadConfigFromEnv は CATALOG_DB_PATH / CATALOG_DB_BUSY_TIMEOUT / RUN_MIGRATIONS から設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Path:          os.Getenv("CATALOG_DB_PATH"),
		BusyTimeout:   5 * time.Second,
		RunMigrations: os.Getenv("RUN_MIGRATIONS") != "false",
	}
	if cfg.Path == "" {
		cfg.Path = "catalog.db"
	}
	if v := os.Getenv("CATALOG_DB_BUSY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.BusyTimeout = d
		} else {
			slog.Warn("invalid CATALOG_DB_BUSY_TIMEOUT, using default", "value", v)
		}
	}
	return cfg
}

// BuildDSN は go-sqlite3 用の DSN 文字列を組み立てます。
// インメモリ DB は接続間で共有されるよう shared cache を使用します。
func BuildDSN(cfg Config) string {
	if cfg.Path == ":memory:" {
		return fmt.Sprintf("file::memory:?cache=shared&_busy_timeout=%d&_foreign_keys=1", cfg.BusyTimeout.Milliseconds())
	}
	return fmt.Sprintf("file:%s?cache=shared&_busy_timeout=%d&_foreign_keys=1&_journal_mode=WAL",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
}

// ConnectWithRetry は timeout に達するまで opener を繰り返し呼び出します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenSQLite は gorm の SQLite ダイアレクタで DB を開きます。
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// OpenDB はカタログ DB に接続し、RunMigrations が有効なら models をマイグレーションします。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), 5*time.Second, OpenSQLite)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("catalog database ready", "path", cfg.Path)
	return db, nil
}
