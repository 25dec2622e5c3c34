// Package adapters は symbols フィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_predictor/internal/feature/symbols/domain/entity"
	"stock_predictor/internal/feature/symbols/usecase"
)

// symbolSQLite は SymbolRepository の gorm/SQLite 実装です。
type symbolSQLite struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolSQLite)(nil)

// NewSymbolRepository は指定されたDB接続でリポジトリを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolSQLite {
	return &symbolSQLite{db: db}
}

// ListActive は sort_key 順にアクティブな銘柄を返します。
// prefix が空でなければ、コードまたは名称がその文字列で始まるものに絞り込みます（大文字小文字を区別しない）。
func (r *symbolSQLite) ListActive(ctx context.Context, prefix string) ([]entity.Symbol, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if prefix != "" {
		like := escapeLike(strings.ToUpper(prefix)) + "%"
		q = q.Where(`UPPER(code) LIKE ? ESCAPE '\' OR UPPER(name) LIKE ? ESCAPE '\'`, like, like)
	}
	var symbols []entity.Symbol
	if err := q.Order("sort_key ASC").Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// Seed は既存のコードを上書きせずに銘柄を投入します。
func (r *symbolSQLite) Seed(ctx context.Context, symbols []entity.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&symbols).Error
}

// Ping はカタログ DB への接続を確認します。
func (r *symbolSQLite) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
