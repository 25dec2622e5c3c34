// Package usecase はティッカーカタログのビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"stock_predictor/internal/feature/symbols/domain/entity"
)

// maxPrefixLen を超える検索語は切り詰めます。
const maxPrefixLen = 20

// SymbolRepository はカタログの永続化層を抽象化します。
type SymbolRepository interface {
	ListActive(ctx context.Context, prefix string) ([]entity.Symbol, error)
	Seed(ctx context.Context, symbols []entity.Symbol) error
}

// SymbolUsecase provides catalog lookups for the dashboard and the JSON API.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols はアクティブな銘柄を返します。query は前後の空白を除去して前方一致に使います。
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context, query string) ([]entity.Symbol, error) {
	q := strings.TrimSpace(query)
	if len(q) > maxPrefixLen {
		q = q[:maxPrefixLen]
	}
	return u.repo.ListActive(ctx, q)
}

// SeedDefaults は初期銘柄をカタログに投入します。既存の行は変更されません。
func (u *SymbolUsecase) SeedDefaults(ctx context.Context) error {
	return u.repo.Seed(ctx, entity.DefaultSymbols())
}
