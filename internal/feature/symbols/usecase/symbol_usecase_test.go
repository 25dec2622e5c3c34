package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"stock_predictor/internal/feature/symbols/domain/entity"
)

// mockSymbolRepository は SymbolRepository のモック実装です。
type mockSymbolRepository struct {
	listFn     func(ctx context.Context, prefix string) ([]entity.Symbol, error)
	seedFn     func(ctx context.Context, symbols []entity.Symbol) error
	lastPrefix string
}

func (m *mockSymbolRepository) ListActive(ctx context.Context, prefix string) ([]entity.Symbol, error) {
	m.lastPrefix = prefix
	if m.listFn != nil {
		return m.listFn(ctx, prefix)
	}
	return nil, nil
}

func (m *mockSymbolRepository) Seed(ctx context.Context, symbols []entity.Symbol) error {
	if m.seedFn != nil {
		return m.seedFn(ctx, symbols)
	}
	return nil
}

func TestSymbolUsecase_ListActiveSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		repoErr    error
		wantPrefix string
		wantErr    bool
	}{
		{"empty query", "", nil, "", false},
		{"trimmed", "  aa ", nil, "aa", false},
		{"truncated", "ABCDEFGHIJKLMNOPQRSTUVWXYZ", nil, "ABCDEFGHIJKLMNOPQRST", false},
		{"repository error", "A", errors.New("db down"), "A", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockSymbolRepository{
				listFn: func(ctx context.Context, prefix string) ([]entity.Symbol, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return []entity.Symbol{{Code: "AAPL"}}, nil
				},
			}
			got, err := NewSymbolUsecase(repo).ListActiveSymbols(context.Background(), tt.query)

			assert.Equal(t, tt.wantPrefix, repo.lastPrefix)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.repoErr)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestSymbolUsecase_SeedDefaults(t *testing.T) {
	t.Parallel()

	var seeded []entity.Symbol
	repo := &mockSymbolRepository{
		seedFn: func(ctx context.Context, symbols []entity.Symbol) error {
			seeded = symbols
			return nil
		},
	}
	assert.NoError(t, NewSymbolUsecase(repo).SeedDefaults(context.Background()))
	assert.NotEmpty(t, seeded)
	assert.Equal(t, "AMGN", seeded[0].Code, "default ticker should be listed first")
}
