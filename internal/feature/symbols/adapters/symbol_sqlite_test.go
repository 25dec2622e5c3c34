package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_predictor/internal/feature/symbols/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// :memory: は接続ごとに別DBになるため1接続に固定
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.Symbol{}), "failed to migrate table")
	return db
}

// seedSymbol はテスト用の銘柄データをデータベースに作成します。
func seedSymbol(t *testing.T, db *gorm.DB, code, name string, isActive bool, sortKey int) {
	t.Helper()

	symbol := &entity.Symbol{Code: code, Name: name, Market: "NASDAQ", IsActive: true, SortKey: sortKey}
	require.NoError(t, db.Create(symbol).Error, "failed to seed symbol")
	if !isActive {
		// default:true のため false は作成後に更新する
		require.NoError(t, db.Model(symbol).Update("is_active", false).Error)
	}
}

func codes(symbols []entity.Symbol) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, s.Code)
	}
	return out
}

func TestNewSymbolRepository(t *testing.T) {
	t.Parallel()

	repo := NewSymbolRepository(setupTestDB(t))
	assert.NotNil(t, repo.db, "database connection should not be nil")
}

// TestSymbolSQLite_ListActive は ListActive の各種シナリオをテーブル駆動テストで検証します。
func TestSymbolSQLite_ListActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		prefix        string
		expectedCodes []string
	}{
		{"all active sorted by sort_key", "", []string{"AMGN", "AAPL", "AMZN", "MSFT"}},
		{"code prefix case-insensitive", "am", []string{"AMGN", "AMZN"}},
		{"name prefix", "micro", []string{"MSFT"}},
		{"inactive excluded", "INTC", []string{}},
		{"like wildcard escaped", "%", []string{}},
		{"no match", "ZZZ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			seedSymbol(t, db, "AAPL", "Apple Inc.", true, 2)
			seedSymbol(t, db, "AMGN", "Amgen Inc.", true, 1)
			seedSymbol(t, db, "MSFT", "Microsoft Corporation", true, 4)
			seedSymbol(t, db, "AMZN", "Amazon.com, Inc.", true, 3)
			seedSymbol(t, db, "INTC", "Intel Corporation", false, 5)

			got, err := NewSymbolRepository(db).ListActive(context.Background(), tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCodes, codes(got))
		})
	}
}

// TestSymbolSQLite_Seed は再投入しても重複や上書きが起きないことを検証します。
func TestSymbolSQLite_Seed(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSymbolRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, entity.DefaultSymbols()))
	require.NoError(t, db.Model(&entity.Symbol{}).Where("code = ?", "AMGN").Update("name", "Renamed").Error)
	require.NoError(t, repo.Seed(ctx, entity.DefaultSymbols()))

	var count int64
	require.NoError(t, db.Model(&entity.Symbol{}).Count(&count).Error)
	assert.Equal(t, int64(len(entity.DefaultSymbols())), count)

	var amgn entity.Symbol
	require.NoError(t, db.Where("code = ?", "AMGN").First(&amgn).Error)
	assert.Equal(t, "Renamed", amgn.Name, "existing rows must not be overwritten")

	assert.NoError(t, repo.Seed(ctx, nil))
}

func TestSymbolSQLite_Ping(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewSymbolRepository(setupTestDB(t)).Ping(context.Background()))
}
