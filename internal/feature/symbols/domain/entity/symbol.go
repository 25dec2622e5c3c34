// Package entity は symbols フィーチャーのドメインモデルを定義します。
package entity

import "time"

// Symbol はダッシュボードの入力候補として表示するティッカーです。
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// DefaultSymbols は起動時にカタログへ投入される初期データです。
func DefaultSymbols() []Symbol {
	return []Symbol{
		{Code: "AMGN", Name: "Amgen Inc.", Market: "NASDAQ", IsActive: true, SortKey: 1},
		{Code: "AAPL", Name: "Apple Inc.", Market: "NASDAQ", IsActive: true, SortKey: 2},
		{Code: "MSFT", Name: "Microsoft Corporation", Market: "NASDAQ", IsActive: true, SortKey: 3},
		{Code: "GOOGL", Name: "Alphabet Inc.", Market: "NASDAQ", IsActive: true, SortKey: 4},
		{Code: "AMZN", Name: "Amazon.com, Inc.", Market: "NASDAQ", IsActive: true, SortKey: 5},
		{Code: "NVDA", Name: "NVIDIA Corporation", Market: "NASDAQ", IsActive: true, SortKey: 6},
		{Code: "META", Name: "Meta Platforms, Inc.", Market: "NASDAQ", IsActive: true, SortKey: 7},
		{Code: "TSLA", Name: "Tesla, Inc.", Market: "NASDAQ", IsActive: true, SortKey: 8},
		{Code: "JPM", Name: "JPMorgan Chase & Co.", Market: "NYSE", IsActive: true, SortKey: 9},
		{Code: "JNJ", Name: "Johnson & Johnson", Market: "NYSE", IsActive: true, SortKey: 10},
		{Code: "KO", Name: "The Coca-Cola Company", Market: "NYSE", IsActive: true, SortKey: 11},
		{Code: "^GSPC", Name: "S&P 500", Market: "INDEX", IsActive: true, SortKey: 12},
	}
}
