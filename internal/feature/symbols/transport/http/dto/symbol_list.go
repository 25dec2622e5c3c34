// Package dto は symbols HTTP API のデータ転送オブジェクトを定義します。
package dto

// SymbolItem represents a symbol in the API response.
type SymbolItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"`
}

// ListRequest は GET /api/symbols のクエリです。
type ListRequest struct {
	Q string `form:"q" binding:"max=20"`
}
