// Package dto は prediction フィーチャーの入力変換とレスポンス変換を定義します。
package dto

import (
	"fmt"
	"strings"
	"time"

	"stock_predictor/internal/api"
	"stock_predictor/internal/feature/prediction/domain"
	"stock_predictor/internal/feature/prediction/domain/entity"
)

// Dashboard form defaults.
const (
	DefaultTicker = "AMGN"
	DefaultYears  = 1
)

// DefaultStart は日付入力の初期値（1981-01-09）です。
var DefaultStart = time.Date(1981, time.January, 9, 0, 0, 0, 0, time.UTC)

// Today は now のカレンダー日付を UTC の 0 時で返します。
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToQuery fills defaults, clamps dates to today and validates the horizon.
// Ticker and the date order are passed through unchanged.
func ToQuery(p api.ForecastParams, now time.Time) (entity.Query, error) {
	today := Today(now)

	ticker := DefaultTicker
	if p.Ticker != nil {
		ticker = strings.TrimSpace(*p.Ticker)
	}
	start := DefaultStart
	if p.Start != nil {
		start = p.Start.Time
	}
	end := today
	if p.End != nil {
		end = p.End.Time
	}
	years := DefaultYears
	if p.Years != nil {
		years = *p.Years
	}

	q, err := entity.NewQuery(ticker, ClampToDay(start, today), ClampToDay(end, today), years)
	if err != nil {
		return entity.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return q, nil
}

// ToPriceRange resolves the optional range of GET /api/prices/:ticker.
func ToPriceRange(p api.PricesParams, now time.Time) (start, end time.Time) {
	today := Today(now)
	start, end = DefaultStart, today
	if p.Start != nil {
		start = p.Start.Time
	}
	if p.End != nil {
		end = p.End.Time
	}
	return ClampToDay(start, today), ClampToDay(end, today)
}

// ClampToDay は today より後の日付を today に丸めます。
func ClampToDay(d, today time.Time) time.Time {
	if d.After(today) {
		return today
	}
	return d
}
