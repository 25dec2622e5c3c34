// Package entity defines the domain models for the prediction feature.
package entity

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DaysPerYear は予測期間（年）を日数に換算する係数です。
	DaysPerYear = 365
	// MinHorizonYears / MaxHorizonYears はスライダーの範囲です。
	MinHorizonYears = 1
	MaxHorizonYears = 5
)

var validate = validator.New()

// Query is the immutable set of inputs for a single dashboard run.
// Ticker and the date range are intentionally not validated: an empty ticker
// fails the provider lookup, and an inverted range yields an empty series.
type Query struct {
	Ticker       string
	Start        time.Time
	End          time.Time
	HorizonYears int `validate:"min=1,max=5"`
}

// NewQuery builds a Query and checks the horizon bounds.
func NewQuery(ticker string, start, end time.Time, horizonYears int) (Query, error) {
	q := Query{
		Ticker:       ticker,
		Start:        start,
		End:          end,
		HorizonYears: horizonYears,
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate reports whether the query's horizon lies within the supported range.
func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("horizon must be between %d and %d years: %w", MinHorizonYears, MaxHorizonYears, err)
	}
	return nil
}

// Periods は予測する将来の日数を返します。
func (q Query) Periods() int {
	return q.HorizonYears * DaysPerYear
}
