package entity

import "time"

// PriceBar is one trading day of OHLC data for a ticker.
type PriceBar struct {
	Date     time.Time // Exchange-local calendar date (midnight UTC)
	Open     float64   // 始値
	High     float64   // 高値
	Low      float64   // 安値
	Close    float64   // 終値
	AdjClose float64   // 配当・分割調整後終値
	Volume   int64     // 出来高
}

// PriceSeries is a date-ascending sequence of daily bars.
type PriceSeries []PriceBar

// LastDate returns the date of the final bar, or the zero time for an empty series.
func (s PriceSeries) LastDate() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// TrainingPoint is one row of the two-column frame consumed by the forecasting engine.
type TrainingPoint struct {
	DS time.Time
	Y  float64
}

// TrainingFrame has the same length and order as the PriceSeries it was derived from.
type TrainingFrame []TrainingPoint
