package entity

import "time"

// Seasonality names carried by SeasonalProfile.Name.
const (
	SeasonalityWeekly = "weekly"
	SeasonalityYearly = "yearly"
)

// ForecastPoint is one row of the forecast table.
// AdditiveTerms is the sum of the seasonal terms, Weekly + Yearly.
type ForecastPoint struct {
	DS            time.Time
	Trend         float64
	Weekly        float64
	Yearly        float64
	AdditiveTerms float64
	Yhat          float64
	YhatLower     float64
	YhatUpper     float64
}

// Forecast spans the historical timestamps plus the requested future days.
type Forecast []ForecastPoint

// LastDate returns the final forecast timestamp, or the zero time when empty.
func (f Forecast) LastDate() time.Time {
	if len(f) == 0 {
		return time.Time{}
	}
	return f[len(f)-1].DS
}

// SeasonalProfile is a seasonal component evaluated over one full period.
type SeasonalProfile struct {
	Name   string
	DS     []time.Time
	Values []float64
}

// Components is the decomposed view of a forecast.
type Components struct {
	DS    []time.Time
	Trend []float64
	// Seasonal holds only the seasonalities the model actually fitted.
	Seasonal []SeasonalProfile
}
