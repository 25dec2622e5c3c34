// Package api は JSON API の公開型とクエリパラメータのバインドを定義します。
// 日付は oapi-codegen の types.Date（"2006-01-02"）で表現します。
package api

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ForecastParams defines parameters for GET /api/forecast and the dashboard form.
type ForecastParams struct {
	Ticker *string             `form:"ticker,omitempty" json:"ticker,omitempty"`
	Start  *openapi_types.Date `form:"start,omitempty" json:"start,omitempty"`
	End    *openapi_types.Date `form:"end,omitempty" json:"end,omitempty"`
	Years  *int                `form:"years,omitempty" json:"years,omitempty"`
}

// PricesParams defines parameters for GET /api/prices/{ticker}.
type PricesParams struct {
	Start *openapi_types.Date `form:"start,omitempty" json:"start,omitempty"`
	End   *openapi_types.Date `form:"end,omitempty" json:"end,omitempty"`
}

// PricePoint is one daily bar.
type PricePoint struct {
	Date     openapi_types.Date `json:"date"`
	Open     float64            `json:"open"`
	High     float64            `json:"high"`
	Low      float64            `json:"low"`
	Close    float64            `json:"close"`
	AdjClose float64            `json:"adj_close"`
	Volume   int64              `json:"volume"`
}

// ForecastRow is one row of the raw forecast table.
type ForecastRow struct {
	Ds            openapi_types.Date `json:"ds"`
	Trend         float64            `json:"trend"`
	Weekly        float64            `json:"weekly"`
	Yearly        float64            `json:"yearly"`
	AdditiveTerms float64            `json:"additive_terms"`
	Yhat          float64            `json:"yhat"`
	YhatLower     float64            `json:"yhat_lower"`
	YhatUpper     float64            `json:"yhat_upper"`
}

// SeasonalProfile is a seasonal component over one period.
type SeasonalProfile struct {
	Name   string               `json:"name"`
	Ds     []openapi_types.Date `json:"ds"`
	Values []float64            `json:"values"`
}

// Components is the trend plus the fitted seasonal profiles.
type Components struct {
	Ds       []openapi_types.Date `json:"ds"`
	Trend    []float64            `json:"trend"`
	Seasonal []SeasonalProfile    `json:"seasonal"`
}

// ForecastResponse is the body of a successful GET /api/forecast.
type ForecastResponse struct {
	Ticker       string             `json:"ticker"`
	CompanyName  string             `json:"company_name"`
	Start        openapi_types.Date `json:"start"`
	End          openapi_types.Date `json:"end"`
	HorizonYears int                `json:"horizon_years"`
	Periods      int                `json:"periods"`
	History      []PricePoint       `json:"history"`
	Forecast     []ForecastRow      `json:"forecast"`
	Components   Components         `json:"components"`
}

// PricesResponse is the body of GET /api/prices/{ticker}.
type PricesResponse struct {
	Ticker string       `json:"ticker"`
	Prices []PricePoint `json:"prices"`
}

// ErrorResponse is returned for every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BindForecastParams binds query parameters using the OpenAPI form style.
// Blank dates and years are treated as absent so they fall back to defaults.
// A blank ticker is kept as "" and goes on to the provider lookup.
func BindForecastParams(q url.Values) (ForecastParams, error) {
	var p ForecastParams
	q = dropEmpty(q, "ticker")
	if err := runtime.BindQueryParameter("form", true, false, "ticker", q, &p.Ticker); err != nil {
		return p, fmt.Errorf("invalid format for parameter ticker: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "start", q, &p.Start); err != nil {
		return p, fmt.Errorf("invalid format for parameter start: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "end", q, &p.End); err != nil {
		return p, fmt.Errorf("invalid format for parameter end: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "years", q, &p.Years); err != nil {
		return p, fmt.Errorf("invalid format for parameter years: %w", err)
	}
	return p, nil
}

// BindPricesParams binds query parameters for the prices endpoint.
func BindPricesParams(q url.Values) (PricesParams, error) {
	var p PricesParams
	q = dropEmpty(q)
	if err := runtime.BindQueryParameter("form", true, false, "start", q, &p.Start); err != nil {
		return p, fmt.Errorf("invalid format for parameter start: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "end", q, &p.End); err != nil {
		return p, fmt.Errorf("invalid format for parameter end: %w", err)
	}
	return p, nil
}

// dropEmpty removes blank parameters except the keys listed in keep.
func dropEmpty(q url.Values, keep ...string) url.Values {
	out := make(url.Values, len(q))
	for k, vs := range q {
		if len(vs) > 0 && (vs[0] != "" || slices.Contains(keep, k)) {
			out[k] = vs
		}
	}
	return out
}
