package dto

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"stock_predictor/internal/api"
	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/feature/prediction/usecase"
)

func date(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}

// ToPricePoints は株価系列を API 型に変換します。
func ToPricePoints(series entity.PriceSeries) []api.PricePoint {
	out := make([]api.PricePoint, 0, len(series))
	for _, b := range series {
		out = append(out, api.PricePoint{
			Date:     date(b.Date),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: b.AdjClose,
			Volume:   b.Volume,
		})
	}
	return out
}

// ToForecastRows は予測結果を API 型に変換します。
func ToForecastRows(f entity.Forecast) []api.ForecastRow {
	out := make([]api.ForecastRow, 0, len(f))
	for _, p := range f {
		out = append(out, api.ForecastRow{
			Ds:            date(p.DS),
			Trend:         p.Trend,
			Weekly:        p.Weekly,
			Yearly:        p.Yearly,
			AdditiveTerms: p.AdditiveTerms,
			Yhat:          p.Yhat,
			YhatLower:     p.YhatLower,
			YhatUpper:     p.YhatUpper,
		})
	}
	return out
}

func toDates(ts []time.Time) []openapi_types.Date {
	out := make([]openapi_types.Date, len(ts))
	for i, t := range ts {
		out[i] = date(t)
	}
	return out
}

// ToComponents は成分分解を API 型に変換します。
func ToComponents(c entity.Components) api.Components {
	out := api.Components{
		Ds:       toDates(c.DS),
		Trend:    c.Trend,
		Seasonal: make([]api.SeasonalProfile, 0, len(c.Seasonal)),
	}
	for _, s := range c.Seasonal {
		out.Seasonal = append(out.Seasonal, api.SeasonalProfile{Name: s.Name, Ds: toDates(s.DS), Values: s.Values})
	}
	return out
}

// ToForecastResponse は完了したパイプライン結果をレスポンスに変換します。
func ToForecastResponse(r *usecase.Result) api.ForecastResponse {
	return api.ForecastResponse{
		Ticker:       r.Query.Ticker,
		CompanyName:  r.CompanyName,
		Start:        date(r.Query.Start),
		End:          date(r.Query.End),
		HorizonYears: r.Query.HorizonYears,
		Periods:      r.Query.Periods(),
		History:      ToPricePoints(r.Prices),
		Forecast:     ToForecastRows(r.Forecast),
		Components:   ToComponents(r.Components),
	}
}
