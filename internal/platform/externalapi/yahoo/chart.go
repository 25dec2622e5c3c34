package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/platform/externalapi/yahoo/dto"
)

// GetDailyPrices はchartエンドポイントから日足の株価系列を取得します。
// end は含まれません。end が start 以前の場合は API を呼ばずに空の系列を返します。
func (c *Client) GetDailyPrices(ctx context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error) {
	if !end.After(start) {
		return entity.PriceSeries{}, nil
	}

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	q.Set("includeAdjustedClose", "true")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.cfg.ChartBaseURL, url.PathEscape(ticker), q.Encode())

	res, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	var body dto.ChartResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)

	if res.StatusCode == http.StatusNotFound && decodeErr == nil && body.Chart.Error != nil {
		// "No data found" は空の系列として扱う
		slog.Info("no price data", "ticker", ticker, "reason", body.Chart.Error.Description)
		return entity.PriceSeries{}, nil
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("yahoo chart http %d", res.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode chart: %w", decodeErr)
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return entity.PriceSeries{}, nil
	}
	return toSeries(body.Chart.Result[0]), nil
}

// toSeries converts a chart result into date-ascending bars with one row per
// exchange-local calendar date. Rows without a close are skipped.
func toSeries(r dto.ChartResult) entity.PriceSeries {
	if len(r.Indicators.Quote) == 0 {
		return entity.PriceSeries{}
	}
	quote := r.Indicators.Quote[0]
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	byDate := make(map[time.Time]entity.PriceBar, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		closePx := at(quote.Close, i)
		if closePx == nil {
			continue
		}
		bar := entity.PriceBar{
			Date:     exchangeDate(ts, r.Meta.GMTOffset),
			Open:     deref(at(quote.Open, i)),
			High:     deref(at(quote.High, i)),
			Low:      deref(at(quote.Low, i)),
			Close:    *closePx,
			AdjClose: *closePx,
		}
		if a := at(adj, i); a != nil {
			bar.AdjClose = *a
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		// 同じ日付が重複した場合は後のものを採用
		byDate[bar.Date] = bar
	}

	out := make(entity.PriceSeries, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// exchangeDate converts a unix timestamp to the exchange-local calendar date at midnight UTC.
func exchangeDate(ts, gmtOffset int64) time.Time {
	local := time.Unix(ts+gmtOffset, 0).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func at(v []*float64, i int) *float64 {
	if i < len(v) {
		return v[i]
	}
	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
