// Package dto はYahoo Finance APIレスポンスのデータ転送オブジェクトを定義します。
package dto

// APIError is the error object Yahoo embeds in both chart and quoteSummary responses.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartResponse はv8 chartエンドポイントからのJSONレスポンスを表します。
// 休場日などの欠損値は null になるためポインタで受けます。
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"chart"`
}

// ChartResult holds one symbol's series.
type ChartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		Currency             string `json:"currency"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		GMTOffset            int64  `json:"gmtoffset"`
		LongName             string `json:"longName"`
		ShortName            string `json:"shortName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}
