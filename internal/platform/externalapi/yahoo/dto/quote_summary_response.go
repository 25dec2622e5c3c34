package dto

// QuoteSummaryResponse はv6 quoteSummaryエンドポイントからのJSONレスポンスを表します。
// 銘柄名の取得に必要な quoteType モジュールのみをデコードします。
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			QuoteType struct {
				Symbol    string `json:"symbol"`
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
				QuoteType string `json:"quoteType"`
				Exchange  string `json:"exchange"`
			} `json:"quoteType"`
		} `json:"result"`
		Error *APIError `json:"error"`
	} `json:"quoteSummary"`
}
