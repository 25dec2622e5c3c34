package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/platform/externalapi/yahoo/dto"
)

// quoteSummaryModules are requested so that the lookup fails for unknown symbols.
var quoteSummaryModules = []string{"financialData", "quoteType", "defaultKeyStatistics", "assetProfile", "summaryDetail"}

// Validate はquoteSummaryエンドポイントで銘柄の存在を確認します。
// HTTPエラーステータスは TickerNotFound として返し、通信エラーのみ error を返します。
// リトライは行いません。
func (c *Client) Validate(ctx context.Context, ticker string) (entity.TickerValidation, error) {
	q := url.Values{}
	for _, m := range quoteSummaryModules {
		q.Add("modules", m)
	}
	q.Set("ssl", "true")
	u := fmt.Sprintf("%s/v6/finance/quoteSummary/%s?%s", c.cfg.QuoteBaseURL, url.PathEscape(ticker), q.Encode())

	res, err := c.get(ctx, u)
	if err != nil {
		return entity.TickerValidation{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	notFound := entity.TickerValidation{Status: entity.TickerNotFound, Ticker: ticker}
	if res.StatusCode >= http.StatusBadRequest {
		slog.Info("ticker not found", "ticker", ticker, "status", res.StatusCode)
		return notFound, nil
	}

	var body dto.QuoteSummaryResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		// 存在確認はステータスで済んでいるので、名前が取れなくても続行する
		slog.Warn("failed to decode quoteSummary", "ticker", ticker, "error", err)
		return entity.TickerValidation{Status: entity.TickerFound, Ticker: ticker, CompanyName: ticker}, nil
	}
	if body.QuoteSummary.Error != nil && len(body.QuoteSummary.Result) == 0 {
		return notFound, nil
	}

	name := ticker
	if len(body.QuoteSummary.Result) > 0 {
		qt := body.QuoteSummary.Result[0].QuoteType
		switch {
		case qt.LongName != "":
			name = qt.LongName
		case qt.ShortName != "":
			name = qt.ShortName
		}
	}
	return entity.TickerValidation{Status: entity.TickerFound, Ticker: ticker, CompanyName: name}, nil
}
