// Package handler は prediction フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stock_predictor/internal/api"
	"stock_predictor/internal/feature/prediction/domain"
	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/feature/prediction/transport/http/dto"
	"stock_predictor/internal/feature/prediction/usecase"
)

// PredictionUsecase は予測パイプラインのユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PredictionUsecase interface {
	Run(ctx context.Context, q entity.Query) (*usecase.Result, error)
	LoadPrices(ctx context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error)
}

// OutcomeRecorder counts finished runs by outcome label.
type OutcomeRecorder interface {
	RecordOutcome(outcome string)
}

// Outcome labels passed to OutcomeRecorder.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "ticker_not_found"
	outcomeError    = "error"
)

// PredictionHandler は予測と株価系列の JSON API を処理します。
type PredictionHandler struct {
	uc       PredictionUsecase
	recorder OutcomeRecorder
	now      func() time.Time
}

// NewPredictionHandler は新しい PredictionHandler を作成します。recorder は nil でも構いません。
func NewPredictionHandler(uc PredictionUsecase, recorder OutcomeRecorder) *PredictionHandler {
	return &PredictionHandler{uc: uc, recorder: recorder, now: time.Now}
}

// GetForecast は予測結果をJSONで返します。
//
// エンドポイント例:
// GET /api/forecast?ticker=AMGN&start=2015-01-01&end=2024-01-01&years=2
func (h *PredictionHandler) GetForecast(c *gin.Context) {
	params, err := api.BindForecastParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	q, err := dto.ToQuery(params, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.uc.Run(c.Request.Context(), q)
	if err != nil {
		record(h.recorder, outcomeError)
		c.JSON(StatusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	if res.Outcome == usecase.OutcomeTickerNotFound {
		record(h.recorder, outcomeNotFound)
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: domain.ErrTickerNotFound.Error()})
		return
	}

	record(h.recorder, outcomeOK)
	c.JSON(http.StatusOK, dto.ToForecastResponse(res))
}

// GetPrices はティッカーの日足系列をJSONで返します。銘柄の検証は行いません。
//
// エンドポイント例:
// GET /api/prices/AAPL?start=2020-01-01&end=2024-01-01
func (h *PredictionHandler) GetPrices(c *gin.Context) {
	ticker := strings.TrimSpace(c.Param("ticker"))
	params, err := api.BindPricesParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	start, end := dto.ToPriceRange(params, h.now())

	series, err := h.uc.LoadPrices(c.Request.Context(), ticker, start, end)
	if err != nil {
		c.JSON(StatusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.PricesResponse{Ticker: ticker, Prices: dto.ToPricePoints(series)})
}

// StatusFor はパイプラインのエラーをHTTPステータスに対応付けます。
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTickerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func record(r OutcomeRecorder, outcome string) {
	if r != nil {
		r.RecordOutcome(outcome)
	}
}
