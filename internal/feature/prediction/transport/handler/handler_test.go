package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_predictor/internal/api"
	"stock_predictor/internal/feature/prediction/domain"
	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/feature/prediction/usecase"
	symbolentity "stock_predictor/internal/feature/symbols/domain/entity"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// mockPredictionUsecase は PredictionUsecase のモック実装です。
type mockPredictionUsecase struct {
	runFn  func(ctx context.Context, q entity.Query) (*usecase.Result, error)
	loadFn func(ctx context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error)
	lastQ  entity.Query
}

func (m *mockPredictionUsecase) Run(ctx context.Context, q entity.Query) (*usecase.Result, error) {
	m.lastQ = q
	if m.runFn != nil {
		return m.runFn(ctx, q)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPredictionUsecase) LoadPrices(ctx context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx, ticker, start, end)
	}
	return nil, nil
}

type mockRenderer struct {
	err   error
	title string
}

func (m *mockRenderer) RenderAll(_ context.Context, title string, _ entity.PriceSeries, _ entity.Forecast, _ entity.Components) (entity.ChartImages, error) {
	m.title = title
	if m.err != nil {
		return entity.ChartImages{}, m.err
	}
	return entity.ChartImages{History: []byte("hist"), Forecast: []byte("fc"), Components: []byte("comp")}, nil
}

type mockSymbols struct {
	err error
}

func (m *mockSymbols) ListActiveSymbols(context.Context, string) ([]symbolentity.Symbol, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []symbolentity.Symbol{{Code: "AMGN", Name: "Amgen Inc."}, {Code: "AAPL", Name: "Apple Inc."}}, nil
}

type outcomeCounter map[string]int

func (o outcomeCounter) RecordOutcome(outcome string) { o[outcome]++ }

func okResult(q entity.Query) *usecase.Result {
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return &usecase.Result{
		Outcome:     usecase.OutcomeOK,
		Query:       q,
		CompanyName: "Amgen Inc.",
		Prices:      entity.PriceSeries{{Date: d, AdjClose: 280.5}},
		Forecast: entity.Forecast{
			{DS: d, Yhat: 281, YhatLower: 270, YhatUpper: 290},
			{DS: d.AddDate(0, 0, 1), Yhat: 282.125, YhatLower: 271, YhatUpper: 291},
		},
		Components: entity.Components{DS: []time.Time{d}, Trend: []float64{281}},
	}
}

func newRouter(uc PredictionUsecase, charts ChartRenderer, symbols SymbolLister, rec OutcomeRecorder) *gin.Engine {
	ph := NewPredictionHandler(uc, rec)
	ph.now = func() time.Time { return fixedNow }
	dh := NewDashboardHandler(uc, charts, symbols, rec)
	dh.now = func() time.Time { return fixedNow }

	r := gin.New()
	r.GET("/", dh.Show)
	r.GET("/api/forecast", ph.GetForecast)
	r.GET("/api/prices/:ticker", ph.GetPrices)
	return r
}

func get(r http.Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestGetForecast_Success(t *testing.T) {
	t.Parallel()

	uc := &mockPredictionUsecase{runFn: func(_ context.Context, q entity.Query) (*usecase.Result, error) { return okResult(q), nil }}
	rec := outcomeCounter{}
	w := get(newRouter(uc, &mockRenderer{}, nil, rec), "/api/forecast?ticker=AMGN&start=2020-01-01&end=2024-01-01&years=2")

	require.Equal(t, http.StatusOK, w.Code)
	var body api.ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AMGN", body.Ticker)
	assert.Equal(t, "Amgen Inc.", body.CompanyName)
	assert.Equal(t, 730, body.Periods)
	assert.Len(t, body.Forecast, 2)
	assert.Equal(t, 2, uc.lastQ.HorizonYears)
	assert.Equal(t, 1, rec[outcomeOK])
}

func TestGetForecast_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		url        string
		runFn      func(context.Context, entity.Query) (*usecase.Result, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "ticker not found",
			url:  "/api/forecast?ticker=ZZZZZZ999",
			runFn: func(_ context.Context, q entity.Query) (*usecase.Result, error) {
				return &usecase.Result{Outcome: usecase.OutcomeTickerNotFound, Query: q}, nil
			},
			wantStatus: http.StatusNotFound,
			wantError:  domain.ErrTickerNotFound.Error(),
		},
		{name: "horizon out of range", url: "/api/forecast?years=6", wantStatus: http.StatusBadRequest},
		{name: "unparsable date", url: "/api/forecast?start=2020/01/01", wantStatus: http.StatusBadRequest},
		{
			name: "provider error",
			url:  "/api/forecast",
			runFn: func(context.Context, entity.Query) (*usecase.Result, error) {
				return nil, fmt.Errorf("%w: load AMGN: %w", domain.ErrProvider, errors.New("status 500"))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "forecast error",
			url:  "/api/forecast",
			runFn: func(context.Context, entity.Query) (*usecase.Result, error) {
				return nil, fmt.Errorf("%w: fit AMGN: insufficient data", domain.ErrForecast)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := &mockPredictionUsecase{runFn: tt.runFn}
			w := get(newRouter(uc, &mockRenderer{}, nil, nil), tt.url)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body.Error)
			}
		})
	}
}

func TestGetPrices(t *testing.T) {
	t.Parallel()

	var gotStart, gotEnd time.Time
	uc := &mockPredictionUsecase{
		loadFn: func(_ context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error) {
			gotStart, gotEnd = start, end
			if ticker == "FAIL" {
				return nil, fmt.Errorf("%w: load FAIL: boom", domain.ErrProvider)
			}
			return entity.PriceSeries{{Date: start, AdjClose: 10}}, nil
		},
	}
	r := newRouter(uc, &mockRenderer{}, nil, nil)

	w := get(r, "/api/prices/AAPL?start=2023-01-01&end=2030-01-01")
	require.Equal(t, http.StatusOK, w.Code)
	var body api.PricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body.Ticker)
	assert.Len(t, body.Prices, 1)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), gotStart)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), gotEnd, "end must be clamped to today")

	assert.Equal(t, http.StatusBadGateway, get(r, "/api/prices/FAIL").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/prices/AAPL?start=bad").Code)
}

func TestDashboard_Success(t *testing.T) {
	t.Parallel()

	uc := &mockPredictionUsecase{runFn: func(_ context.Context, q entity.Query) (*usecase.Result, error) { return okResult(q), nil }}
	charts := &mockRenderer{}
	w := get(newRouter(uc, charts, &mockSymbols{}, nil), "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `value="AMGN"`)
	assert.Contains(t, body, `value="1981-01-09"`)
	assert.Contains(t, body, `max="2024-06-15"`)
	assert.Contains(t, body, `<option value="AAPL">Apple Inc.</option>`)
	assert.Contains(t, body, "data:image/png;base64,aGlzdA==")
	assert.Contains(t, body, "Raw forecast data")
	assert.Contains(t, body, "<td>282.1250</td>")
	assert.Equal(t, "Amgen Inc.", charts.title)
	assert.Equal(t, entity.Query{
		Ticker:       "AMGN",
		Start:        time.Date(1981, 1, 9, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		HorizonYears: 1,
	}, uc.lastQ)
}

func TestDashboard_TickerNotFound(t *testing.T) {
	t.Parallel()

	uc := &mockPredictionUsecase{runFn: func(_ context.Context, q entity.Query) (*usecase.Result, error) {
		return &usecase.Result{Outcome: usecase.OutcomeTickerNotFound, Query: q}, nil
	}}
	charts := &mockRenderer{}
	rec := outcomeCounter{}
	w := get(newRouter(uc, charts, nil, rec), "/?ticker=ZZZZZZ999&years=3")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "ticker not found!")
	assert.Contains(t, body, `value="ZZZZZZ999"`)
	assert.NotContains(t, body, "data:image/png")
	assert.Empty(t, charts.title, "charts must not be rendered")
	assert.Equal(t, 1, rec[outcomeNotFound])
}

// TestDashboard_BlankTicker は入力欄を空にした場合に既定銘柄ではなく空文字で検索し、見つからない旨を表示することを検証します。
func TestDashboard_BlankTicker(t *testing.T) {
	t.Parallel()

	uc := &mockPredictionUsecase{runFn: func(_ context.Context, q entity.Query) (*usecase.Result, error) {
		if q.Ticker == "" {
			return &usecase.Result{Outcome: usecase.OutcomeTickerNotFound, Query: q}, nil
		}
		return okResult(q), nil
	}}
	charts := &mockRenderer{}
	w := get(newRouter(uc, charts, nil, nil), "/?ticker=&years=1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", uc.lastQ.Ticker)
	assert.Contains(t, w.Body.String(), "ticker not found!")
	assert.NotContains(t, w.Body.String(), "data:image/png")
	assert.Empty(t, charts.title)
}

func TestDashboard_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		url        string
		runErr     error
		renderErr  error
		symbolErr  error
		wantStatus int
	}{
		{name: "bad horizon", url: "/?years=9", wantStatus: http.StatusBadRequest},
		{name: "bad date", url: "/?end=tomorrow", wantStatus: http.StatusBadRequest},
		{name: "provider failure", url: "/", runErr: fmt.Errorf("%w: boom", domain.ErrProvider), wantStatus: http.StatusBadGateway},
		{name: "render failure", url: "/", renderErr: domain.ErrNoChartData, wantStatus: http.StatusInternalServerError},
		{name: "symbol lookup failure is ignored", url: "/", symbolErr: errors.New("db down"), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := &mockPredictionUsecase{runFn: func(_ context.Context, q entity.Query) (*usecase.Result, error) {
				if tt.runErr != nil {
					return nil, tt.runErr
				}
				return okResult(q), nil
			}}
			w := get(newRouter(uc, &mockRenderer{err: tt.renderErr}, &mockSymbols{err: tt.symbolErr}, nil), tt.url)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.True(t, strings.Contains(w.Body.String(), `class="error"`))
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, StatusFor(fmt.Errorf("%w: x", domain.ErrInvalidQuery)))
	assert.Equal(t, http.StatusNotFound, StatusFor(domain.ErrTickerNotFound))
	assert.Equal(t, http.StatusBadGateway, StatusFor(fmt.Errorf("%w: x", domain.ErrProvider)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("other")))
}
