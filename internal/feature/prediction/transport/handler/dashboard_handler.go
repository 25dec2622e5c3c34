package handler

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_predictor/internal/api"
	"stock_predictor/internal/feature/prediction/domain"
	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/feature/prediction/transport/http/dto"
	"stock_predictor/internal/feature/prediction/usecase"
	symbolentity "stock_predictor/internal/feature/symbols/domain/entity"
)

//go:embed templates/dashboard.tmpl
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.tmpl"))

// ChartRenderer は3つのダッシュボードチャートを描画します。
type ChartRenderer interface {
	RenderAll(ctx context.Context, title string, prices entity.PriceSeries, f entity.Forecast, comps entity.Components) (entity.ChartImages, error)
}

// SymbolLister はティッカー入力欄の候補を返します。
type SymbolLister interface {
	ListActiveSymbols(ctx context.Context, query string) ([]symbolentity.Symbol, error)
}

type formView struct {
	Ticker   string
	Start    string
	End      string
	Today    string
	Years    int
	MinYears int
	MaxYears int
}

type rowView struct {
	DS            string
	Trend         string
	Weekly        string
	Yearly        string
	AdditiveTerms string
	Yhat          string
	YhatLower     string
	YhatUpper     string
}

type dashboardView struct {
	Form            formView
	Symbols         []symbolentity.Symbol
	Error           string
	CompanyName     string
	HistoryChart    template.URL
	ForecastChart   template.URL
	ComponentsChart template.URL
	Rows            []rowView
}

// DashboardHandler は GET / の HTML ダッシュボードを描画します。
type DashboardHandler struct {
	uc       PredictionUsecase
	charts   ChartRenderer
	symbols  SymbolLister
	recorder OutcomeRecorder
	now      func() time.Time
}

// NewDashboardHandler は新しい DashboardHandler を作成します。symbols と recorder は nil でも構いません。
func NewDashboardHandler(uc PredictionUsecase, charts ChartRenderer, symbols SymbolLister, recorder OutcomeRecorder) *DashboardHandler {
	return &DashboardHandler{uc: uc, charts: charts, symbols: symbols, recorder: recorder, now: time.Now}
}

// Show はフォームの値でパイプラインを実行し、チャートと予測テーブルを含むページを返します。
// 銘柄が見つからない場合は 200 でエラーメッセージのみを表示します。
func (h *DashboardHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	today := dto.Today(h.now())

	view := dashboardView{
		Form: formView{
			Ticker:   dto.DefaultTicker,
			Start:    dto.DefaultStart.Format(time.DateOnly),
			End:      today.Format(time.DateOnly),
			Today:    today.Format(time.DateOnly),
			Years:    dto.DefaultYears,
			MinYears: entity.MinHorizonYears,
			MaxYears: entity.MaxHorizonYears,
		},
		Symbols: h.listSymbols(ctx),
	}

	params, err := api.BindForecastParams(c.Request.URL.Query())
	if err != nil {
		h.render(c, http.StatusBadRequest, view, err)
		return
	}
	q, err := dto.ToQuery(params, h.now())
	if err != nil {
		h.render(c, http.StatusBadRequest, view, err)
		return
	}
	view.Form.Ticker = q.Ticker
	view.Form.Start = q.Start.Format(time.DateOnly)
	view.Form.End = q.End.Format(time.DateOnly)
	view.Form.Years = q.HorizonYears

	res, err := h.uc.Run(ctx, q)
	if err != nil {
		record(h.recorder, outcomeError)
		h.render(c, StatusFor(err), view, err)
		return
	}
	if res.Outcome == usecase.OutcomeTickerNotFound {
		record(h.recorder, outcomeNotFound)
		h.render(c, http.StatusOK, view, domain.ErrTickerNotFound)
		return
	}

	imgs, err := h.charts.RenderAll(ctx, res.CompanyName, res.Prices, res.Forecast, res.Components)
	if err != nil {
		record(h.recorder, outcomeError)
		h.render(c, http.StatusInternalServerError, view, err)
		return
	}
	record(h.recorder, outcomeOK)

	view.CompanyName = res.CompanyName
	view.HistoryChart = dataURI(imgs.History)
	view.ForecastChart = dataURI(imgs.Forecast)
	view.ComponentsChart = dataURI(imgs.Components)
	view.Rows = toRows(res.Forecast)
	h.render(c, http.StatusOK, view, nil)
}

func (h *DashboardHandler) listSymbols(ctx context.Context) []symbolentity.Symbol {
	if h.symbols == nil {
		return nil
	}
	s, err := h.symbols.ListActiveSymbols(ctx, "")
	if err != nil {
		// 候補が出せなくてもダッシュボードは動作させる
		slog.Warn("failed to list symbols", "error", err)
		return nil
	}
	return s
}

func (h *DashboardHandler) render(c *gin.Context, status int, view dashboardView, err error) {
	if err != nil {
		view.Error = err.Error()
	}
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		slog.Error("failed to render dashboard", "error", err)
		c.String(http.StatusInternalServerError, "failed to render dashboard")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func dataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

func toRows(f entity.Forecast) []rowView {
	rows := make([]rowView, len(f))
	for i, p := range f {
		rows[i] = rowView{
			DS:            p.DS.Format(time.DateOnly),
			Trend:         num(p.Trend),
			Weekly:        num(p.Weekly),
			Yearly:        num(p.Yearly),
			AdditiveTerms: num(p.AdditiveTerms),
			Yhat:          num(p.Yhat),
			YhatLower:     num(p.YhatLower),
			YhatUpper:     num(p.YhatUpper),
		}
	}
	return rows
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
