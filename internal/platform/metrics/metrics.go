// Package metrics は Prometheus によるメトリクス収集を提供します。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stock_predictor"

// Recorder implements the pipeline's StageObserver and the memo's HitRecorder using Prometheus.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
	stageLatency *prometheus.HistogramVec
	memoLookups  *prometheus.CounterVec
	outcomes     *prometheus.CounterVec
}

// New はプロセス専用のレジストリを持つ Recorder を作成します。
// グローバルレジストリを使わないため、テストごとに独立したインスタンスを作成できます。
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route", "method", "class"},
		),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),
		stageLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_duration_seconds",
				Help:      "Duration of prediction pipeline stages in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"stage"},
		),
		memoLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "price_memo_lookups_total",
				Help:      "Session price memo lookups by result",
			},
			[]string{"result"},
		),
		outcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Prediction runs by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// TrackMemoSize exports the number of memoized tickers as a gauge read at scrape time.
func (r *Recorder) TrackMemoSize(size func() int) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_memo_entries",
			Help:      "Number of tickers held in the session price memo",
		},
		func() float64 { return float64(size()) },
	))
}

// ObserveStage records the duration of one pipeline stage.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordMemo counts a session memo lookup.
func (r *Recorder) RecordMemo(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.memoLookups.WithLabelValues(result).Inc()
}

// RecordOutcome counts a finished prediction run ("ok", "ticker_not_found", "error").
func (r *Recorder) RecordOutcome(outcome string) {
	r.outcomes.WithLabelValues(outcome).Inc()
}

// Middleware は gin のルートテンプレート（c.FullPath）をラベルとしてリクエストを計測します。
// 未登録のパスは "unmatched" にまとめ、カーディナリティを抑えます。
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		r.httpInFlight.Inc()
		start := time.Now()

		c.Next()

		r.httpInFlight.Dec()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		r.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(route, c.Request.Method, statusClass(status)).Observe(time.Since(start).Seconds())
	}
}

// Handler は /metrics 用の HTTP ハンドラーを返します。
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
