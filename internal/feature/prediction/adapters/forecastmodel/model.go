// Package forecastmodel adapts github.com/aouyang1/go-forecaster to the prediction usecase.
package forecastmodel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	forecaster "github.com/aouyang1/go-forecaster"
	"github.com/aouyang1/go-forecaster/forecast"
	"gonum.org/v1/gonum/stat/distuv"

	"stock_predictor/internal/feature/prediction/domain"
	"stock_predictor/internal/feature/prediction/domain/entity"
	"stock_predictor/internal/feature/prediction/usecase"
)

// ErrNotFitted is returned by Predict when Fit has not succeeded yet.
var ErrNotFitted = errors.New("forecast model has not been fitted")

const (
	weekPeriod = 7 * 24 * time.Hour
	yearPeriod = 8766 * time.Hour // 365.25 日

	minWeeklyHistory = 14 * 24 * time.Hour
	minYearlyHistory = 2 * 365 * 24 * time.Hour
)

// Options は予測モデルの設定です。
type Options struct {
	WeeklyOrder   int     // 週次季節性のフーリエ次数
	YearlyOrder   int     // 年次季節性のフーリエ次数
	Changepoints  int     // 自動配置するトレンド変化点の数。0 なら直線トレンド
	IntervalWidth float64 // 予測区間の被覆率 (0,1)
}

// DefaultOptions returns the settings used by the dashboard.
func DefaultOptions() Options {
	return Options{
		WeeklyOrder:   3,
		YearlyOrder:   10,
		Changepoints:  25,
		IntervalWidth: 0.8,
	}
}

// Model wraps a go-forecaster Forecaster behind the usecase.ForecastModel contract.
type Model struct {
	opts Options

	f             *forecaster.Forecaster
	history       []time.Time
	seasonalities []string
	weekly        []float64 // time.Weekday 順。週次季節性がなければ nil
	profiles      []entity.SeasonalProfile
}

var _ usecase.ForecastModel = (*Model)(nil)

// NewModel returns an unfitted model.
func NewModel(opts Options) *Model {
	d := DefaultOptions()
	if opts.WeeklyOrder <= 0 {
		opts.WeeklyOrder = d.WeeklyOrder
	}
	if opts.YearlyOrder <= 0 {
		opts.YearlyOrder = d.YearlyOrder
	}
	if opts.Changepoints < 0 {
		opts.Changepoints = 0
	}
	if opts.IntervalWidth <= 0 || opts.IntervalWidth >= 1 {
		opts.IntervalWidth = d.IntervalWidth
	}
	return &Model{opts: opts}
}

// NewFactory returns a usecase.ModelFactory producing models with opts.
func NewFactory(opts Options) usecase.ModelFactory {
	return func() usecase.ForecastModel {
		return NewModel(opts)
	}
}

// Fit は学習用フレーム（ds, y）でモデルを学習します。NaN の行は無視します。
func (m *Model) Fit(ctx context.Context, frame entity.TrainingFrame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ds := make([]time.Time, 0, len(frame))
	y := make([]float64, 0, len(frame))
	for _, p := range frame {
		if math.IsNaN(p.Y) {
			continue
		}
		ds = append(ds, p.DS)
		y = append(y, p.Y)
	}
	if len(ds) < 2 || !ds[len(ds)-1].After(ds[0]) {
		return domain.ErrInsufficientData
	}

	names := selectSeasonalities(ds)
	f, err := forecaster.New(m.options(names))
	if err != nil {
		return fmt.Errorf("configure forecaster: %w", err)
	}
	if err := f.Fit(ds, y); err != nil {
		return err
	}

	m.f = f
	m.history = ds
	m.seasonalities = names
	return m.fitProfiles()
}

// MakeFutureFrame returns the history timestamps followed by periods daily timestamps.
func (m *Model) MakeFutureFrame(periods int) []time.Time {
	if m.f == nil {
		return nil
	}
	out := make([]time.Time, 0, len(m.history)+max(periods, 0))
	out = append(out, m.history...)
	last := m.history[len(m.history)-1]
	for i := 1; i <= periods; i++ {
		out = append(out, last.AddDate(0, 0, i))
	}
	return out
}

// Predict は各時刻の予測値と信頼区間を返します。
func (m *Model) Predict(ctx context.Context, ds []time.Time) (entity.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.f == nil {
		return nil, ErrNotFitted
	}
	if len(ds) == 0 {
		return entity.Forecast{}, nil
	}
	res, err := m.f.Predict(ds)
	if err != nil {
		return nil, err
	}

	out := make(entity.Forecast, len(ds))
	for i, d := range ds {
		seasonal := valueAt(res.SeriesComponents.Seasonality, i)
		weekly, yearly := m.split(d, seasonal)
		out[i] = entity.ForecastPoint{
			DS:            d,
			Trend:         valueAt(res.SeriesComponents.Trend, i),
			Weekly:        weekly,
			Yearly:        yearly,
			AdditiveTerms: seasonal,
			Yhat:          valueAt(res.Forecast, i),
			YhatLower:     valueAt(res.Lower, i),
			YhatUpper:     valueAt(res.Upper, i),
		}
	}
	return out, nil
}

// Components splits the forecast into its trend series and the fitted seasonal profiles.
func (m *Model) Components(f entity.Forecast) (entity.Components, error) {
	c := entity.Components{
		DS:       make([]time.Time, len(f)),
		Trend:    make([]float64, len(f)),
		Seasonal: append([]entity.SeasonalProfile(nil), m.profiles...),
	}
	for i, p := range f {
		c.DS[i] = p.DS
		c.Trend[i] = p.Trend
	}
	return c, nil
}

func (m *Model) options(names []string) *forecaster.Options {
	cfgs := make([]forecast.SeasonalityConfig, 0, len(names))
	for _, name := range names {
		switch name {
		case entity.SeasonalityWeekly:
			cfgs = append(cfgs, forecast.SeasonalityConfig{Name: name, Orders: m.opts.WeeklyOrder, Period: weekPeriod})
		case entity.SeasonalityYearly:
			cfgs = append(cfgs, forecast.SeasonalityConfig{Name: name, Orders: m.opts.YearlyOrder, Period: yearPeriod})
		}
	}

	opt := forecaster.NewDefaultOptions()
	opt.SeriesOptions.ForecastOptions.SeasonalityOptions.SeasonalityConfigs = cfgs
	opt.SeriesOptions.ForecastOptions.ChangepointOptions.Auto = m.opts.Changepoints > 0
	opt.SeriesOptions.ForecastOptions.ChangepointOptions.AutoNumChangepoints = m.opts.Changepoints

	opt.UncertaintyOptions.ForecastOptions.SeasonalityOptions.SeasonalityConfigs = cfgs
	opt.UncertaintyOptions.ResidualZscore = distuv.UnitNormal.Quantile(0.5 + m.opts.IntervalWidth/2)
	return opt
}

// selectSeasonalities は履歴の長さと間隔から推定可能な季節性を選びます。
// 年次は2年以上、週次は2週間以上かつ1週間未満の間隔で観測がある場合に有効です。
func selectSeasonalities(ds []time.Time) []string {
	span := ds[len(ds)-1].Sub(ds[0])
	var names []string
	if span >= minYearlyHistory {
		names = append(names, entity.SeasonalityYearly)
	}
	if span >= minWeeklyHistory && minGap(ds) < weekPeriod {
		names = append(names, entity.SeasonalityWeekly)
	}
	return names
}

func minGap(ds []time.Time) time.Duration {
	gap := time.Duration(math.MaxInt64)
	for i := 1; i < len(ds); i++ {
		if g := ds[i].Sub(ds[i-1]); g > 0 && g < gap {
			gap = g
		}
	}
	return gap
}

func (m *Model) has(name string) bool {
	for _, n := range m.seasonalities {
		if n == name {
			return true
		}
	}
	return false
}

func valueAt(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}
