// Package usecase は株価予測パイプラインのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stock_predictor/internal/feature/prediction/domain"
	"stock_predictor/internal/feature/prediction/domain/entity"
)

// TickerValidator は銘柄がデータプロバイダに存在するかを確認します。
// インターフェイスは利用側（usecase）で定義し、adapters が実装します。
type TickerValidator interface {
	Validate(ctx context.Context, ticker string) (entity.TickerValidation, error)
}

// PriceRepository は日足の株価系列を取得するリポジトリのインターフェイスです。
type PriceRepository interface {
	GetDailyPrices(ctx context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error)
}

// ForecastModel は予測エンジンに求める契約です。モデルは1回の実行につき1度だけ学習します。
type ForecastModel interface {
	Fit(ctx context.Context, frame entity.TrainingFrame) error
	MakeFutureFrame(periods int) []time.Time
	Predict(ctx context.Context, ds []time.Time) (entity.Forecast, error)
	Components(forecast entity.Forecast) (entity.Components, error)
}

// ModelFactory は未学習の新しい ForecastModel を返します。
type ModelFactory func() ForecastModel

// StageObserver はパイプラインの各ステージの所要時間を記録します。
type StageObserver interface {
	ObserveStage(stage string, d time.Duration)
}

// StageObserver に渡すステージ名です。
const (
	StageValidate = "validate"
	StageLoad     = "load"
	StageFit      = "fit"
	StagePredict  = "predict"
)

// Outcome は実行が予測まで到達したかを表します。
type Outcome int

const (
	// OutcomeOK は予測まで完了したことを示します。
	OutcomeOK Outcome = iota
	// OutcomeTickerNotFound は銘柄の検証に失敗し、処理を中断したことを示します。
	OutcomeTickerNotFound
)

// Result は1回の実行で描画に必要なすべてのデータです。
type Result struct {
	Outcome     Outcome
	Query       entity.Query
	CompanyName string
	Prices      entity.PriceSeries
	Training    entity.TrainingFrame
	Forecast    entity.Forecast
	Components  entity.Components
}

// PredictionUsecase は検証、取得、変換、学習、予測の順にパイプラインを実行します。
type PredictionUsecase struct {
	validator TickerValidator
	prices    PriceRepository
	newModel  ModelFactory
	observer  StageObserver
}

// NewPredictionUsecase は新しい PredictionUsecase を作成します。observer は nil でも構いません。
func NewPredictionUsecase(validator TickerValidator, prices PriceRepository, newModel ModelFactory, observer StageObserver) *PredictionUsecase {
	return &PredictionUsecase{
		validator: validator,
		prices:    prices,
		newModel:  newModel,
		observer:  observer,
	}
}

// Run は q についてパイプラインを実行します。銘柄の検証に失敗した場合は
// OutcomeTickerNotFound の Result と nil エラーを返し、それ以降の取得は行いません。
func (u *PredictionUsecase) Run(ctx context.Context, q entity.Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	begin := time.Now()
	v, err := u.validator.Validate(ctx, q.Ticker)
	u.observe(StageValidate, begin)
	if err != nil {
		// ネットワークエラーも「銘柄が見つからない」として扱う
		slog.Warn("ticker lookup failed", "ticker", q.Ticker, "error", err)
		return &Result{Outcome: OutcomeTickerNotFound, Query: q}, nil
	}
	if !v.Found() {
		return &Result{Outcome: OutcomeTickerNotFound, Query: q}, nil
	}

	series, err := u.LoadPrices(ctx, q.Ticker, q.Start, q.End)
	if err != nil {
		return nil, err
	}

	training := ToTrainingFrame(series)

	begin = time.Now()
	model := u.newModel()
	if err := model.Fit(ctx, training); err != nil {
		return nil, fmt.Errorf("%w: fit %s: %w", domain.ErrForecast, q.Ticker, err)
	}
	u.observe(StageFit, begin)

	begin = time.Now()
	future := model.MakeFutureFrame(q.Periods())
	forecast, err := model.Predict(ctx, future)
	if err != nil {
		return nil, fmt.Errorf("%w: predict %s: %w", domain.ErrForecast, q.Ticker, err)
	}
	components, err := model.Components(forecast)
	if err != nil {
		return nil, fmt.Errorf("%w: components %s: %w", domain.ErrForecast, q.Ticker, err)
	}
	u.observe(StagePredict, begin)

	slog.Info("forecast complete",
		"ticker", q.Ticker,
		"history_rows", len(series),
		"forecast_rows", len(forecast),
		"horizon_years", q.HorizonYears,
	)

	return &Result{
		Outcome:     OutcomeOK,
		Query:       q,
		CompanyName: v.CompanyName,
		Prices:      series,
		Training:    training,
		Forecast:    forecast,
		Components:  components,
	}, nil
}

// LoadPrices は株価系列を取得します。開始日より前の終了日は空の系列になります。
func (u *PredictionUsecase) LoadPrices(ctx context.Context, ticker string, start, end time.Time) (entity.PriceSeries, error) {
	begin := time.Now()
	series, err := u.prices.GetDailyPrices(ctx, ticker, start, end)
	u.observe(StageLoad, begin)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", domain.ErrProvider, ticker, err)
	}
	return series, nil
}

func (u *PredictionUsecase) observe(stage string, begin time.Time) {
	if u.observer == nil {
		return
	}
	u.observer.ObserveStage(stage, time.Since(begin))
}
