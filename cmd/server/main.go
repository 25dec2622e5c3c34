package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"stock_predictor/internal/app/di"
	"stock_predictor/internal/app/router"
	"stock_predictor/internal/feature/prediction/adapters/chart"
	"stock_predictor/internal/feature/prediction/adapters/forecastmodel"
	predictionhandler "stock_predictor/internal/feature/prediction/transport/handler"
	predictionusecase "stock_predictor/internal/feature/prediction/usecase"
	symbolsadapters "stock_predictor/internal/feature/symbols/adapters"
	symbolsentity "stock_predictor/internal/feature/symbols/domain/entity"
	symbolshandler "stock_predictor/internal/feature/symbols/transport/handler"
	symbolsusecase "stock_predictor/internal/feature/symbols/usecase"
	infradb "stock_predictor/internal/platform/db"
	platformhandler "stock_predictor/internal/platform/http/handler"
	"stock_predictor/internal/platform/logging"
	"stock_predictor/internal/platform/metrics"
	infraredis "stock_predictor/internal/platform/redis"
)

func main() {
	// .env は任意（本番では環境変数を直接設定する）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] failed to load .env: %v", err)
	}

	logger := logging.New(logging.LoadConfig(), os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// カタログDB
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv(), &symbolsentity.Symbol{})
	if err != nil {
		log.Fatalf("opening catalog database: %v", err)
	}
	symbolRepo := symbolsadapters.NewSymbolRepository(db)
	symbolUC := symbolsusecase.NewSymbolUsecase(symbolRepo)
	if err := symbolUC.SeedDefaults(ctx); err != nil {
		log.Fatalf("seeding catalog: %v", err)
	}

	// Redis（任意）
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
	if err != nil {
		slog.Warn("Redis unavailable. Running without shared cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	rec := metrics.New()

	// Repository
	yahooClient := di.NewYahooClient()
	prices := di.NewPriceRepository(yahooClient, rdb, rec)
	rec.TrackMemoSize(prices.Len)

	// Usecase
	predictionUC := predictionusecase.NewPredictionUsecase(
		yahooClient,
		prices,
		forecastmodel.NewFactory(forecastmodel.DefaultOptions()),
		rec,
	)

	// Handler
	checks := map[string]platformhandler.CheckFunc{"catalog": symbolRepo.Ping}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	handlers := router.Handlers{
		Health:     platformhandler.NewHealthHandler(checks),
		Dashboard:  predictionhandler.NewDashboardHandler(predictionUC, chart.NewRenderer(10, 6), symbolUC, rec),
		Prediction: predictionhandler.NewPredictionHandler(predictionUC, rec),
		Symbols:    symbolshandler.NewSymbolHandler(symbolUC),
	}

	// ルータ生成
	r := router.NewRouter(handlers, rec)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("stock predictor listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
