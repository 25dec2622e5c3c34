// Package domain defines domain-level errors for the prediction feature.
package domain

import "errors"

var (
	// ErrTickerNotFound indicates that the ticker did not resolve at the data provider.
	// The pipeline stops before any data is loaded or rendered.
	ErrTickerNotFound = errors.New("ticker not found! Please check your spelling or Yahoo Finance site for correct ticker name")

	// ErrInvalidQuery indicates malformed user input such as an unparsable date or an out-of-range horizon.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrProvider indicates that the market-data provider returned an error response.
	ErrProvider = errors.New("market data provider error")

	// ErrForecast indicates that the forecasting engine could not fit or predict.
	ErrForecast = errors.New("forecast failed")

	// ErrInsufficientData indicates fewer than two usable observations, or observations at a single instant.
	ErrInsufficientData = errors.New("need at least 2 non-NaN rows spanning more than one instant")
)

// ErrNoChartData indicates that a chart was requested for an empty series.
var ErrNoChartData = errors.New("no data to plot")
