package entity

// ChartImages holds the three PNG-encoded dashboard charts.
type ChartImages struct {
	History    []byte
	Forecast   []byte
	Components []byte
}
