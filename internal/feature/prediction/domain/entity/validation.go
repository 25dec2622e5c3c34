package entity

// ValidationStatus is the outcome of a ticker existence check.
type ValidationStatus int

const (
	// TickerFound は銘柄がデータプロバイダに存在することを示します。
	TickerFound ValidationStatus = iota
	// TickerNotFound は銘柄の解決に失敗したことを示します。
	TickerNotFound
)

// TickerValidation is the explicit result of validating a ticker.
type TickerValidation struct {
	Status      ValidationStatus
	Ticker      string
	CompanyName string
}

// Found reports whether the ticker resolved to a real instrument.
func (v TickerValidation) Found() bool {
	return v.Status == TickerFound
}
