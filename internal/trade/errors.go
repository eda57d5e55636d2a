package trade

// Причины обрыва прогона. Каждая терминальна: ретраев в ядре нет,
// одна попытка на шаг, оператор — последняя линия ручного разбора.
const (
	ReasonOpenOrderCountUnavailable = "OpenOrderCountUnavailable"
	ReasonTooManyOpenOrders         = "TooManyOpenOrders"
	ReasonBalanceUnavailable        = "BalanceUnavailable"
	ReasonQuantityTooSmall          = "QuantityTooSmall"
	ReasonLeverageSetFailed         = "LeverageSetFailed"
	ReasonEntryOrderFailed          = "EntryOrderFailed"
	ReasonTakeProfitOrderFailed     = "TakeProfitOrderFailed"
	ReasonStopLossOrderFailed       = "StopLossOrderFailed"
)

// BracketError — тегированная причина + исходная ошибка шага.
type BracketError struct {
	Reason string
	Err    error
}

func (e *BracketError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *BracketError) Unwrap() error { return e.Err }
