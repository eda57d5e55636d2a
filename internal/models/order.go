package models

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type ConditionalKind string

const (
	ConditionalTakeProfit ConditionalKind = "TAKE_PROFIT"
	ConditionalStop       ConditionalKind = "STOP"
)

// OrderResult — то немногое, что нужно от ответа биржи:
// идентификатор для нотификации и статус.
type OrderResult struct {
	OrderID int64
	Status  string
}

// BracketPlan живёт только в рамках одного прогона оркестратора.
type BracketPlan struct {
	Symbol     string
	Qty        float64
	EntrySide  Side
	TakeProfit float64
	StopLoss   float64
	Leverage   int
}

// BracketRecord — запись в журнал по итогам прогона (успех или падение шага).
type BracketRecord struct {
	Pair   string  `json:"pair"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`

	Qty        float64 `json:"qty"`
	TakeProfit float64 `json:"take_profit"`
	StopLoss   float64 `json:"stop_loss"`
	Leverage   int     `json:"leverage"`

	EntryOrderID      int64 `json:"entry_order_id,omitempty"`
	TakeProfitOrderID int64 `json:"take_profit_order_id,omitempty"`
	StopLossOrderID   int64 `json:"stop_loss_order_id,omitempty"`

	FailedStep string `json:"failed_step,omitempty"`
	Error      string `json:"error,omitempty"`
}
