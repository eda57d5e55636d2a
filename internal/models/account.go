package models

// AccountSnapshot — баланс фьючерсного счёта в валюте расчётов (USDT).
// Всегда читается свежим: баланс меняется с каждым филлом, кэшировать нельзя.
type AccountSnapshot struct {
	TotalBalance     float64
	AvailableBalance float64
}
