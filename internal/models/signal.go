package models

// Signal — внешний торговый сигнал: пара в логической нотации
// ("BTC/USDT:USDT") и референсная цена из алерта.
type Signal struct {
	Pair string  `json:"pair"`
	Rate float64 `json:"rate"`
}
