package trade

import "strings"

// ConvertPair приводит логическую нотацию пары к тикеру биржи:
// отрезает суффикс маржин-режима после ":" и убирает "/".
// "BTC/USDT:USDT" -> "BTCUSDT". Тотальная функция без ошибок:
// валидность символа решает биржа, мусор отлетит на первом же вызове.
func ConvertPair(pair string) string {
	mainPair, _, _ := strings.Cut(pair, ":")
	return strings.ReplaceAll(mainPair, "/", "")
}
