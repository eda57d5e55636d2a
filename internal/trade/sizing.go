package trade

import (
	"math"

	"github.com/ttnghia195/trade-signal-hook/internal/helper"
	"github.com/ttnghia195/trade-signal-hook/internal/models"
)

// ComputeQuantity считает размер входа по цене сигнала:
//
//	capitalAtRisk = min(total, capitalCap)   — больше потолка в работу не идёт
//	perSlot       = capitalAtRisk / maxSlots — ровный срез на каждый слот брекета
//	notional      = min(perSlot, available)  — не больше, чем реально свободно
//	qty           = notional / rate, округление до торговой точности
//
// Цена — референсная из сигнала, не рыночная: вход рыночный, проскальзывание
// принято осознанно. На дорогих инструментах qty может округлиться в ноль —
// это сигнал оркестратору прерваться до похода на биржу.
func ComputeQuantity(
	snap models.AccountSnapshot,
	rate float64,
	maxSlots int,
	capitalCap float64,
	precision int,
) float64 {
	if rate <= 0 || maxSlots <= 0 {
		return 0
	}

	capitalAtRisk := math.Min(snap.TotalBalance, capitalCap)
	perSlot := capitalAtRisk / float64(maxSlots)
	notional := math.Min(perSlot, snap.AvailableBalance)
	if notional <= 0 {
		return 0
	}

	return helper.RoundQty(notional/rate, precision)
}
