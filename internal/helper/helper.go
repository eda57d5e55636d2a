package helper

import (
	"github.com/shopspring/decimal"
)

// RoundQty округляет количество до торговой точности инструмента
// (half away from zero — так же ведёт себя toFixed у биржевых UI).
func RoundQty(q float64, precision int) float64 {
	v, _ := decimal.NewFromFloat(q).Round(int32(precision)).Float64()
	return v
}

// FormatQty — строка количества для API биржи, фиксированная точность.
func FormatQty(q float64, precision int) string {
	return decimal.NewFromFloat(q).StringFixed(int32(precision))
}

// FormatPrice — строка цены для API биржи, фиксированная точность.
func FormatPrice(px float64, precision int) string {
	return decimal.NewFromFloat(px).StringFixed(int32(precision))
}

// RoundPrice округляет цену до ценовой точности (для плана и нотификаций).
func RoundPrice(px float64, precision int) float64 {
	v, _ := decimal.NewFromFloat(px).Round(int32(precision)).Float64()
	return v
}
