package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// RoundIf округляет до 2 знаков только при включенном флаге
func RoundIf(round bool, value float64) float64 {
	if round {
		return Round2(value)
	}
	return value
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// FiniteOr возвращает value, если оно конечно, иначе fallback
func FiniteOr(value, fallback float64) float64 {
	if IsFinite(value) {
		return value
	}
	return fallback
}

// Clamp ограничивает value отрезком [lo, hi]
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// Cents переводит сумму в decimal, округленный до копеек
func Cents(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}

// SumCents складывает суммы с точностью до копеек без накопления ошибки float64
func SumCents(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(Cents(v))
	}
	return total.InexactFloat64()
}
