package calculations

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// PricePayment - постоянный платеж по системе Price для месячной ставки r (доля)
func PricePayment(principal, r float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if r == 0 {
		return principal / float64(n)
	}
	return principal * r / (1.0 - math.Pow(1.0+r, float64(-n)))
}

// PriceSchedule рассчитывает аннуитетный график (Price): платеж постоянный, последний
// платеж поглощает остаток округления, так что сумма погашений равна principal
func PriceSchedule(principal, annualRatePercent float64, months int) ([]AmortizationEntry, error) {
	if err := checkLoanShape(principal, months); err != nil {
		return nil, err
	}
	r := AnnualToMonthly(annualRatePercent)
	if !utils.IsFinite(r) {
		return nil, fmt.Errorf("price: месячная ставка: %w", ErrNonFinite)
	}
	return amortizeFixedPayment(principal, r, months, PricePayment(principal, r, months)), nil
}

// fixedPayment округляет аннуитетный платеж вниз до копейки: недоплата уходит
// в последний период, и график не гасится раньше срока
func fixedPayment(payment float64) decimal.Decimal {
	return decimal.NewFromFloat(payment).RoundFloor(2)
}

// amortizeFixedPayment гасит balance за n периодов постоянным платежом payment.
// Остаток ведется в decimal с точностью до копеек.
func amortizeFixedPayment(balance, r float64, n int, payment float64) []AmortizationEntry {
	remaining := utils.Cents(balance)
	pay := fixedPayment(payment)
	schedule := make([]AmortizationEntry, 0, n)

	for m := 1; m <= n; m++ {
		interest := utils.Cents(remaining.InexactFloat64() * r)
		principalComponent := pay.Sub(interest)
		monthly := pay

		if m == n || principalComponent.GreaterThan(remaining) {
			principalComponent = remaining
			monthly = principalComponent.Add(interest)
		}
		if principalComponent.IsNegative() {
			principalComponent = decimal.Zero
			monthly = interest
		}

		remaining = remaining.Sub(principalComponent)
		schedule = append(schedule, AmortizationEntry{
			Period:    m,
			Payment:   monthly.InexactFloat64(),
			Principal: principalComponent.InexactFloat64(),
			Interest:  interest.InexactFloat64(),
			Balance:   remaining.InexactFloat64(),
		})
	}
	return schedule
}

func checkLoanShape(principal float64, months int) error {
	if !utils.IsFinite(principal) || principal <= 0 {
		return fmt.Errorf("%w: сумма должна быть положительной", ErrInvalidSchedule)
	}
	if months <= 0 {
		return fmt.Errorf("%w: срок должен быть не меньше 1 месяца", ErrInvalidSchedule)
	}
	return nil
}
