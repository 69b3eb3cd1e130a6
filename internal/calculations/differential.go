package calculations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// sacAmortization делит principal на n частей с точностью до копейки (вниз) и
// возвращает остаток деления
func sacAmortization(principal float64, n int) (amort, residue decimal.Decimal) {
	total := utils.Cents(principal)
	amort = total.Div(decimal.NewFromInt(int64(n))).RoundFloor(2)
	residue = total.Sub(amort.Mul(decimal.NewFromInt(int64(n))))
	return amort, residue
}

// SACSchedule рассчитывает график с постоянной амортизацией (SAC). Остаток деления
// на копейки добавляется к первому погашению, поэтому платежи не возрастают.
func SACSchedule(principal, annualRatePercent float64, months int) ([]AmortizationEntry, error) {
	if err := checkLoanShape(principal, months); err != nil {
		return nil, err
	}
	r := AnnualToMonthly(annualRatePercent)
	if !utils.IsFinite(r) {
		return nil, fmt.Errorf("sac: месячная ставка: %w", ErrNonFinite)
	}

	amort, residue := sacAmortization(principal, months)
	remaining := utils.Cents(principal)
	schedule := make([]AmortizationEntry, 0, months)

	for m := 1; m <= months; m++ {
		interest := utils.Cents(remaining.InexactFloat64() * r)
		principalComponent := amort
		if m == 1 {
			principalComponent = principalComponent.Add(residue)
		}
		if m == months || principalComponent.GreaterThan(remaining) {
			principalComponent = remaining
		}
		payment := principalComponent.Add(interest)

		remaining = remaining.Sub(principalComponent)
		schedule = append(schedule, AmortizationEntry{
			Period:    m,
			Payment:   payment.InexactFloat64(),
			Principal: principalComponent.InexactFloat64(),
			Interest:  interest.InexactFloat64(),
			Balance:   remaining.InexactFloat64(),
		})
	}
	return schedule, nil
}

// amortizeConstant гасит balance за n периодов равными долями; остаток деления на
// копейки, как и в SAC, идет в первый период. cost(remaining) возвращает проценты
// или сбор периода.
func amortizeConstant(balance float64, n int, cost func(remaining float64) decimal.Decimal) []AmortizationEntry {
	remaining := utils.Cents(balance)
	amort, residue := sacAmortization(balance, n)
	schedule := make([]AmortizationEntry, 0, n)

	for m := 1; m <= n; m++ {
		interest := cost(remaining.InexactFloat64())
		principalComponent := amort
		if m == 1 {
			principalComponent = principalComponent.Add(residue)
		}
		if m == n || principalComponent.GreaterThan(remaining) {
			principalComponent = remaining
		}
		payment := principalComponent.Add(interest)

		remaining = remaining.Sub(principalComponent)
		schedule = append(schedule, AmortizationEntry{
			Period:    m,
			Payment:   payment.InexactFloat64(),
			Principal: principalComponent.InexactFloat64(),
			Interest:  interest.InexactFloat64(),
			Balance:   remaining.InexactFloat64(),
		})
	}
	return schedule
}
