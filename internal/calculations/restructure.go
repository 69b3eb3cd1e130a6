package calculations

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// DefaultRestructureMaxIterations ограничивает перестроение при сокращении срока
const DefaultRestructureMaxIterations = 1200

const balanceTolerance = 0.005

// Restructure применяет разовое досрочное погашение к графику base и перестраивает
// остаток по политике req.Policy. base не изменяется. Период вне графика или
// неположительная сумма возвращают копию base без изменений, политика в этом
// случае не проверяется.
func Restructure(cfg ConfigInterface, loan LoanParams, base []AmortizationEntry, req RestructuringRequest) (*RestructureResult, error) {
	target := req.TargetPeriod
	extra := utils.FiniteOr(req.ExtraAmount, 0)
	if target < 1 || target > len(base) || extra <= 0 {
		schedule := make([]AmortizationEntry, len(base))
		copy(schedule, base)
		return &RestructureResult{
			Schedule:  schedule,
			Summary:   Summarize(cfg, loan, schedule),
			Converged: true,
		}, nil
	}

	if req.Policy != ReduceTerm && req.Policy != ReducePayment {
		return nil, fmt.Errorf("%q: %w", req.Policy, ErrUnknownPolicy)
	}
	system := loan.System
	if system == "" {
		system = SystemPrice
	}
	if system != SystemPrice && system != SystemSAC && system != SystemConsorcio {
		return nil, fmt.Errorf("%q: %w", loan.System, ErrUnknownSystem)
	}

	schedule := make([]AmortizationEntry, 0, len(base))
	schedule = append(schedule, base[:target-1]...)

	// Досрочный платеж в целевом периоде
	entry := base[target-1]
	postBalance := entry.Balance
	applied := math.Min(extra, postBalance)
	entry.Payment = utils.Round2(entry.Payment + applied)
	entry.Principal = utils.Round2(entry.Principal + applied)
	entry.Balance = utils.Round2(math.Max(0, postBalance-extra))
	schedule = append(schedule, entry)

	r := AnnualToMonthly(loan.AnnualRatePercent)
	fee := decimal.Zero
	if system == SystemConsorcio {
		fee = consorcioFee(loan.Principal, loan.AdminFeePercent, loan.Months)
	}
	cost := func(remaining float64) decimal.Decimal {
		if system == SystemConsorcio {
			return fee
		}
		return utils.Cents(remaining * r)
	}

	converged := true
	if entry.Balance > balanceTolerance {
		var rest []AmortizationEntry
		switch req.Policy {
		case ReduceTerm:
			var payment decimal.Decimal
			if system == SystemPrice {
				payment = fixedPayment(PricePayment(loan.Principal, r, loan.Months))
			} else {
				payment, _ = sacAmortization(loan.Principal, loan.Months)
			}
			rest, converged = rebuildKeepingPayment(system, entry.Balance, payment, cost, restructureMaxIterations(cfg))
		case ReducePayment:
			remaining := loan.Months - target
			if remaining > 0 {
				if system == SystemPrice {
					rest = amortizeFixedPayment(entry.Balance, r, remaining, PricePayment(entry.Balance, r, remaining))
				} else {
					rest = amortizeConstant(entry.Balance, remaining, cost)
				}
			}
		}
		schedule = append(schedule, rest...)
	}

	for i := range schedule {
		schedule[i].Period = i + 1
	}

	result := &RestructureResult{
		Schedule:     schedule,
		Summary:      Summarize(cfg, loan, schedule),
		Applied:      true,
		Converged:    converged,
		AppliedExtra: utils.Round2(applied),
		PeriodsSaved: len(base) - len(schedule),
	}
	result.InterestSaved = utils.Round2(totalInterest(base) - totalInterest(schedule))
	return result, nil
}

// rebuildKeepingPayment гасит balance прежним платежом (Price) или прежней долей
// погашения (SAC, консорциум), пока остаток не станет меньше допуска. Исчерпание
// maxIter или отсутствие погашения возвращает converged=false.
func rebuildKeepingPayment(system AmortizationSystem, balance float64, fixed decimal.Decimal,
	cost func(float64) decimal.Decimal, maxIter int) ([]AmortizationEntry, bool) {

	remaining := utils.Cents(balance)
	var schedule []AmortizationEntry

	for i := 0; remaining.InexactFloat64() > balanceTolerance; i++ {
		if i >= maxIter {
			return schedule, false
		}
		interest := cost(remaining.InexactFloat64())

		var principalComponent, payment decimal.Decimal
		if system == SystemPrice {
			principalComponent = fixed.Sub(interest)
			payment = fixed
		} else {
			principalComponent = fixed
			payment = fixed.Add(interest)
		}
		if !principalComponent.IsPositive() {
			return schedule, false
		}
		if principalComponent.GreaterThanOrEqual(remaining) {
			principalComponent = remaining
			payment = principalComponent.Add(interest)
		}

		remaining = remaining.Sub(principalComponent)
		schedule = append(schedule, AmortizationEntry{
			Payment:   payment.InexactFloat64(),
			Principal: principalComponent.InexactFloat64(),
			Interest:  interest.InexactFloat64(),
			Balance:   remaining.InexactFloat64(),
		})
	}
	return schedule, true
}

func totalInterest(schedule []AmortizationEntry) float64 {
	values := make([]float64, len(schedule))
	for i, e := range schedule {
		values[i] = e.Interest
	}
	return utils.SumCents(values...)
}

func restructureMaxIterations(cfg ConfigInterface) int {
	if cfg == nil || cfg.RestructureMaxIterations() <= 0 {
		return DefaultRestructureMaxIterations
	}
	return cfg.RestructureMaxIterations()
}
