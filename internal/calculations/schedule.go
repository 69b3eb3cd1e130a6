package calculations

import (
	"fmt"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// GenerateSchedule строит график платежей по выбранной системе
func GenerateSchedule(p LoanParams) ([]AmortizationEntry, error) {
	switch p.System {
	case SystemPrice, "":
		return PriceSchedule(p.Principal, p.AnnualRatePercent, p.Months)
	case SystemSAC:
		return SACSchedule(p.Principal, p.AnnualRatePercent, p.Months)
	case SystemConsorcio:
		return ConsorcioSchedule(p.Principal, p.AdminFeePercent, p.Months)
	default:
		return nil, fmt.Errorf("%q: %w", p.System, ErrUnknownSystem)
	}
}

// BuildSchedule строит график и сводку с CET
func BuildSchedule(cfg ConfigInterface, p LoanParams) (*LoanResult, error) {
	schedule, err := GenerateSchedule(p)
	if err != nil {
		return nil, err
	}
	return &LoanResult{
		Summary:  Summarize(cfg, p, schedule),
		Schedule: schedule,
	}, nil
}

// Summarize считает итоги графика и CET. Для консорциума ставка не используется.
func Summarize(cfg ConfigInterface, p LoanParams, schedule []AmortizationEntry) LoanSummary {
	system := p.System
	if system == "" {
		system = SystemPrice
	}
	summary := LoanSummary{
		System:    system,
		Principal: utils.Round2(p.Principal),
		Months:    len(schedule),
	}
	if system != SystemConsorcio {
		summary.AnnualRatePercent = p.AnnualRatePercent
		summary.MonthlyRatePercent = AnnualToMonthly(p.AnnualRatePercent) * 100
	}
	if len(schedule) == 0 {
		summary.EffectiveCost = EffectiveCost{Status: CostUndetermined, Reason: ErrInvalidCashFlow.Error()}
		return summary
	}

	payments := make([]float64, len(schedule))
	interest := make([]float64, len(schedule))
	for i, e := range schedule {
		payments[i] = e.Payment
		interest[i] = e.Interest
	}

	summary.FirstPayment = schedule[0].Payment
	summary.LastPayment = schedule[len(schedule)-1].Payment
	summary.TotalPaid = utils.SumCents(payments...)
	summary.TotalInterest = utils.SumCents(interest...)
	summary.EffectiveCost = EffectiveAnnualCost(p.Principal-utils.FiniteOr(p.UpfrontFees, 0), payments, solverOptions(cfg))
	return summary
}

func solverOptions(cfg ConfigInterface) SolverOptions {
	if cfg == nil {
		return DefaultSolverOptions
	}
	return cfg.SolverOptions()
}
