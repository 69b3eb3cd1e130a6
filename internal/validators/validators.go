package validators

import (
	"errors"
	"fmt"
	"math"

	"github.com/cloud-ru/invest-sim-go/internal/calculations"
	"github.com/cloud-ru/invest-sim-go/internal/config"
	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// ErrValidation оборачивает все ошибки проверки входных параметров
var ErrValidation = errors.New("неверные параметры")

// ValidatePositiveNumber проверяет, что число конечно и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%w: %s: значение не является конечным числом", ErrValidation, name)
	}
	if value < minInclusive {
		return fmt.Errorf("%w: %s: значение должно быть ≥ %g", ErrValidation, name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%w: %s: значение слишком велико (>%g)", ErrValidation, name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%w: %s: значение должно быть в диапазоне [%d; %d]", ErrValidation, name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrincipal проверяет сумму кредита
func CheckPrincipal(cfg *config.Config, principal float64) error {
	return ValidatePositiveNumber("principal", principal, 1e-9, cfg.MaxPrincipal)
}

// CheckRate проверяет процентную ставку
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("annual_rate_percent", rate, 0.0, cfg.MaxRate)
}

// CheckMonths проверяет срок в месяцах
func CheckMonths(cfg *config.Config, months int) error {
	return ValidateIntRange("months", months, 1, cfg.MaxMonths)
}

// CheckInitialAmount проверяет начальную сумму
func CheckInitialAmount(cfg *config.Config, amount float64) error {
	return ValidatePositiveNumber("initial_amount", amount, 0.0, cfg.MaxPrincipal)
}

// CheckContribution проверяет периодический взнос
func CheckContribution(cfg *config.Config, contribution float64) error {
	return ValidatePositiveNumber("monthly_contribution", contribution, 0.0, cfg.MaxContribution)
}

func checkPercent(name string, value float64) error {
	return ValidatePositiveNumber(name, value, 0, 100)
}

// CheckSimulationParams проверяет параметры симуляции инструмента. Тип инструмента
// не проверяется: неизвестный тип обрабатывается расчетом (ошибка или резервная корзина).
func CheckSimulationParams(cfg *config.Config, p calculations.SimulationParams) error {
	if err := CheckInitialAmount(cfg, p.InitialAmount); err != nil {
		return err
	}
	if err := CheckContribution(cfg, p.MonthlyContribution); err != nil {
		return err
	}

	switch p.TermUnit {
	case "", calculations.TermMonths, calculations.TermYears, calculations.TermDays:
	default:
		return fmt.Errorf("%w: term_unit: неизвестная единица %q", ErrValidation, p.TermUnit)
	}
	if err := ValidatePositiveNumber("term", p.Term, 0, math.MaxFloat64); err != nil {
		return err
	}
	if months := p.TermInMonths(); months > float64(cfg.MaxMonths) {
		return fmt.Errorf("%w: term: срок %.1f мес. превышает %d", ErrValidation, months, cfg.MaxMonths)
	}

	switch p.RateMode {
	case "", calculations.RatePre, calculations.RatePost:
	default:
		return fmt.Errorf("%w: rate_mode: неизвестный режим %q", ErrValidation, p.RateMode)
	}
	if err := ValidatePositiveNumber("interest_rate", p.InterestRate, 0, cfg.MaxRate); err != nil {
		return err
	}
	if err := checkIndices(cfg, p.Indices); err != nil {
		return err
	}

	if err := ValidateIntRange("contribution_frequency_months", p.ContributionFrequencyMonths, 0, cfg.MaxMonths); err != nil {
		return err
	}
	if err := ValidateIntRange("dividend_frequency_months", p.DividendFrequencyMonths, 0, cfg.MaxMonths); err != nil {
		return err
	}
	if err := ValidatePositiveNumber("appreciation_percent", p.AppreciationPercent, -99.99, cfg.MaxRate); err != nil {
		return err
	}
	if err := ValidatePositiveNumber("unit_price", p.UnitPrice, 0, cfg.MaxPrincipal); err != nil {
		return err
	}

	percents := []struct {
		name  string
		value float64
	}{
		{"admin_fee_monthly_percent", p.AdminFeeMonthlyPercent},
		{"dividend_yield_percent", p.DividendYieldPercent},
		{"capital_gains_tax_percent", p.CapitalGainsTaxPercent},
		{"dividend_tax_percent", p.DividendTaxPercent},
		{"transaction_fee_percent", p.TransactionFeePercent},
	}
	for _, pc := range percents {
		if err := checkPercent(pc.name, pc.value); err != nil {
			return err
		}
	}
	return nil
}

func checkIndices(cfg *config.Config, m calculations.MarketIndices) error {
	indices := []struct {
		name  string
		value *float64
	}{
		{"indices.selic", m.SELIC},
		{"indices.cdi", m.CDI},
		{"indices.ipca", m.IPCA},
	}
	for _, idx := range indices {
		if idx.value == nil {
			continue
		}
		// IPCA может быть отрицательным (дефляция)
		if err := ValidatePositiveNumber(idx.name, *idx.value, -99.99, cfg.MaxRate); err != nil {
			return err
		}
	}
	return nil
}

// CheckLoanParams проверяет параметры кредита или консорциума
func CheckLoanParams(cfg *config.Config, p calculations.LoanParams) error {
	if err := CheckPrincipal(cfg, p.Principal); err != nil {
		return err
	}
	if err := CheckMonths(cfg, p.Months); err != nil {
		return err
	}

	switch p.System {
	case "", calculations.SystemPrice, calculations.SystemSAC:
		if err := CheckRate(cfg, p.AnnualRatePercent); err != nil {
			return err
		}
	case calculations.SystemConsorcio:
	default:
		return fmt.Errorf("%w: system: неизвестная система %q", ErrValidation, p.System)
	}

	if err := checkPercent("admin_fee_percent", p.AdminFeePercent); err != nil {
		return err
	}
	if err := ValidatePositiveNumber("upfront_fees", p.UpfrontFees, 0, p.Principal); err != nil {
		return err
	}
	if p.UpfrontFees >= p.Principal {
		return fmt.Errorf("%w: upfront_fees: сборы должны быть меньше суммы кредита", ErrValidation)
	}
	return nil
}

// CheckRestructuring проверяет запрос на досрочное погашение. Период вне графика
// допустим: расчет вернет исходный график.
func CheckRestructuring(cfg *config.Config, req calculations.RestructuringRequest) error {
	if err := ValidatePositiveNumber("extra_amount", req.ExtraAmount, 0, cfg.MaxPrincipal); err != nil {
		return err
	}
	switch req.Policy {
	case calculations.ReduceTerm, calculations.ReducePayment:
	default:
		return fmt.Errorf("%w: policy: неизвестная политика %q", ErrValidation, req.Policy)
	}
	return nil
}

// CheckCashFlows проверяет поток платежей для расчета IRR
func CheckCashFlows(cfg *config.Config, flows []float64) error {
	if err := ValidateIntRange("cash_flows", len(flows), 2, cfg.MaxMonths+1); err != nil {
		return err
	}
	for i, cf := range flows {
		if !utils.IsFinite(cf) {
			return fmt.Errorf("%w: cash_flows[%d]: значение не является конечным числом", ErrValidation, i)
		}
	}
	return nil
}
