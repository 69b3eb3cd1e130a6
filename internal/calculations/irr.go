package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// SolverOptions - параметры метода Ньютона для IRR
type SolverOptions struct {
	MaxIterations int     `json:"max_iterations" toml:"max_iterations"`
	Tolerance     float64 `json:"tolerance" toml:"tolerance"`
	InitialGuess  float64 `json:"initial_guess" toml:"initial_guess"`
}

// DefaultSolverOptions: до 1000 итераций, шаг < 1e-6, начальное приближение 1% в месяц
var DefaultSolverOptions = SolverOptions{
	MaxIterations: 1000,
	Tolerance:     1e-6,
	InitialGuess:  0.01,
}

func (o SolverOptions) withDefaults() SolverOptions {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultSolverOptions.MaxIterations
	}
	if o.Tolerance <= 0 || !utils.IsFinite(o.Tolerance) {
		o.Tolerance = DefaultSolverOptions.Tolerance
	}
	if o.InitialGuess <= -1 || !utils.IsFinite(o.InitialGuess) {
		o.InitialGuess = DefaultSolverOptions.InitialGuess
	}
	return o
}

// IRRResult - ставка за период и число потребовавшихся итераций
type IRRResult struct {
	Rate       float64 `json:"rate"`
	Iterations int     `json:"iterations"`
}

// npv возвращает NPV потока и его производную по ставке
func npv(cashFlows []float64, rate float64) (f, df float64) {
	base := 1 + rate
	for t, cf := range cashFlows {
		tf := float64(t)
		f += cf / math.Pow(base, tf)
		df -= tf * cf / math.Pow(base, tf+1)
	}
	return f, df
}

// SolveIRR находит ставку, обнуляющую NPV потока, методом Ньютона-Рафсона.
// Нулевая производная, нечисловой шаг и исчерпание итераций возвращаются как ошибки.
func SolveIRR(cashFlows []float64, opts SolverOptions) (IRRResult, error) {
	if err := checkCashFlows(cashFlows); err != nil {
		return IRRResult{}, err
	}
	opts = opts.withDefaults()

	rate := opts.InitialGuess
	for k := 1; k <= opts.MaxIterations; k++ {
		f, df := npv(cashFlows, rate)
		if df == 0 {
			return IRRResult{Iterations: k}, fmt.Errorf("irr: ставка %f: %w", rate, ErrZeroDerivative)
		}
		next := rate - f/df
		if !utils.IsFinite(next) || next <= -1 {
			return IRRResult{Iterations: k}, fmt.Errorf("irr: итерация %d: %w", k, ErrNonFinite)
		}
		if math.Abs(next-rate) < opts.Tolerance {
			return IRRResult{Rate: next, Iterations: k}, nil
		}
		rate = next
	}
	return IRRResult{Iterations: opts.MaxIterations},
		fmt.Errorf("irr: %d итераций: %w", opts.MaxIterations, ErrNoConvergence)
}

func checkCashFlows(cashFlows []float64) error {
	if len(cashFlows) < 2 {
		return ErrInvalidCashFlow
	}
	var hasPositive, hasNegative bool
	for _, cf := range cashFlows {
		if !utils.IsFinite(cf) {
			return fmt.Errorf("%w: нечисловое значение", ErrInvalidCashFlow)
		}
		hasPositive = hasPositive || cf > 0
		hasNegative = hasNegative || cf < 0
	}
	if !hasPositive || !hasNegative {
		return ErrInvalidCashFlow
	}
	return nil
}

// EffectiveAnnualCost рассчитывает CET: месячную IRR потока (-выдача, платежи...)
// в годовом выражении
func EffectiveAnnualCost(disbursed float64, payments []float64, opts SolverOptions) EffectiveCost {
	flows := make([]float64, 0, len(payments)+1)
	flows = append(flows, -disbursed)
	flows = append(flows, payments...)
	return CashFlowCost(flows, opts)
}

// CashFlowCost переводит месячную IRR произвольного потока в годовую ставку.
// Если IRR не определяется, возвращается статус undetermined, а не нулевая стоимость.
func CashFlowCost(flows []float64, opts SolverOptions) EffectiveCost {
	res, err := SolveIRR(flows, opts)
	if err != nil {
		return EffectiveCost{Status: CostUndetermined, Iterations: res.Iterations, Reason: err.Error()}
	}
	return EffectiveCost{
		Status:         CostComputed,
		MonthlyPercent: res.Rate * 100,
		AnnualPercent:  MonthlyToAnnual(res.Rate),
		Iterations:     res.Iterations,
	}
}
