package calculations

import (
	"errors"
	"math"
	"testing"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSolveIRR(t *testing.T) {
	flows := append([]float64{-10000}, repeat(879.16, 12)...)

	res, err := SolveIRR(flows, DefaultSolverOptions)
	if err != nil {
		t.Fatalf("SolveIRR() error = %v", err)
	}
	almostEqual(t, "monthly rate", res.Rate, 0.008334, 0.00001)
	if res.Iterations < 1 || res.Iterations > DefaultSolverOptions.MaxIterations {
		t.Errorf("unexpected iterations %d", res.Iterations)
	}
	if f, _ := npv(flows, res.Rate); math.Abs(f) > 0.01 {
		t.Errorf("NPV at solution = %v, want ~0", f)
	}

	zero, err := SolveIRR(append([]float64{-1200}, repeat(100, 12)...), SolverOptions{})
	if err != nil {
		t.Fatalf("SolveIRR() zero rate error = %v", err)
	}
	almostEqual(t, "zero rate", zero.Rate, 0, 1e-6)
}

func TestSolveIRRErrors(t *testing.T) {
	tests := []struct {
		name  string
		flows []float64
		opts  SolverOptions
		want  error
	}{
		{"пустой поток", nil, DefaultSolverOptions, ErrInvalidCashFlow},
		{"один платеж", []float64{-100}, DefaultSolverOptions, ErrInvalidCashFlow},
		{"без смены знака", []float64{100, 50, 50}, DefaultSolverOptions, ErrInvalidCashFlow},
		{"NaN", []float64{-100, math.NaN()}, DefaultSolverOptions, ErrInvalidCashFlow},
		{"нулевая производная", []float64{-1, 2, -1}, SolverOptions{MaxIterations: 10, Tolerance: 1e-6, InitialGuess: 0}, ErrZeroDerivative},
		{
			"исчерпание итераций",
			append([]float64{-10000}, repeat(879.16, 12)...),
			SolverOptions{MaxIterations: 1, Tolerance: 1e-15, InitialGuess: 0.01},
			ErrNoConvergence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SolveIRR(tt.flows, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("SolveIRR() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEffectiveAnnualCost(t *testing.T) {
	payments := repeat(879.16, 12)

	cost := EffectiveAnnualCost(10000, payments, DefaultSolverOptions)
	if cost.Status != CostComputed {
		t.Fatalf("expected computed status, got %+v", cost)
	}
	if cost.AnnualPercent <= 10 || cost.AnnualPercent >= 11 {
		t.Errorf("CET = %v%%, want between 10%% and 11%%", cost.AnnualPercent)
	}
	almostEqual(t, "monthly CET", cost.MonthlyPercent, 0.8334, 0.001)

	undetermined := EffectiveAnnualCost(10000, payments, SolverOptions{MaxIterations: 1, Tolerance: 1e-15, InitialGuess: 0.01})
	if undetermined.Status != CostUndetermined {
		t.Errorf("expected undetermined status, got %+v", undetermined)
	}
	if undetermined.AnnualPercent != 0 || undetermined.Reason == "" {
		t.Errorf("undetermined cost must carry a reason and no rate: %+v", undetermined)
	}

	noFlows := EffectiveAnnualCost(10000, nil, DefaultSolverOptions)
	if noFlows.Status != CostUndetermined {
		t.Errorf("expected undetermined status for empty payments, got %+v", noFlows)
	}
}

func TestCashFlowCost(t *testing.T) {
	flows := append([]float64{-10000}, repeat(879.16, 12)...)
	direct := CashFlowCost(flows, DefaultSolverOptions)
	viaLoan := EffectiveAnnualCost(10000, repeat(879.16, 12), DefaultSolverOptions)
	if direct != viaLoan {
		t.Errorf("CashFlowCost() = %+v, EffectiveAnnualCost() = %+v", direct, viaLoan)
	}

	invalid := CashFlowCost([]float64{100, 100}, DefaultSolverOptions)
	if invalid.Status != CostUndetermined {
		t.Errorf("expected undetermined status without sign change, got %+v", invalid)
	}
}
