package calculations

import (
	"math"
	"testing"
)

type testConfig struct {
	cap     float64
	tiers   SpreadTiers
	solver  SolverOptions
	maxIter int
}

func (c testConfig) BalanceCap() float64 { return c.cap }
func (c testConfig) SpreadTiers() SpreadTiers { return c.tiers }
func (c testConfig) SolverOptions() SolverOptions { return c.solver }
func (c testConfig) RestructureMaxIterations() int { return c.maxIter }

func defaultTestConfig() testConfig {
	return testConfig{
		cap:     1e12,
		tiers:   DefaultSpreadTiers,
		solver:  DefaultSolverOptions,
		maxIter: DefaultRestructureMaxIterations,
	}
}

func ptr(v float64) *float64 { return &v }

func almostEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}

func sumPrincipal(schedule []AmortizationEntry) float64 {
	total := 0.0
	for _, e := range schedule {
		total += e.Principal
	}
	return total
}
