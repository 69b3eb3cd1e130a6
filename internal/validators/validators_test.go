package validators

import (
	"errors"
	"math"
	"testing"

	"github.com/cloud-ru/invest-sim-go/internal/calculations"
	"github.com/cloud-ru/invest-sim-go/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxPrincipal:    1e9,
		MaxContribution: 1e8,
		MaxMonths:       600,
		MaxRate:         200,
		MaxBalanceCap:   1e12,
	}
}

func fptr(v float64) *float64 { return &v }

func TestValidators(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name      string
		validator func(*config.Config, interface{}) error
		value     interface{}
		wantError bool
	}{
		{
			name:      "valid principal",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     1000000.0,
			wantError: false,
		},
		{
			name:      "invalid principal zero",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     0.0,
			wantError: true,
		},
		{
			name:      "invalid principal NaN",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     math.NaN(),
			wantError: true,
		},
		{
			name:      "invalid rate above limit",
			validator: func(cfg *config.Config, v interface{}) error { return CheckRate(cfg, v.(float64)) },
			value:     250.0,
			wantError: true,
		},
		{
			name:      "invalid months above limit",
			validator: func(cfg *config.Config, v interface{}) error { return CheckMonths(cfg, v.(int)) },
			value:     601,
			wantError: true,
		},
		{
			name:      "valid contribution",
			validator: func(cfg *config.Config, v interface{}) error { return CheckContribution(cfg, v.(float64)) },
			value:     10000.0,
			wantError: false,
		},
		{
			name:      "invalid negative contribution",
			validator: func(cfg *config.Config, v interface{}) error { return CheckContribution(cfg, v.(float64)) },
			value:     -1.0,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(cfg, tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("validator error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not wrap ErrValidation", err)
			}
		})
	}
}

func TestCheckSimulationParams(t *testing.T) {
	cfg := testConfig()
	valid := calculations.SimulationParams{
		Instrument:    calculations.InstrumentCDB,
		InitialAmount: 1000,
		Term:          12,
		RateMode:      calculations.RatePost,
		InterestRate:  110,
		Indices:       calculations.MarketIndices{CDI: fptr(10.65), IPCA: fptr(-0.5)},
	}

	tests := []struct {
		name      string
		mutate    func(*calculations.SimulationParams)
		wantError bool
	}{
		{"valid", func(*calculations.SimulationParams) {}, false},
		{"zero term", func(p *calculations.SimulationParams) { p.Term = 0 }, false},
		{"term in years above limit", func(p *calculations.SimulationParams) {
			p.Term = 51
			p.TermUnit = calculations.TermYears
		}, true},
		{"unknown term unit", func(p *calculations.SimulationParams) { p.TermUnit = "weeks" }, true},
		{"unknown rate mode", func(p *calculations.SimulationParams) { p.RateMode = "hybrid" }, true},
		{"negative rate", func(p *calculations.SimulationParams) { p.InterestRate = -1 }, true},
		{"index not finite", func(p *calculations.SimulationParams) { p.Indices.SELIC = fptr(math.Inf(1)) }, true},
		{"fee above 100%", func(p *calculations.SimulationParams) { p.TransactionFeePercent = 120 }, true},
		{"negative frequency", func(p *calculations.SimulationParams) { p.ContributionFrequencyMonths = -1 }, true},
		{"negative appreciation", func(p *calculations.SimulationParams) { p.AppreciationPercent = -20 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid.Clone()
			tt.mutate(&p)
			err := CheckSimulationParams(cfg, p)
			if (err != nil) != tt.wantError {
				t.Errorf("CheckSimulationParams() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestCheckLoanParams(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name      string
		params    calculations.LoanParams
		wantError bool
	}{
		{"price", calculations.LoanParams{Principal: 10000, AnnualRatePercent: 12, Months: 24}, false},
		{"consorcio without rate", calculations.LoanParams{Principal: 60000, Months: 60, System: calculations.SystemConsorcio, AdminFeePercent: 18, AnnualRatePercent: -1}, false},
		{"unknown system", calculations.LoanParams{Principal: 10000, AnnualRatePercent: 12, Months: 24, System: "german"}, true},
		{"fees equal principal", calculations.LoanParams{Principal: 10000, AnnualRatePercent: 12, Months: 24, UpfrontFees: 10000}, true},
		{"zero months", calculations.LoanParams{Principal: 10000, AnnualRatePercent: 12}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLoanParams(cfg, tt.params)
			if (err != nil) != tt.wantError {
				t.Errorf("CheckLoanParams() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestCheckRestructuring(t *testing.T) {
	cfg := testConfig()

	if err := CheckRestructuring(cfg, calculations.RestructuringRequest{ExtraAmount: 2000, Policy: calculations.ReduceTerm, TargetPeriod: 99}); err != nil {
		t.Errorf("out-of-range period must be accepted, got %v", err)
	}
	if err := CheckRestructuring(cfg, calculations.RestructuringRequest{ExtraAmount: 2000, Policy: "skip"}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for unknown policy, got %v", err)
	}
	if err := CheckRestructuring(cfg, calculations.RestructuringRequest{ExtraAmount: -5, Policy: calculations.ReducePayment}); err == nil {
		t.Error("expected error for negative extra amount")
	}
}

func TestCheckCashFlows(t *testing.T) {
	cfg := testConfig()

	if err := CheckCashFlows(cfg, []float64{-100, 110}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if err := CheckCashFlows(cfg, []float64{-100}); err == nil {
		t.Error("expected error for a single flow")
	}
	if err := CheckCashFlows(cfg, []float64{-100, math.NaN()}); err == nil {
		t.Error("expected error for NaN flow")
	}
}
