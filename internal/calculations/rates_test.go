package calculations

import (
	"errors"
	"math"
	"testing"
)

func TestAnnualToMonthly(t *testing.T) {
	m := AnnualToMonthly(12)
	almostEqual(t, "monthly", m, 0.009488792934583, 1e-12)
	almostEqual(t, "round trip", MonthlyToAnnual(m), 12, 1e-9)

	if got := AnnualToMonthly(0); got != 0 {
		t.Errorf("AnnualToMonthly(0) = %v, want 0", got)
	}
	if got := AnnualToMonthly(math.NaN()); !math.IsNaN(got) {
		t.Errorf("AnnualToMonthly(NaN) = %v, want NaN", got)
	}
}

func TestPostToPre(t *testing.T) {
	pre, err := PostToPre(100, 10.65)
	if err != nil {
		t.Fatalf("PostToPre() error = %v", err)
	}
	almostEqual(t, "100% of index", pre, 10.65, 1e-9)

	pre, err = PostToPre(110, 10.65)
	if err != nil {
		t.Fatalf("PostToPre() error = %v", err)
	}
	if pre <= 10.65*1.1 {
		t.Errorf("110%% of 10.65 compounded should exceed simple scaling, got %v", pre)
	}

	back, err := PreToPost(pre, 10.65)
	if err != nil {
		t.Fatalf("PreToPost() error = %v", err)
	}
	almostEqual(t, "inverse", back, 110, 1e-9)

	if _, err := PostToPre(100, math.NaN()); !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("PostToPre(NaN index) error = %v, want ErrIndexUnavailable", err)
	}
}

func TestSpreadTiersForTerm(t *testing.T) {
	tiers := SpreadTiers{UpToOneYear: 0.5, UpToThreeYears: 1.0, AboveThree: 1.5}
	tests := []struct {
		name   string
		years  float64
		issuer float64
		want   float64
	}{
		{name: "short term", years: 0.5, want: 0.6},
		{name: "two years", years: 2, want: 1.25},
		{name: "four years", years: 4, want: 1.9},
		{name: "long term", years: 10, want: 2.1},
		{name: "issuer adjustment", years: 1, issuer: 0.3, want: 0.9},
		{name: "floored at zero", years: 1, issuer: -5, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			almostEqual(t, "spread", tiers.ForTerm(tt.years, tt.issuer), tt.want, 1e-9)
		})
	}

	if tiers.ForTerm(0.5, 0) > tiers.ForTerm(2, 0) || tiers.ForTerm(2, 0) > tiers.ForTerm(6, 0) {
		t.Error("spread should not decrease with term")
	}
}
