package calculations

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func marketIndices() MarketIndices {
	return MarketIndices{SELIC: ptr(10.75), CDI: ptr(10.65), IPCA: ptr(4.5)}
}

func itemIDs(items []ComparisonItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestCompareInvestmentsFixedIncome(t *testing.T) {
	cfg := defaultTestConfig()
	params := SimulationParams{
		Instrument:    InstrumentCDB,
		InitialAmount: 1000,
		Term:          12,
		RateMode:      RatePre,
		InterestRate:  12,
		Indices:       marketIndices(),
	}
	snapshot := params.Clone()

	res, err := CompareInvestments(cfg, params)
	if err != nil {
		t.Fatalf("CompareInvestments() error = %v", err)
	}
	if diff := cmp.Diff(snapshot, params); diff != "" {
		t.Errorf("request parameters were mutated (-before +after):\n%s", diff)
	}
	if res.Fallback || len(res.Skipped) != 0 {
		t.Errorf("unexpected fallback=%v skipped=%v", res.Fallback, res.Skipped)
	}
	if len(res.Items) != 17 {
		t.Errorf("expected 17 alternatives, got %d: %v", len(res.Items), itemIDs(res.Items))
	}

	seen := map[string]bool{}
	originals := 0
	for _, item := range res.Items {
		if seen[item.ID] {
			t.Errorf("duplicate alternative %q", item.ID)
		}
		seen[item.ID] = true

		d, _ := LookupInstrument(item.Instrument)
		if d.Family != FamilyFixedIncome {
			t.Errorf("%s belongs to family %s", item.ID, d.Family)
		}
		if item.Result == nil {
			t.Errorf("%s has no result", item.ID)
		}
		if item.IsOriginal {
			originals++
			if item.ID != "cdb:pre" {
				t.Errorf("unexpected original %q", item.ID)
			}
		}
	}
	if originals != 1 {
		t.Errorf("expected exactly one original item, got %d", originals)
	}

	direct, err := SimulateInvestment(cfg, params)
	if err != nil {
		t.Fatalf("SimulateInvestment() error = %v", err)
	}
	for _, item := range res.Items {
		if item.IsOriginal {
			if diff := cmp.Diff(direct, item.Result); diff != "" {
				t.Errorf("original result differs from direct simulation (-want +got):\n%s", diff)
			}
		}
	}

	for _, id := range []string{"lci:pre", "tesouro_selic:pos", "tesouro_ipca:pos", "cdb:pos"} {
		if !seen[id] {
			t.Errorf("missing alternative %q", id)
		}
	}
}

func TestCompareInvestmentsMissingIndices(t *testing.T) {
	res, err := CompareInvestments(defaultTestConfig(), SimulationParams{
		Instrument:    InstrumentCDB,
		InitialAmount: 1000,
		Term:          12,
		RateMode:      RatePre,
		InterestRate:  12,
	})
	if err != nil {
		t.Fatalf("CompareInvestments() error = %v", err)
	}

	for _, item := range res.Items {
		if item.RateMode != RatePre {
			t.Errorf("%s requires an index and should have been skipped", item.ID)
		}
	}
	if len(res.Items) != 8 {
		t.Errorf("expected 8 prefixed alternatives, got %v", itemIDs(res.Items))
	}
	if len(res.Skipped) != 9 {
		t.Errorf("expected 9 skipped alternatives, got %v", res.Skipped)
	}
}

func TestCompareInvestmentsFallbackBasket(t *testing.T) {
	res, err := CompareInvestments(defaultTestConfig(), SimulationParams{
		Instrument:    "poupanca",
		InitialAmount: 1000,
		Term:          24,
		InterestRate:  10,
		Indices:       marketIndices(),
	})
	if err != nil {
		t.Fatalf("CompareInvestments() error = %v", err)
	}
	if !res.Fallback {
		t.Error("expected fallback basket for unknown instrument")
	}

	want := []string{"cdb:pre", "lci:pre", "tesouro_prefixado:pre", "tesouro_selic:pos"}
	if diff := cmp.Diff(want, itemIDs(res.Items)); diff != "" {
		t.Errorf("fallback basket mismatch (-want +got):\n%s", diff)
	}
	for _, item := range res.Items {
		if item.IsOriginal {
			t.Errorf("%s marked as original for unknown instrument", item.ID)
		}
	}
}

func TestCompareInvestmentsVariableIncome(t *testing.T) {
	res, err := CompareInvestments(defaultTestConfig(), SimulationParams{
		Instrument:              InstrumentStock,
		InitialAmount:           5000,
		MonthlyContribution:     200,
		Term:                    3,
		TermUnit:                TermYears,
		AppreciationPercent:     8,
		DividendYieldPercent:    6,
		DividendFrequencyMonths: 3,
		ReinvestDividends:       true,
	})
	if err != nil {
		t.Fatalf("CompareInvestments() error = %v", err)
	}

	want := []string{"fundo_de_fundos", "fii", "acoes"}
	if diff := cmp.Diff(want, itemIDs(res.Items)); diff != "" {
		t.Errorf("variable income basket mismatch (-want +got):\n%s", diff)
	}
	if !res.Items[2].IsOriginal {
		t.Error("expected acoes to be the original item")
	}
	if fii := res.Items[1].Result; fii.DividendTax != 0 {
		t.Errorf("fii dividends must be exempt, got tax %v", fii.DividendTax)
	}
}
