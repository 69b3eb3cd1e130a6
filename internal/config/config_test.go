package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cloud-ru/invest-sim-go/internal/calculations"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DEFAULT_CDI", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != 8000 || cfg.MaxMonths != 600 || cfg.MaxBalanceCap != 1e12 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if diff := cmp.Diff(calculations.DefaultSpreadTiers, cfg.SpreadTiers()); diff != "" {
		t.Errorf("spread tiers (-want +got):\n%s", diff)
	}
	if cfg.SolverOptions().MaxIterations != 1000 || cfg.RestructureMaxIterations() != 1200 {
		t.Errorf("unexpected solver defaults: %+v, %d", cfg.SolverOptions(), cfg.RestructureMaxIterations())
	}
	if cfg.MarketFallbacks().CDI != nil {
		t.Error("expected no CDI fallback by default")
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MAX_MONTHS", "360")
	t.Setenv("SPREAD_UP_TO_1Y", "0.7")
	t.Setenv("DEFAULT_CDI", "10.65")
	t.Setenv("IRR_TOLERANCE", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MaxMonths != 360 {
		t.Errorf("MaxMonths = %d, want 360", cfg.MaxMonths)
	}
	if cfg.Spread.UpToOneYear != 0.7 {
		t.Errorf("UpToOneYear = %v, want 0.7", cfg.Spread.UpToOneYear)
	}
	if cdi := cfg.MarketFallbacks().CDI; cdi == nil || *cdi != 10.65 {
		t.Errorf("unexpected CDI fallback %v", cdi)
	}
	if cfg.Solver.Tolerance != 1e-6 {
		t.Errorf("invalid value should keep default, got %v", cfg.Solver.Tolerance)
	}
}

func TestLoadConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finsim.toml")
	content := `
[server]
port = 9090

[limits]
max_rate = 50.0

[spread]
up_to_1y = 0.2
up_to_3y = 0.4
above_3y = 0.9

[solver]
restructure_max_iterations = 100

[market]
selic = 10.75

[log]
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("file should override env port, got %d", cfg.Port)
	}
	if cfg.MaxRate != 50 || cfg.MaxPrincipal != 1e9 {
		t.Errorf("unexpected limits: rate %v principal %v", cfg.MaxRate, cfg.MaxPrincipal)
	}
	want := calculations.SpreadTiers{UpToOneYear: 0.2, UpToThreeYears: 0.4, AboveThree: 0.9}
	if diff := cmp.Diff(want, cfg.Spread); diff != "" {
		t.Errorf("spread tiers (-want +got):\n%s", diff)
	}
	if cfg.RestructureMaxIter != 100 || cfg.LogFormat != "json" {
		t.Errorf("unexpected overlay: %d %q", cfg.RestructureMaxIter, cfg.LogFormat)
	}
	if selic := cfg.DefaultSELIC; selic == nil || *selic != 10.75 {
		t.Errorf("unexpected SELIC fallback %v", selic)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[limits\nmax_rate = "), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for invalid TOML file")
	}
}
