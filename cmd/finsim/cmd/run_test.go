package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("OTEL_ENDPOINT", "")
	runParams, runParamsFile, runOutput, cfgFile = "", "", "json", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "simulate_investment", "--params",
		`{"instrument":"cdb","initial_amount":1000,"term":12,"rate_mode":"pre","interest_rate":12,"round_results":true}`)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	var res map[string]interface{}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res["final_value"] != 1099.0 {
		t.Errorf("final_value = %v, want 1099", res["final_value"])
	}
}

func TestRunYAMLParamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loan.yaml")
	content := "principal: 10000\nannual_rate_percent: 12\nmonths: 24\nsystem: price\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "loan_schedule", "--params-file", path, "--output", "yaml")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	var res struct {
		Summary struct {
			FirstPayment float64 `yaml:"first_payment"`
			Months       int     `yaml:"months"`
		} `yaml:"summary"`
	}
	if err := yaml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if res.Summary.FirstPayment != 467.87 || res.Summary.Months != 24 {
		t.Errorf("unexpected summary %+v", res.Summary)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := execute(t, "run", "deposit_schedule"); err == nil {
		t.Error("expected error for unknown tool")
	}
	if _, err := execute(t, "run", "loan_schedule", "--params", `{"principal":`); err == nil {
		t.Error("expected error for malformed params")
	}
	if _, err := execute(t, "run", "list_instruments", "--output", "xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestToolsCommand(t *testing.T) {
	out, err := execute(t, "tools")
	if err != nil {
		t.Fatalf("tools error = %v", err)
	}
	for _, name := range []string{"simulate_investment", "restructure_schedule", "effective_cost"} {
		if !strings.Contains(out, name) {
			t.Errorf("tools output misses %q:\n%s", name, out)
		}
	}
}
