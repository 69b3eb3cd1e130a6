package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cloud-ru/invest-sim-go/internal/tools"
)

var (
	runParams     string
	runParamsFile string
	runOutput     string
)

var runCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Вызывает инструмент и печатает результат",
	Example: `  finsim run simulate_investment --params '{"instrument":"cdb","initial_amount":1000,"term":12,"rate_mode":"pre","interest_rate":12}'
  finsim run loan_schedule --params-file loan.yaml --output yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runOutput != "json" && runOutput != "yaml" {
			return fmt.Errorf("неизвестный формат вывода %q (json|yaml)", runOutput)
		}
		params, err := loadRunParams()
		if err != nil {
			return err
		}

		a, err := bootstrap(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := tools.WithCallInfo(cmd.Context(), tools.CallInfo{RequestID: uuid.NewString(), Transport: "cli"})
		result, err := a.registry.Call(ctx, args[0], params)
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), result, runOutput)
	},
}

func init() {
	runCmd.Flags().StringVar(&runParams, "params", "", "параметры инструмента (JSON-объект)")
	runCmd.Flags().StringVarP(&runParamsFile, "params-file", "f", "", "файл с параметрами (YAML или JSON)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "json", "формат вывода: json или yaml")
	rootCmd.AddCommand(runCmd)
}

func loadRunParams() (map[string]interface{}, error) {
	params := map[string]interface{}{}
	switch {
	case runParams != "" && runParamsFile != "":
		return nil, fmt.Errorf("--params и --params-file взаимоисключающие")
	case runParams != "":
		if err := json.Unmarshal([]byte(runParams), &params); err != nil {
			return nil, fmt.Errorf("разбор --params: %w", err)
		}
	case runParamsFile != "":
		data, err := os.ReadFile(runParamsFile)
		if err != nil {
			return nil, fmt.Errorf("чтение %s: %w", runParamsFile, err)
		}
		// JSON - подмножество YAML
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("разбор %s: %w", runParamsFile, err)
		}
	}
	return params, nil
}

// writeResult печатает результат; для YAML ключи берутся из JSON-тегов
func writeResult(w io.Writer, result interface{}, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
