package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloud-ru/invest-sim-go/internal/config"
	"github.com/cloud-ru/invest-sim-go/internal/logging"
	"github.com/cloud-ru/invest-sim-go/internal/tools"
	"github.com/cloud-ru/invest-sim-go/internal/tracing"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "finsim",
	Short: "Симулятор инвестиций и кредитов",
	Long: `finsim считает доходность инструментов с фиксированным и переменным доходом
с учетом IR и IOF, сравнивает альтернативы, строит графики платежей
(Price, SAC, консорциум), CET и досрочные погашения.

Команды:
  serve  - HTTP API инструментов и /metrics
  run    - разовый вызов инструмента
  tools  - список инструментов`,
	SilenceUsage: true,
}

// Execute запускает корневую команду
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "TOML-файл конфигурации (по умолчанию CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный лог")
}

// app - зависимости, общие для команд
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	tracing  *tracing.Provider
	registry *tools.Registry
}

// bootstrap загружает конфигурацию и собирает логгер, трейсинг и реестр инструментов.
// quiet поднимает уровень лога до warn, если не задан -v.
func bootstrap(ctx context.Context, quiet bool) (*app, error) {
	if cfgFile != "" {
		if err := os.Setenv("CONFIG_FILE", cfgFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("загрузка конфигурации: %w", err)
	}

	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "warn"
	}
	logger := logging.New(level, cfg.LogFormat)

	tp, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, logger)
	if err != nil {
		return nil, fmt.Errorf("инициализация трейсинга: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		tracing:  tp,
		registry: tools.NewRegistry(cfg, tp.Tracer, logger),
	}, nil
}

func (a *app) close() {
	if err := a.tracing.Shutdown(context.Background()); err != nil {
		a.logger.WithError(err).Warn("Ошибка при остановке трейсинга")
	}
}
