package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/cloud-ru/invest-sim-go/internal/calculations"
)

// Config содержит конфигурацию симулятора и сервера
type Config struct {
	Port            int
	MaxPrincipal    float64
	MaxContribution float64
	MaxMonths       int
	MaxRate         float64
	MaxBalanceCap   float64
	OTELEndpoint    string
	OTELServiceName string
	LogLevel        string
	LogFormat       string

	Spread             calculations.SpreadTiers
	Solver             calculations.SolverOptions
	RestructureMaxIter int

	// Резервные значения индексов; nil - резерва нет
	DefaultSELIC *float64
	DefaultCDI   *float64
	DefaultIPCA  *float64
}

// fileConfig - структура TOML-файла, заданного в CONFIG_FILE. Незаданные ключи
// не меняют значения из окружения.
type fileConfig struct {
	Server struct {
		Port            *int    `toml:"port"`
		OTELEndpoint    *string `toml:"otel_endpoint"`
		OTELServiceName *string `toml:"otel_service_name"`
	} `toml:"server"`
	Limits struct {
		MaxPrincipal    *float64 `toml:"max_principal"`
		MaxContribution *float64 `toml:"max_contribution"`
		MaxMonths       *int     `toml:"max_months"`
		MaxRate         *float64 `toml:"max_rate"`
		MaxBalanceCap   *float64 `toml:"max_balance_cap"`
	} `toml:"limits"`
	Spread *calculations.SpreadTiers `toml:"spread"`
	Solver struct {
		IRRMaxIterations         *int     `toml:"irr_max_iterations"`
		IRRTolerance             *float64 `toml:"irr_tolerance"`
		RestructureMaxIterations *int     `toml:"restructure_max_iterations"`
	} `toml:"solver"`
	Market struct {
		SELIC *float64 `toml:"selic"`
		CDI   *float64 `toml:"cdi"`
		IPCA  *float64 `toml:"ipca"`
	} `toml:"market"`
	Log struct {
		Level  *string `toml:"level"`
		Format *string `toml:"format"`
	} `toml:"log"`
}

// LoadConfig загружает конфигурацию из переменных окружения и, если задан
// CONFIG_FILE, накладывает поверх значения из TOML-файла
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvInt("PORT", 8000),
		MaxPrincipal:    getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxContribution: getEnvFloat("MAX_CONTRIBUTION", 1e8),
		MaxMonths:       getEnvInt("MAX_MONTHS", 600),
		MaxRate:         getEnvFloat("MAX_RATE", 200),
		MaxBalanceCap:   getEnvFloat("MAX_BALANCE_CAP", 1e12),
		OTELEndpoint:    getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName: getEnvString("OTEL_SERVICE_NAME", "invest-sim"),
		LogLevel:        getEnvString("LOG_LEVEL", "INFO"),
		LogFormat:       getEnvString("LOG_FORMAT", "text"),
		Spread: calculations.SpreadTiers{
			UpToOneYear:    getEnvFloat("SPREAD_UP_TO_1Y", calculations.DefaultSpreadTiers.UpToOneYear),
			UpToThreeYears: getEnvFloat("SPREAD_UP_TO_3Y", calculations.DefaultSpreadTiers.UpToThreeYears),
			AboveThree:     getEnvFloat("SPREAD_ABOVE_3Y", calculations.DefaultSpreadTiers.AboveThree),
		},
		Solver: calculations.SolverOptions{
			MaxIterations: getEnvInt("IRR_MAX_ITERATIONS", calculations.DefaultSolverOptions.MaxIterations),
			Tolerance:     getEnvFloat("IRR_TOLERANCE", calculations.DefaultSolverOptions.Tolerance),
			InitialGuess:  calculations.DefaultSolverOptions.InitialGuess,
		},
		RestructureMaxIter: getEnvInt("RESTRUCTURE_MAX_ITERATIONS", calculations.DefaultRestructureMaxIterations),
		DefaultSELIC:       getEnvFloatPtr("DEFAULT_SELIC"),
		DefaultCDI:         getEnvFloatPtr("DEFAULT_CDI"),
		DefaultIPCA:        getEnvFloatPtr("DEFAULT_IPCA"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	setInt(&c.Port, fc.Server.Port)
	setString(&c.OTELEndpoint, fc.Server.OTELEndpoint)
	setString(&c.OTELServiceName, fc.Server.OTELServiceName)

	setFloat(&c.MaxPrincipal, fc.Limits.MaxPrincipal)
	setFloat(&c.MaxContribution, fc.Limits.MaxContribution)
	setInt(&c.MaxMonths, fc.Limits.MaxMonths)
	setFloat(&c.MaxRate, fc.Limits.MaxRate)
	setFloat(&c.MaxBalanceCap, fc.Limits.MaxBalanceCap)

	if fc.Spread != nil {
		c.Spread = *fc.Spread
	}
	setInt(&c.Solver.MaxIterations, fc.Solver.IRRMaxIterations)
	setFloat(&c.Solver.Tolerance, fc.Solver.IRRTolerance)
	setInt(&c.RestructureMaxIter, fc.Solver.RestructureMaxIterations)

	if fc.Market.SELIC != nil {
		c.DefaultSELIC = fc.Market.SELIC
	}
	if fc.Market.CDI != nil {
		c.DefaultCDI = fc.Market.CDI
	}
	if fc.Market.IPCA != nil {
		c.DefaultIPCA = fc.Market.IPCA
	}

	setString(&c.LogLevel, fc.Log.Level)
	setString(&c.LogFormat, fc.Log.Format)
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvFloatPtr(key string) *float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return &floatValue
		}
	}
	return nil
}

// BalanceCap возвращает максимальный баланс для защиты от переполнения
func (c *Config) BalanceCap() float64 {
	return c.MaxBalanceCap
}

// SpreadTiers возвращает ступени спреда для эвристики сравнения
func (c *Config) SpreadTiers() calculations.SpreadTiers {
	return c.Spread
}

// SolverOptions возвращает параметры решателя IRR
func (c *Config) SolverOptions() calculations.SolverOptions {
	return c.Solver
}

// RestructureMaxIterations ограничивает перестроение графика при сокращении срока
func (c *Config) RestructureMaxIterations() int {
	return c.RestructureMaxIter
}

// MarketFallbacks возвращает резервные значения индексов из конфигурации
func (c *Config) MarketFallbacks() calculations.MarketIndices {
	return calculations.MarketIndices{SELIC: c.DefaultSELIC, CDI: c.DefaultCDI, IPCA: c.DefaultIPCA}
}

var _ calculations.ConfigInterface = (*Config)(nil)
