package tools

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/invest-sim-go/internal/calculations"
	"github.com/cloud-ru/invest-sim-go/internal/config"
	"github.com/cloud-ru/invest-sim-go/internal/metrics"
	"github.com/cloud-ru/invest-sim-go/internal/validators"
)

// ToolHandler представляет обработчик инструмента
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// simulationRequest извлекает и проверяет параметры симуляции. Непереданные индексы
// дополняются резервными значениями из конфигурации.
func simulationRequest(cfg *config.Config, params map[string]interface{}) (calculations.SimulationParams, error) {
	var p calculations.SimulationParams
	if err := decodeParams(params, &p); err != nil {
		return p, err
	}
	p.Indices = p.Indices.WithFallbacks(cfg.MarketFallbacks())
	if err := validators.CheckSimulationParams(cfg, p); err != nil {
		return p, err
	}
	return p, nil
}

func simulationAttributes(p calculations.SimulationParams) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("instrument", string(p.Instrument)),
		attribute.String("rate_mode", string(p.RateMode)),
		attribute.Float64("initial_amount", p.InitialAmount),
		attribute.Float64("monthly_contribution", p.MonthlyContribution),
		attribute.Float64("term", p.Term),
		attribute.String("term_unit", string(p.TermUnit)),
		attribute.Float64("interest_rate", p.InterestRate),
	}
}

func loanAttributes(p calculations.LoanParams) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("system", string(p.System)),
		attribute.Float64("principal", p.Principal),
		attribute.Float64("annual_rate_percent", p.AnnualRatePercent),
		attribute.Int("months", p.Months),
	}
}

func observeCost(cost calculations.EffectiveCost) {
	if cost.Status == calculations.CostComputed {
		metrics.IRRIterations.Observe(float64(cost.Iterations))
	}
}

// SimulateInvestmentHandler обрабатывает запрос на симуляцию инструмента
func SimulateInvestmentHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, tracer, logger, "simulate_investment")

		p, err := simulationRequest(cfg, params)
		if err != nil {
			return nil, call.fail(err)
		}
		call.span.SetAttributes(simulationAttributes(p)...)

		result, err := calculations.SimulateInvestment(cfg, p)
		if err != nil {
			return nil, call.fail(err)
		}

		call.succeed(
			attribute.Float64("final_value", result.FinalValue),
			attribute.Float64("net_yield", result.NetYield),
			attribute.Int("periods", result.Periods),
		)
		return result, nil
	}
}

// CompareInvestmentsHandler обрабатывает запрос на сравнение с альтернативами
func CompareInvestmentsHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, tracer, logger, "compare_investments")

		p, err := simulationRequest(cfg, params)
		if err != nil {
			return nil, call.fail(err)
		}
		call.span.SetAttributes(simulationAttributes(p)...)

		result, err := calculations.CompareInvestments(cfg, p)
		if err != nil {
			return nil, call.fail(err)
		}

		metrics.ComparisonBasketSize.Observe(float64(len(result.Items)))
		if len(result.Skipped) > 0 {
			call.log.WithField("skipped", result.Skipped).Debug("Часть альтернатив пропущена: нет значения индекса")
		}
		call.succeed(
			attribute.Int("alternatives", len(result.Items)),
			attribute.Int("skipped", len(result.Skipped)),
			attribute.Bool("fallback", result.Fallback),
		)
		return result, nil
	}
}

// ListInstrumentsHandler возвращает таблицу инструментов
func ListInstrumentsHandler(tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		_, call := startCall(ctx, tracer, logger, "list_instruments")
		instruments := calculations.Instruments()
		call.succeed(attribute.Int("instruments", len(instruments)))
		return instruments, nil
	}
}

// LoanScheduleHandler обрабатывает запрос на расчет графика платежей
func LoanScheduleHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, tracer, logger, "loan_schedule")

		var p calculations.LoanParams
		if err := decodeParams(params, &p); err != nil {
			return nil, call.fail(err)
		}
		call.span.SetAttributes(loanAttributes(p)...)
		if err := validators.CheckLoanParams(cfg, p); err != nil {
			return nil, call.fail(err)
		}

		result, err := calculations.BuildSchedule(cfg, p)
		if err != nil {
			return nil, call.fail(err)
		}

		observeCost(result.Summary.EffectiveCost)
		call.succeed(
			attribute.Float64("first_payment", result.Summary.FirstPayment),
			attribute.Float64("total_paid", result.Summary.TotalPaid),
			attribute.String("cet_status", string(result.Summary.EffectiveCost.Status)),
		)
		return result, nil
	}
}

// CompareLoansHandler обрабатывает запрос на сравнение систем погашения
func CompareLoansHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, tracer, logger, "compare_loans")

		var p calculations.LoanParams
		if err := decodeParams(params, &p); err != nil {
			return nil, call.fail(err)
		}
		call.span.SetAttributes(loanAttributes(p)...)
		if err := validators.CheckLoanParams(cfg, p); err != nil {
			return nil, call.fail(err)
		}

		result, err := calculations.CompareLoans(cfg, p)
		if err != nil {
			return nil, call.fail(err)
		}

		for _, r := range result.Results {
			observeCost(r.Summary.EffectiveCost)
		}
		call.succeed(
			attribute.String("cheaper_system", string(result.CheaperSystem)),
			attribute.Float64("savings", result.Savings),
		)
		return result, nil
	}
}

// restructureParams - параметры кредита и досрочного погашения одним объектом
type restructureParams struct {
	calculations.LoanParams
	calculations.RestructuringRequest
}

// RestructureScheduleHandler обрабатывает запрос на досрочное погашение
func RestructureScheduleHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, tracer, logger, "restructure_schedule")

		var p restructureParams
		if err := decodeParams(params, &p); err != nil {
			return nil, call.fail(err)
		}
		call.span.SetAttributes(loanAttributes(p.LoanParams)...)
		call.span.SetAttributes(
			attribute.Float64("extra_amount", p.ExtraAmount),
			attribute.String("policy", string(p.Policy)),
			attribute.Int("target_period", p.TargetPeriod),
		)
		if err := validators.CheckLoanParams(cfg, p.LoanParams); err != nil {
			return nil, call.fail(err)
		}
		if err := validators.CheckRestructuring(cfg, p.RestructuringRequest); err != nil {
			return nil, call.fail(err)
		}

		base, err := calculations.GenerateSchedule(p.LoanParams)
		if err != nil {
			return nil, call.fail(err)
		}
		result, err := calculations.Restructure(cfg, p.LoanParams, base, p.RestructuringRequest)
		if err != nil {
			return nil, call.fail(err)
		}

		if !result.Converged {
			metrics.RestructureNotConverged.Inc()
			call.log.WithField("max_iterations", cfg.RestructureMaxIterations()).
				Warn("Перестроение графика остановлено по лимиту итераций")
		}
		observeCost(result.Summary.EffectiveCost)
		call.succeed(
			attribute.Bool("applied", result.Applied),
			attribute.Bool("converged", result.Converged),
			attribute.Int("periods_saved", result.PeriodsSaved),
			attribute.Float64("interest_saved", result.InterestSaved),
		)
		return result, nil
	}
}

type cashFlowParams struct {
	CashFlows []float64 `json:"cash_flows"`
}

// EffectiveCostHandler рассчитывает IRR потока платежей. Неопределенная ставка
// возвращается статусом undetermined, а не ошибкой.
func EffectiveCostHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, tracer, logger, "effective_cost")

		var p cashFlowParams
		if err := decodeParams(params, &p); err != nil {
			return nil, call.fail(err)
		}
		call.span.SetAttributes(attribute.Int("cash_flows", len(p.CashFlows)))
		if err := validators.CheckCashFlows(cfg, p.CashFlows); err != nil {
			return nil, call.fail(err)
		}

		cost := calculations.CashFlowCost(p.CashFlows, cfg.SolverOptions())
		observeCost(cost)
		call.succeed(
			attribute.String("status", string(cost.Status)),
			attribute.Float64("annual_percent", cost.AnnualPercent),
		)
		return cost, nil
	}
}
