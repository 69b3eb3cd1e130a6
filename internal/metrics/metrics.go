package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls - вызовы инструментов по итоговому статусу (success, error, validation_error)
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Вызовы инструментов симулятора",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors - ошибки по типу: validation или calculation
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Ошибки проверки параметров и расчетов",
		},
		[]string{"tool_name", "error_type"},
	)

	// APICalls счетчик вызовов по транспорту (http, cli)
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "Вызовы инструментов по транспорту (http, cli, direct)",
		},
		[]string{"service", "endpoint", "status"},
	)

	// IRRIterations - число итераций решателя при расчете CET
	IRRIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irr_solver_iterations",
			Help:    "Итерации метода Ньютона при расчете CET",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50, 100, 1000},
		},
	)

	// ComparisonBasketSize - размер корзины сравнения
	ComparisonBasketSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "comparison_basket_size",
			Help:    "Количество вариантов в корзине сравнения",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		},
	)

	// RestructureNotConverged считает перестроения, упершиеся в лимит итераций
	RestructureNotConverged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "restructure_not_converged_total",
			Help: "Перестроения графика, не сошедшиеся за лимит итераций",
		},
	)
)
