package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/invest-sim-go/internal/config"
	"github.com/cloud-ru/invest-sim-go/internal/metrics"
	"github.com/cloud-ru/invest-sim-go/internal/validators"
)

// ErrUnknownTool возвращается при вызове незарегистрированного инструмента
var ErrUnknownTool = errors.New("неизвестный инструмент")

// Tool описывает инструмент для листинга и вызова
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Handler     ToolHandler `json:"-"`
}

// Registry хранит зарегистрированные инструменты
type Registry struct {
	tools map[string]Tool
}

// NewRegistry регистрирует все инструменты симулятора
func NewRegistry(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	r.register("simulate_investment", "Симуляция инструмента с налогами (IR, IOF) и помесячной эволюцией",
		SimulateInvestmentHandler(cfg, tracer, logger))
	r.register("compare_investments", "Сравнение с альтернативами того же семейства инструментов",
		CompareInvestmentsHandler(cfg, tracer, logger))
	r.register("list_instruments", "Таблица поддерживаемых инструментов и их налоговых правил",
		ListInstrumentsHandler(tracer, logger))
	r.register("loan_schedule", "График платежей по системе Price, SAC или консорциум со сводкой и CET",
		LoanScheduleHandler(cfg, tracer, logger))
	r.register("compare_loans", "Сравнение систем погашения при одинаковых параметрах",
		CompareLoansHandler(cfg, tracer, logger))
	r.register("restructure_schedule", "Перестроение графика после досрочного погашения",
		RestructureScheduleHandler(cfg, tracer, logger))
	r.register("effective_cost", "Внутренняя ставка доходности потока платежей (месячная и годовая)",
		EffectiveCostHandler(cfg, tracer, logger))
	return r
}

func (r *Registry) register(name, description string, h ToolHandler) {
	r.tools[name] = Tool{Name: name, Description: description, Handler: h}
}

// List возвращает инструменты, отсортированные по имени
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call вызывает инструмент по имени
func (r *Registry) Call(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownTool)
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	return t.Handler(ctx, params)
}

// CallInfo - сведения о вызове, которые транспорт кладет в контекст
type CallInfo struct {
	RequestID string
	Transport string
}

type callInfoKey struct{}

// WithCallInfo сохраняет сведения о вызове в контексте
func WithCallInfo(ctx context.Context, info CallInfo) context.Context {
	return context.WithValue(ctx, callInfoKey{}, info)
}

// CallInfoFrom извлекает сведения о вызове; транспорт по умолчанию "direct"
func CallInfoFrom(ctx context.Context) CallInfo {
	info, _ := ctx.Value(callInfoKey{}).(CallInfo)
	if info.Transport == "" {
		info.Transport = "direct"
	}
	return info
}

// toolCall собирает span, метрики и лог одного вызова
type toolCall struct {
	name      string
	transport string
	span      trace.Span
	log       *logrus.Entry
	start     time.Time
}

func startCall(ctx context.Context, tracer trace.Tracer, logger *logrus.Logger, toolName string) (context.Context, *toolCall) {
	ctx, span := tracer.Start(ctx, toolName)
	info := CallInfoFrom(ctx)

	fields := logrus.Fields{"tool": toolName, "transport": info.Transport}
	if info.RequestID != "" {
		fields["request_id"] = info.RequestID
		span.SetAttributes(attribute.String("request_id", info.RequestID))
	}

	metrics.APICalls.WithLabelValues(info.Transport, toolName, "started").Inc()
	return ctx, &toolCall{
		name:      toolName,
		transport: info.Transport,
		span:      span,
		log:       logger.WithFields(fields),
		start:     time.Now(),
	}
}

// fail классифицирует ошибку, пишет метрики и лог и возвращает ее обернутой
func (c *toolCall) fail(err error) error {
	defer c.span.End()

	status, errorType := "error", "calculation"
	if errors.Is(err, validators.ErrValidation) {
		status, errorType = "validation_error", "validation"
	} else {
		err = fmt.Errorf("ошибка при выполнении расчета: %w", err)
	}

	c.span.SetAttributes(attribute.String("error", status))
	c.span.SetStatus(codes.Error, err.Error())
	metrics.ToolCalls.WithLabelValues(c.name, status).Inc()
	metrics.CalculationErrors.WithLabelValues(c.name, errorType).Inc()
	metrics.APICalls.WithLabelValues(c.transport, c.name, "error").Inc()

	c.log.WithError(err).WithField("duration", time.Since(c.start)).Warn("Вызов инструмента завершился ошибкой")
	return err
}

func (c *toolCall) succeed(attrs ...attribute.KeyValue) {
	defer c.span.End()

	c.span.SetAttributes(append(attrs, attribute.Bool("success", true))...)
	metrics.ToolCalls.WithLabelValues(c.name, "success").Inc()
	metrics.APICalls.WithLabelValues(c.transport, c.name, "success").Inc()

	c.log.WithField("duration", time.Since(c.start)).Info("Инструмент выполнен")
}

// decodeParams переносит параметры вызова в структуру; неизвестные ключи отклоняются
func decodeParams(params map[string]interface{}, dst interface{}) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: %v", validators.ErrValidation, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", validators.ErrValidation, err)
	}
	return nil
}
