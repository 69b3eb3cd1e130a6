package calculations

import (
	"math"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// TermUnit - единица срока
type TermUnit string

const (
	TermMonths TermUnit = "months"
	TermYears  TermUnit = "years"
	TermDays   TermUnit = "days"
)

const daysPerMonth = 365.0 / 12.0

// ConfigInterface определяет интерфейс для получения конфигурации
type ConfigInterface interface {
	BalanceCap() float64
	SpreadTiers() SpreadTiers
	SolverOptions() SolverOptions
	RestructureMaxIterations() int
}

// MarketIndices содержит годовые значения индексов в процентах; nil означает "не передано"
type MarketIndices struct {
	SELIC *float64 `json:"selic,omitempty"`
	CDI   *float64 `json:"cdi,omitempty"`
	IPCA  *float64 `json:"ipca,omitempty"`
}

// Value возвращает значение индекса и признак его наличия
func (m MarketIndices) Value(name IndexName) (float64, bool) {
	var v *float64
	switch name {
	case IndexSELIC:
		v = m.SELIC
	case IndexCDI:
		v = m.CDI
	case IndexIPCA:
		v = m.IPCA
	}
	if v == nil || !utils.IsFinite(*v) {
		return 0, false
	}
	return *v, true
}

// Clone возвращает независимую копию индексов
func (m MarketIndices) Clone() MarketIndices {
	return MarketIndices{
		SELIC: cloneFloat(m.SELIC),
		CDI:   cloneFloat(m.CDI),
		IPCA:  cloneFloat(m.IPCA),
	}
}

// WithFallbacks дополняет непереданные индексы значениями из fallback
func (m MarketIndices) WithFallbacks(fallback MarketIndices) MarketIndices {
	out := m.Clone()
	if out.SELIC == nil {
		out.SELIC = cloneFloat(fallback.SELIC)
	}
	if out.CDI == nil {
		out.CDI = cloneFloat(fallback.CDI)
	}
	if out.IPCA == nil {
		out.IPCA = cloneFloat(fallback.IPCA)
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// SimulationParams - параметры симуляции одного инструмента
type SimulationParams struct {
	Instrument              InstrumentType `json:"instrument"`
	InitialAmount           float64        `json:"initial_amount"`
	MonthlyContribution     float64        `json:"monthly_contribution"`
	ContributionAtBeginning bool           `json:"contribution_at_beginning"`

	// Взнос раз в N месяцев; 0 и 1 означают ежемесячно
	ContributionFrequencyMonths int `json:"contribution_frequency_months,omitempty"`

	Term     float64  `json:"term"`
	TermUnit TermUnit `json:"term_unit"`
	RateMode RateMode `json:"rate_mode,omitempty"`

	// pre: годовая ставка %, pos: % от индекса, Tesouro IPCA+: реальная годовая ставка %
	InterestRate float64 `json:"interest_rate"`

	Indices                MarketIndices `json:"indices"`
	AdminFeeMonthlyPercent float64       `json:"admin_fee_monthly_percent,omitempty"`

	DividendYieldPercent    float64 `json:"dividend_yield_percent,omitempty"`
	DividendFrequencyMonths int     `json:"dividend_frequency_months,omitempty"`
	ReinvestDividends       bool    `json:"reinvest_dividends,omitempty"`
	UnitPrice               float64 `json:"unit_price,omitempty"`
	AppreciationPercent     float64 `json:"appreciation_percent,omitempty"`
	CapitalGainsTaxPercent  float64 `json:"capital_gains_tax_percent,omitempty"`
	DividendTaxPercent      float64 `json:"dividend_tax_percent,omitempty"`
	TransactionFeePercent   float64 `json:"transaction_fee_percent,omitempty"`

	RoundResults bool `json:"round_results"`
}

// Clone возвращает глубокую копию параметров
func (p SimulationParams) Clone() SimulationParams {
	c := p
	c.Indices = p.Indices.Clone()
	return c
}

// DefaultDividendFrequencyMonths - периодичность выплат, если задана только доходность
const DefaultDividendFrequencyMonths = 12

// normalized заменяет нечисловые поля нулями и приводит значения к допустимым границам
func (p SimulationParams) normalized() SimulationParams {
	n := p.Clone()
	n.InitialAmount = math.Max(0, utils.FiniteOr(p.InitialAmount, 0))
	n.MonthlyContribution = math.Max(0, utils.FiniteOr(p.MonthlyContribution, 0))
	n.Term = math.Max(0, utils.FiniteOr(p.Term, 0))
	n.InterestRate = utils.FiniteOr(p.InterestRate, 0)
	n.AdminFeeMonthlyPercent = utils.FiniteOr(p.AdminFeeMonthlyPercent, 0)
	n.DividendYieldPercent = math.Max(0, utils.FiniteOr(p.DividendYieldPercent, 0))
	n.UnitPrice = utils.FiniteOr(p.UnitPrice, 0)
	n.AppreciationPercent = utils.FiniteOr(p.AppreciationPercent, 0)
	n.CapitalGainsTaxPercent = utils.Clamp(utils.FiniteOr(p.CapitalGainsTaxPercent, 0), 0, 100)
	n.DividendTaxPercent = utils.Clamp(utils.FiniteOr(p.DividendTaxPercent, 0), 0, 100)
	n.TransactionFeePercent = utils.Clamp(utils.FiniteOr(p.TransactionFeePercent, 0), 0, 100)
	if n.TermUnit == "" {
		n.TermUnit = TermMonths
	}
	if n.DividendYieldPercent > 0 && n.DividendFrequencyMonths <= 0 {
		n.DividendFrequencyMonths = DefaultDividendFrequencyMonths
	}
	return n
}

// adminFeeRate - месячная комиссия управления как доля в [0, 0.99)
func (p SimulationParams) adminFeeRate() float64 {
	return utils.Clamp(p.AdminFeeMonthlyPercent/100, 0, 0.99-1e-9)
}

// TermInMonths переводит срок в месяцы
func (p SimulationParams) TermInMonths() float64 {
	switch p.TermUnit {
	case TermYears:
		return p.Term * 12
	case TermDays:
		return p.Term / daysPerMonth
	default:
		return p.Term
	}
}

// HoldingDays - срок владения в днях для налоговых таблиц
func (p SimulationParams) HoldingDays() int {
	switch p.TermUnit {
	case TermDays:
		return int(math.Round(p.Term))
	case TermYears:
		return int(math.Round(p.Term * 365))
	default:
		return int(math.Round(p.Term * daysPerMonth))
	}
}

// ResultMetadata повторяет в результате, как была определена ставка
type ResultMetadata struct {
	RateMode                   RateMode  `json:"rate_mode,omitempty"`
	ReferenceIndex             IndexName `json:"reference_index,omitempty"`
	ReferenceIndexValue        float64   `json:"reference_index_value,omitempty"`
	MonthlyRate                float64   `json:"monthly_rate"`
	EffectiveAnnualRatePercent float64   `json:"effective_annual_rate_percent"`
}

// GrossSimulation - результат симулятора до налогов
type GrossSimulation struct {
	Descriptor     InstrumentDescriptor `json:"-"`
	Evolution      []float64            `json:"evolution"`
	Periods        int                  `json:"periods"`
	Months         float64              `json:"months"`
	HoldingDays    int                  `json:"holding_days"`
	TotalInvested  float64              `json:"total_invested"`
	TotalDividends float64              `json:"total_dividends,omitempty"`
	DividendTax    float64              `json:"dividend_tax,omitempty"`
	FinalBalance   float64              `json:"final_balance"`
	GrossYield     float64              `json:"gross_yield"`
	Metadata       ResultMetadata       `json:"metadata"`
}

// SimulationResult - итог симуляции с налогами
type SimulationResult struct {
	Instrument           InstrumentType `json:"instrument"`
	GrossYield           float64        `json:"gross_yield"`
	IncomeTax            float64        `json:"income_tax"`
	IncomeTaxRatePercent float64        `json:"income_tax_rate_percent"`
	IOF                  float64        `json:"iof"`
	IOFRatePercent       float64        `json:"iof_rate_percent"`
	DividendTax          float64        `json:"dividend_tax,omitempty"`
	NetYield             float64        `json:"net_yield"`
	FinalValue           float64        `json:"final_value"`
	AnnualReturnPercent  float64        `json:"annual_return_percent"`
	Evolution            []float64      `json:"evolution"`
	TotalInvested        float64        `json:"total_invested"`
	TotalDividends       float64        `json:"total_dividends,omitempty"`
	Periods              int            `json:"periods"`
	HoldingDays          int            `json:"holding_days"`
	Metadata             ResultMetadata `json:"metadata"`
}

// ComparisonItem - один вариант в корзине сравнения
type ComparisonItem struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Instrument InstrumentType    `json:"instrument"`
	RateMode   RateMode          `json:"rate_mode,omitempty"`
	Result     *SimulationResult `json:"result"`
	IsOriginal bool              `json:"is_original"`
}

// ComparisonResult - корзина сравнения для одного запроса
type ComparisonResult struct {
	Items []ComparisonItem `json:"items"`
	// Варианты, пропущенные из-за отсутствия значения индекса
	Skipped []string `json:"skipped,omitempty"`
	// Базовый тип не распознан, использован резервный набор
	Fallback bool `json:"fallback,omitempty"`
}

// AmortizationSystem - система погашения кредита
type AmortizationSystem string

const (
	SystemPrice     AmortizationSystem = "price"
	SystemSAC       AmortizationSystem = "sac"
	SystemConsorcio AmortizationSystem = "consorcio"
)

// AmortizationEntry представляет одну запись в графике платежей
type AmortizationEntry struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// LoanParams - параметры кредита, финансирования или консорциума
type LoanParams struct {
	Principal         float64            `json:"principal"`
	AnnualRatePercent float64            `json:"annual_rate_percent"`
	Months            int                `json:"months"`
	System            AmortizationSystem `json:"system"`
	// Для консорциума: административный сбор за весь срок, % от суммы
	AdminFeePercent float64 `json:"admin_fee_percent,omitempty"`
	// Удерживаемые при выдаче сборы; уменьшают сумму на руках в расчете CET
	UpfrontFees float64 `json:"upfront_fees,omitempty"`
}

// CostStatus показывает, удалось ли вычислить CET
type CostStatus string

const (
	CostComputed     CostStatus = "computed"
	CostUndetermined CostStatus = "undetermined"
)

// EffectiveCost - полная эффективная стоимость (CET); при Status=undetermined значения не заполнены
type EffectiveCost struct {
	Status         CostStatus `json:"status"`
	MonthlyPercent float64    `json:"monthly_percent,omitempty"`
	AnnualPercent  float64    `json:"annual_percent,omitempty"`
	Iterations     int        `json:"iterations,omitempty"`
	Reason         string     `json:"reason,omitempty"`
}

// LoanSummary представляет сводку по кредиту
type LoanSummary struct {
	System             AmortizationSystem `json:"system"`
	Principal          float64            `json:"principal"`
	AnnualRatePercent  float64            `json:"annual_rate_percent"`
	MonthlyRatePercent float64            `json:"monthly_rate_percent"`
	Months             int                `json:"months"`
	FirstPayment       float64            `json:"first_payment"`
	LastPayment        float64            `json:"last_payment"`
	TotalPaid          float64            `json:"total_paid"`
	TotalInterest      float64            `json:"total_interest"`
	EffectiveCost      EffectiveCost      `json:"effective_cost"`
}

// LoanResult представляет график платежей со сводкой
type LoanResult struct {
	Summary  LoanSummary         `json:"summary"`
	Schedule []AmortizationEntry `json:"schedule"`
}

// RestructurePolicy - что уменьшать после досрочного погашения
type RestructurePolicy string

const (
	ReduceTerm    RestructurePolicy = "reduce_term"
	ReducePayment RestructurePolicy = "reduce_payment"
)

// RestructuringRequest - разовое досрочное погашение
type RestructuringRequest struct {
	ExtraAmount  float64           `json:"extra_amount"`
	Policy       RestructurePolicy `json:"policy"`
	TargetPeriod int               `json:"target_period"`
}

// RestructureResult - перестроенный график; исходный не меняется
type RestructureResult struct {
	Schedule      []AmortizationEntry `json:"schedule"`
	Summary       LoanSummary         `json:"summary"`
	Applied       bool                `json:"applied"`
	Converged     bool                `json:"converged"`
	AppliedExtra  float64             `json:"applied_extra"`
	PeriodsSaved  int                 `json:"periods_saved"`
	InterestSaved float64             `json:"interest_saved"`
}

// LoanComparison сравнивает системы погашения при одинаковых параметрах
type LoanComparison struct {
	Results       []LoanResult       `json:"results"`
	CheaperSystem AmortizationSystem `json:"cheaper_system"`
	Savings       float64            `json:"savings"`
}
