package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

type rateResolution struct {
	mode       RateMode
	index      IndexName
	indexValue float64
	monthly    float64
}

func (r rateResolution) metadata() ResultMetadata {
	return ResultMetadata{
		RateMode:                   r.mode,
		ReferenceIndex:             r.index,
		ReferenceIndexValue:        r.indexValue,
		MonthlyRate:                r.monthly,
		EffectiveAnnualRatePercent: MonthlyToAnnual(r.monthly),
	}
}

// resolveRate определяет месячную ставку инструмента по правилу из таблицы.
// Отсутствующий индекс всегда приводит к ErrIndexUnavailable.
func resolveRate(d InstrumentDescriptor, p SimulationParams) (rateResolution, error) {
	mode := p.RateMode
	if mode == "" {
		mode = d.DefaultRateMode
	}

	switch d.rule {
	case ruleVariable:
		return rateResolution{monthly: AnnualToMonthly(p.AppreciationPercent)}, nil

	case ruleSelic:
		selic, ok := p.Indices.Value(IndexSELIC)
		if !ok {
			return rateResolution{}, fmt.Errorf("%s: %w (%s)", d.Type, ErrIndexUnavailable, IndexSELIC)
		}
		return rateResolution{mode: RatePost, index: IndexSELIC, indexValue: selic,
			monthly: AnnualToMonthly(selic)}, nil

	case ruleInflation:
		ipca, ok := p.Indices.Value(IndexIPCA)
		if !ok {
			return rateResolution{}, fmt.Errorf("%s: %w (%s)", d.Type, ErrIndexUnavailable, IndexIPCA)
		}
		return rateResolution{mode: RatePost, index: IndexIPCA, indexValue: ipca,
			monthly: AnnualToMonthly(p.InterestRate + ipca)}, nil
	}

	if !d.AllowsMode(mode) {
		return rateResolution{}, fmt.Errorf("%s/%s: %w", d.Type, mode, ErrRateModeNotAllowed)
	}
	if mode == RatePre {
		return rateResolution{mode: RatePre, monthly: AnnualToMonthly(p.InterestRate)}, nil
	}

	value, ok := p.Indices.Value(d.ReferenceIndex)
	if !ok {
		return rateResolution{}, fmt.Errorf("%s: %w (%s)", d.Type, ErrIndexUnavailable, d.ReferenceIndex)
	}
	return rateResolution{mode: RatePost, index: d.ReferenceIndex, indexValue: value,
		monthly: AnnualToMonthly(value) * (p.InterestRate / 100)}, nil
}

// SimulateGross прогоняет помесячную эволюцию баланса одного инструмента без налогов
func SimulateGross(cfg ConfigInterface, params SimulationParams) (*GrossSimulation, error) {
	p := params.normalized()

	d, ok := LookupInstrument(p.Instrument)
	if !ok {
		return nil, fmt.Errorf("%q: %w", p.Instrument, ErrUnknownInstrument)
	}

	rate, err := resolveRate(d, p)
	if err != nil {
		return nil, err
	}
	if !utils.IsFinite(rate.monthly) {
		return nil, fmt.Errorf("%s: месячная ставка: %w", d.Type, ErrNonFinite)
	}

	months := p.TermInMonths()
	periods := 0
	if months > 0 {
		periods = int(math.Ceil(months))
	}

	sim := &GrossSimulation{
		Descriptor:  d,
		Periods:     periods,
		Months:      months,
		HoldingDays: p.HoldingDays(),
		Metadata:    rate.metadata(),
	}

	// Нулевой срок: одна точка, равная начальному взносу, остальные показатели нулевые
	if periods == 0 {
		sim.Evolution = []float64{p.InitialAmount}
		sim.TotalInvested = p.InitialAmount
		sim.FinalBalance = p.InitialAmount
		return sim, nil
	}

	if d.Family == FamilyVariableIncome {
		err = simulateVariableIncome(sim, balanceCap(cfg), p, rate.monthly, periods)
	} else {
		err = simulateFixedIncome(sim, balanceCap(cfg), p, rate.monthly, periods)
	}
	if err != nil {
		return nil, err
	}

	sim.GrossYield = sim.FinalBalance - sim.TotalInvested
	return sim, nil
}

// isContributionPeriod определяет, есть ли взнос в периоде m при частоте раз в freq месяцев
func isContributionPeriod(m, freq int, atBeginning bool) bool {
	if freq <= 1 {
		return true
	}
	if atBeginning {
		return (m-1)%freq == 0
	}
	return m%freq == 0
}

func balanceCap(cfg ConfigInterface) float64 {
	if cfg == nil {
		return math.Inf(1)
	}
	return cfg.BalanceCap()
}

func spreadTiers(cfg ConfigInterface) SpreadTiers {
	if cfg == nil {
		return DefaultSpreadTiers
	}
	return cfg.SpreadTiers()
}
