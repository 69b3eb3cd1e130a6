package calculations

import (
	"errors"
	"fmt"
	"math"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// ComparisonID - идентификатор варианта в корзине: тип и режим ставки
func ComparisonID(t InstrumentType, mode RateMode) string {
	if mode == "" {
		return string(t)
	}
	return string(t) + ":" + string(mode)
}

type comparisonBase struct {
	desc     InstrumentDescriptor
	params   SimulationParams
	mode     RateMode
	preRate  float64
	years    float64
	original *SimulationResult
}

// CompareInvestments строит корзину альтернатив того же семейства, что и запрошенный
// инструмент, и прогоняет каждую через симулятор и налоги. Параметры запроса не
// изменяются: каждая альтернатива считается на своей копии.
func CompareInvestments(cfg ConfigInterface, params SimulationParams) (*ComparisonResult, error) {
	base := comparisonBase{
		params: params.normalized(),
	}
	base.years = base.params.TermInMonths() / 12

	type candidate struct {
		desc InstrumentDescriptor
		mode RateMode
	}
	var candidates []candidate

	desc, known := LookupInstrument(base.params.Instrument)
	if known {
		original, err := SimulateInvestment(cfg, params.Clone())
		if err != nil {
			return nil, err
		}
		base.desc = desc
		base.original = original
		base.mode = original.Metadata.RateMode
		base.preRate, err = equivalentPreRate(desc, base.params, original.Metadata)
		if err != nil {
			return nil, err
		}
		for _, d := range FamilyMembers(desc.Family) {
			if d.rule == ruleVariable {
				candidates = append(candidates, candidate{desc: d})
				continue
			}
			for _, m := range d.RateModes {
				candidates = append(candidates, candidate{desc: d, mode: m})
			}
		}
	} else {
		base.mode = RatePre
		base.preRate = base.params.InterestRate
		for _, fb := range fallbackBasket {
			d, _ := LookupInstrument(fb.Type)
			candidates = append(candidates, candidate{desc: d, mode: fb.Mode})
		}
	}

	result := &ComparisonResult{Fallback: !known}
	seen := make(map[string]bool, len(candidates))
	tiers := spreadTiers(cfg)

	for _, c := range candidates {
		id := ComparisonID(c.desc.Type, c.mode)
		if seen[id] {
			continue
		}
		seen[id] = true

		if base.original != nil && c.desc.Type == base.desc.Type && c.mode == base.mode {
			result.Items = append(result.Items, ComparisonItem{
				ID:         id,
				Label:      comparisonLabel(c.desc, c.mode),
				Instrument: c.desc.Type,
				RateMode:   c.mode,
				Result:     base.original,
				IsOriginal: true,
			})
			continue
		}

		alt, err := alternativeParams(base, c.desc, c.mode, tiers)
		if err == nil {
			var res *SimulationResult
			res, err = SimulateInvestment(cfg, alt)
			if err == nil {
				result.Items = append(result.Items, ComparisonItem{
					ID:         id,
					Label:      comparisonLabel(c.desc, c.mode),
					Instrument: c.desc.Type,
					RateMode:   c.mode,
					Result:     res,
				})
				continue
			}
		}
		if errors.Is(err, ErrIndexUnavailable) {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		return nil, fmt.Errorf("альтернатива %s: %w", id, err)
	}

	return result, nil
}

// equivalentPreRate выражает ставку базового инструмента как фиксированную годовую
func equivalentPreRate(d InstrumentDescriptor, p SimulationParams, meta ResultMetadata) (float64, error) {
	if d.rule == ruleIndexable && meta.RateMode == RatePost {
		return PostToPre(p.InterestRate, meta.ReferenceIndexValue)
	}
	return meta.EffectiveAnnualRatePercent, nil
}

// alternativeParams пересчитывает ставку запроса в конвенцию альтернативы. Если конвенции
// совпадают, ставка переносится как есть; иначе применяется эвристика спреда по сроку.
func alternativeParams(base comparisonBase, d InstrumentDescriptor, mode RateMode, tiers SpreadTiers) (SimulationParams, error) {
	p := base.params.Clone()
	p.Instrument = d.Type
	p.RateMode = mode

	switch d.rule {
	case ruleVariable:
		return p, nil
	case ruleSelic:
		p.InterestRate = 100
		return p, nil
	case ruleInflation:
		ipca, ok := p.Indices.Value(IndexIPCA)
		if !ok {
			return p, ErrIndexUnavailable
		}
		p.InterestRate = math.Max(0, base.preRate-ipca)
		return p, nil
	}

	sameConvention := base.mode == mode
	spread := tiers.ForTerm(base.years, d.IssuerAdjustmentPercent)

	if mode == RatePre {
		p.InterestRate = base.preRate
		if !sameConvention {
			p.InterestRate += spread
		}
		return p, nil
	}

	if sameConvention && base.desc.rule == ruleIndexable && base.desc.ReferenceIndex == d.ReferenceIndex {
		p.InterestRate = base.params.InterestRate
		return p, nil
	}

	index, ok := p.Indices.Value(d.ReferenceIndex)
	if !ok {
		return p, ErrIndexUnavailable
	}
	target := base.preRate
	if !sameConvention {
		target = math.Max(0, target-spread)
	}
	post, err := PreToPost(target, index)
	if err != nil {
		return p, err
	}
	p.InterestRate = utils.FiniteOr(post, 0)
	return p, nil
}

func comparisonLabel(d InstrumentDescriptor, mode RateMode) string {
	switch mode {
	case RatePre:
		return d.Label + " pré"
	case RatePost:
		if d.ReferenceIndex != "" {
			return d.Label + " pós (" + string(d.ReferenceIndex) + ")"
		}
		return d.Label + " pós"
	}
	return d.Label
}
