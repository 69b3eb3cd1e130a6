package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// AnnualToMonthly переводит годовую ставку в процентах в эффективную месячную (доля)
func AnnualToMonthly(annualPercent float64) float64 {
	return math.Pow(1+annualPercent/100, 1.0/12.0) - 1
}

// MonthlyToAnnual переводит месячную ставку (доля) в эффективную годовую в процентах
func MonthlyToAnnual(monthly float64) float64 {
	return (math.Pow(1+monthly, 12) - 1) * 100
}

// PostToPre выражает ставку "X% от индекса" как эквивалентную фиксированную годовую ставку.
// Месячная ставка индекса масштабируется на postPercent/100 и капитализируется за 12 месяцев,
// так же как это делает симулятор для постфиксированных инструментов.
func PostToPre(postPercent, indexAnnualPercent float64) (float64, error) {
	if !utils.IsFinite(indexAnnualPercent) {
		return 0, ErrIndexUnavailable
	}
	pre := MonthlyToAnnual(AnnualToMonthly(indexAnnualPercent) * postPercent / 100)
	if !utils.IsFinite(pre) {
		return 0, fmt.Errorf("post_to_pre(%v, %v): %w", postPercent, indexAnnualPercent, ErrNonFinite)
	}
	return pre, nil
}

// PreToPost обратна PostToPre: какой процент от индекса дает ту же фиксированную годовую ставку
func PreToPost(preAnnualPercent, indexAnnualPercent float64) (float64, error) {
	if !utils.IsFinite(indexAnnualPercent) {
		return 0, ErrIndexUnavailable
	}
	indexMonthly := AnnualToMonthly(indexAnnualPercent)
	if indexMonthly == 0 {
		return 0, fmt.Errorf("pre_to_post: нулевой индекс: %w", ErrNonFinite)
	}
	post := AnnualToMonthly(preAnnualPercent) / indexMonthly * 100
	if !utils.IsFinite(post) {
		return 0, fmt.Errorf("pre_to_post(%v, %v): %w", preAnnualPercent, indexAnnualPercent, ErrNonFinite)
	}
	return post, nil
}

// SpreadTiers задает надбавку фиксированной ставки над постфиксированной по срокам
type SpreadTiers struct {
	UpToOneYear    float64 `json:"up_to_1y" toml:"up_to_1y"`
	UpToThreeYears float64 `json:"up_to_3y" toml:"up_to_3y"`
	AboveThree     float64 `json:"above_3y" toml:"above_3y"`
}

// DefaultSpreadTiers используются, когда конфигурация не задает своих значений
var DefaultSpreadTiers = SpreadTiers{
	UpToOneYear:    0.5,
	UpToThreeYears: 1.0,
	AboveThree:     1.5,
}

// ForTerm возвращает спред в п.п. для срока в годах с учетом премии за ликвидность
// и кредитной поправки эмитента. Результат не бывает отрицательным.
func (t SpreadTiers) ForTerm(years, issuerAdjustmentPercent float64) float64 {
	var spread float64
	switch {
	case years <= 1:
		spread = t.UpToOneYear
	case years <= 3:
		spread = t.UpToThreeYears
	default:
		spread = t.AboveThree
	}
	spread += liquidityPremium(years) + utils.FiniteOr(issuerAdjustmentPercent, 0)
	return math.Max(0, spread)
}

func liquidityPremium(years float64) float64 {
	switch {
	case years <= 1:
		return 0.1
	case years <= 3:
		return 0.25
	case years <= 5:
		return 0.4
	default:
		return 0.6
	}
}
