package calculations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// consorcioFee - административный сбор одного периода: adminPercent от суммы, разнесенный на n периодов
func consorcioFee(principal, adminPercent float64, n int) decimal.Decimal {
	return utils.Cents(principal * adminPercent / 100 / float64(n))
}

// ConsorcioSchedule рассчитывает график консорциума: равные доли суммы плюс
// постоянный административный сбор вместо процентов (сбор отражается в поле Interest)
func ConsorcioSchedule(principal, adminFeePercent float64, months int) ([]AmortizationEntry, error) {
	if err := checkLoanShape(principal, months); err != nil {
		return nil, err
	}
	if !utils.IsFinite(adminFeePercent) || adminFeePercent < 0 {
		return nil, fmt.Errorf("%w: административный сбор не может быть отрицательным", ErrInvalidSchedule)
	}
	fee := consorcioFee(principal, adminFeePercent, months)
	return amortizeConstant(principal, months, func(float64) decimal.Decimal { return fee }), nil
}
