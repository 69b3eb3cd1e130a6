package calculations

import (
	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// CompareLoans сравнивает Price и SAC (и консорциум, если задан административный сбор)
// при одинаковых сумме, ставке и сроке
func CompareLoans(cfg ConfigInterface, p LoanParams) (*LoanComparison, error) {
	systems := []AmortizationSystem{SystemPrice, SystemSAC}
	if p.AdminFeePercent > 0 {
		systems = append(systems, SystemConsorcio)
	}

	comparison := &LoanComparison{}
	for _, system := range systems {
		params := p
		params.System = system
		result, err := BuildSchedule(cfg, params)
		if err != nil {
			return nil, err
		}
		comparison.Results = append(comparison.Results, *result)
	}

	// Выгоднее система с меньшей общей суммой выплат
	cheapest, dearest := comparison.Results[0].Summary, comparison.Results[0].Summary
	for _, r := range comparison.Results[1:] {
		if r.Summary.TotalPaid < cheapest.TotalPaid {
			cheapest = r.Summary
		}
		if r.Summary.TotalPaid > dearest.TotalPaid {
			dearest = r.Summary
		}
	}
	comparison.CheaperSystem = cheapest.System
	comparison.Savings = utils.Round2(dearest.TotalPaid - cheapest.TotalPaid)

	return comparison, nil
}
