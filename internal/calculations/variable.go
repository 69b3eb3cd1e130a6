package calculations

import "fmt"

// simulateVariableIncome ведет количество паев и цену пая раздельно; баланс = паи × цена
// плюс невложенные дивиденды
func simulateVariableIncome(sim *GrossSimulation, cap float64, p SimulationParams, monthlyGrowth float64, periods int) error {
	price := p.UnitPrice
	if price <= 0 {
		price = 1
	}
	units := p.InitialAmount / price
	cash := 0.0
	contrib := p.MonthlyContribution
	fee := p.adminFeeRate()
	freq := p.DividendFrequencyMonths
	evolution := make([]float64, 0, periods)
	contributions := 0

	var totalDividends, dividendTax float64

	for m := 1; m <= periods; m++ {
		contributes := contrib > 0 && isContributionPeriod(m, p.ContributionFrequencyMonths, p.ContributionAtBeginning)

		if p.ContributionAtBeginning && contributes {
			units += contrib / price
			contributions++
		}

		price *= 1 + monthlyGrowth

		if !p.ContributionAtBeginning && contributes {
			units += contrib / price
			contributions++
		}

		if freq > 0 && m%freq == 0 && p.DividendYieldPercent > 0 {
			dividend := units * price * (p.DividendYieldPercent / 100) * (float64(freq) / 12)
			tax := 0.0
			if !sim.Descriptor.DividendTaxExempt {
				tax = dividend * p.DividendTaxPercent / 100
			}
			net := dividend - tax
			dividendTax += tax
			totalDividends += net

			if p.ReinvestDividends {
				units += net * (1 - p.TransactionFeePercent/100) / price
			} else {
				cash += net
			}
		}

		units -= units * fee
		cash -= cash * fee

		balance := units*price + cash
		if balance > cap {
			return fmt.Errorf("период %d: %w", m, ErrBalanceOverflow)
		}
		evolution = append(evolution, balance)
	}

	sim.Evolution = evolution
	sim.TotalInvested = p.InitialAmount + contrib*float64(contributions)
	sim.TotalDividends = totalDividends
	sim.DividendTax = dividendTax
	sim.FinalBalance = evolution[len(evolution)-1]
	return nil
}
