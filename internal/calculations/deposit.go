package calculations

import "fmt"

// simulateFixedIncome - помесячная капитализация с взносами в начале или в конце периода
// и удержанием комиссии управления с баланса
func simulateFixedIncome(sim *GrossSimulation, cap float64, p SimulationParams, monthlyRate float64, periods int) error {
	balance := p.InitialAmount
	contrib := p.MonthlyContribution
	fee := p.adminFeeRate()
	evolution := make([]float64, 0, periods)
	contributions := 0

	for m := 1; m <= periods; m++ {
		contributes := contrib > 0 && isContributionPeriod(m, p.ContributionFrequencyMonths, p.ContributionAtBeginning)

		if p.ContributionAtBeginning && contributes {
			balance += contrib
			contributions++
		}

		balance *= 1 + monthlyRate

		if !p.ContributionAtBeginning && contributes {
			balance += contrib
			contributions++
		}

		balance -= balance * fee

		if balance > cap {
			return fmt.Errorf("период %d: %w", m, ErrBalanceOverflow)
		}
		evolution = append(evolution, balance)
	}

	sim.Evolution = evolution
	sim.TotalInvested = p.InitialAmount + contrib*float64(contributions)
	sim.FinalBalance = balance
	return nil
}
