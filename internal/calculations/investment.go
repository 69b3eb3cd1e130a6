package calculations

import (
	"math"

	"github.com/cloud-ru/invest-sim-go/pkg/utils"
)

// SimulateInvestment прогоняет симулятор и применяет налоги
func SimulateInvestment(cfg ConfigInterface, params SimulationParams) (*SimulationResult, error) {
	gross, err := SimulateGross(cfg, params)
	if err != nil {
		return nil, err
	}
	return BuildTaxedResult(params, gross), nil
}

// BuildTaxedResult применяет к валовому результату IOF и подоходный налог (или налог на
// прирост капитала для переменного дохода) и рассчитывает годовую доходность
func BuildTaxedResult(params SimulationParams, gross *GrossSimulation) *SimulationResult {
	round := params.RoundResults
	d := gross.Descriptor

	result := &SimulationResult{
		Instrument:  d.Type,
		Periods:     gross.Periods,
		HoldingDays: gross.HoldingDays,
		Metadata:    gross.Metadata,
	}

	if gross.Periods == 0 {
		result.Evolution = roundSeries(round, gross.Evolution)
		result.TotalInvested = utils.RoundIf(round, gross.TotalInvested)
		result.FinalValue = utils.RoundIf(round, gross.FinalBalance)
		return result
	}

	var incomeTax, incomeTaxRate, iof, iofRate float64
	if d.Family == FamilyVariableIncome {
		capitalGainsRate := utils.Clamp(utils.FiniteOr(params.CapitalGainsTaxPercent, 0), 0, 100)
		incomeTax = CapitalGainsTax(gross.GrossYield, gross.TotalDividends, capitalGainsRate)
		if incomeTax > 0 {
			incomeTaxRate = capitalGainsRate
		}
	} else {
		// IOF удерживается первым, подоходный налог берется с остатка дохода
		iof, iofRate = IOFTax(d, gross.HoldingDays, gross.GrossYield)
		incomeTax, incomeTaxRate = IncomeTax(d, gross.HoldingDays, gross.GrossYield-iof)
	}

	netYield := gross.GrossYield - incomeTax - iof
	finalValue := gross.TotalInvested + netYield

	years := math.Max(1.0/365.0, gross.Months/12.0)
	var annualReturn float64
	if gross.TotalInvested > 0 && finalValue > 0 {
		annualReturn = (math.Pow(finalValue/gross.TotalInvested, 1.0/years) - 1.0) * 100
	}
	if !utils.IsFinite(annualReturn) {
		annualReturn = 0
	}

	result.GrossYield = utils.RoundIf(round, gross.GrossYield)
	result.IncomeTax = utils.RoundIf(round, incomeTax)
	result.IncomeTaxRatePercent = incomeTaxRate
	result.IOF = utils.RoundIf(round, iof)
	result.IOFRatePercent = iofRate
	result.DividendTax = utils.RoundIf(round, gross.DividendTax)
	result.NetYield = utils.RoundIf(round, netYield)
	result.FinalValue = utils.RoundIf(round, finalValue)
	result.AnnualReturnPercent = utils.RoundIf(round, annualReturn)
	result.Evolution = roundSeries(round, gross.Evolution)
	result.TotalInvested = utils.RoundIf(round, gross.TotalInvested)
	result.TotalDividends = utils.RoundIf(round, gross.TotalDividends)
	return result
}

func roundSeries(round bool, series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = utils.RoundIf(round, v)
	}
	return out
}
