package calculations

import "math"

type taxBracket struct {
	maxDays int
	percent float64
}

// Регрессивная шкала подоходного налога по сроку владения
var incomeTaxBrackets = []taxBracket{
	{maxDays: 180, percent: 22.5},
	{maxDays: 360, percent: 20},
	{maxDays: 720, percent: 17.5},
}

const incomeTaxFloorPercent = 15.0

// IOF в % от дохода по дню владения: iofTable[0] - день 1, iofTable[28] - день 29
var iofTable = [29]float64{
	96, 93, 90, 86, 83, 80, 76, 73, 70, 66,
	63, 60, 56, 53, 50, 46, 43, 40, 36, 33,
	30, 26, 23, 20, 16, 13, 10, 6, 3,
}

// IncomeTaxRate возвращает ставку подоходного налога в % для срока владения в днях
func IncomeTaxRate(days int) float64 {
	for _, b := range incomeTaxBrackets {
		if days <= b.maxDays {
			return b.percent
		}
	}
	return incomeTaxFloorPercent
}

// IOFRate возвращает ставку IOF в % от дохода. Владение меньше суток считается первым днем,
// с 30-го дня налог не взимается.
func IOFRate(days int) float64 {
	if days >= 30 {
		return 0
	}
	if days < 1 {
		days = 1
	}
	return iofTable[days-1]
}

// IncomeTax рассчитывает подоходный налог с дохода; освобожденные инструменты и
// неположительный доход дают ноль
func IncomeTax(d InstrumentDescriptor, days int, taxableYield float64) (tax, ratePercent float64) {
	if d.IncomeTaxExempt || d.Family != FamilyFixedIncome || taxableYield <= 0 {
		return 0, 0
	}
	ratePercent = IncomeTaxRate(days)
	return taxableYield * ratePercent / 100, ratePercent
}

// IOFTax рассчитывает IOF при погашении до 30 дней
func IOFTax(d InstrumentDescriptor, days int, grossYield float64) (tax, ratePercent float64) {
	if !d.IOFApplies || grossYield <= 0 {
		return 0, 0
	}
	ratePercent = IOFRate(days)
	return grossYield * ratePercent / 100, ratePercent
}

// CapitalGainsTax облагает прирост капитала без учета дивидендов; убытки не облагаются
func CapitalGainsTax(grossYield, totalDividends, ratePercent float64) float64 {
	gain := grossYield - totalDividends
	if gain <= 0 || ratePercent <= 0 {
		return 0
	}
	return gain * math.Min(ratePercent, 100) / 100
}
