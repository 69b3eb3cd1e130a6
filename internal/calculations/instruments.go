package calculations

// InstrumentType идентифицирует инструмент
type InstrumentType string

const (
	InstrumentCDB                  InstrumentType = "cdb"
	InstrumentLCI                  InstrumentType = "lci"
	InstrumentLCA                  InstrumentType = "lca"
	InstrumentCRI                  InstrumentType = "cri"
	InstrumentCRA                  InstrumentType = "cra"
	InstrumentDebenture            InstrumentType = "debenture"
	InstrumentDebentureIncentivada InstrumentType = "debenture_incentivada"
	InstrumentTesouroSelic         InstrumentType = "tesouro_selic"
	InstrumentTesouroPrefixado     InstrumentType = "tesouro_prefixado"
	InstrumentTesouroIPCA          InstrumentType = "tesouro_ipca"
	InstrumentFundOfFunds          InstrumentType = "fundo_de_fundos"
	InstrumentRealEstateFund       InstrumentType = "fii"
	InstrumentStock                InstrumentType = "acoes"
)

// Family группирует инструменты, которые имеет смысл сравнивать между собой
type Family string

const (
	FamilyFixedIncome    Family = "renda_fixa"
	FamilyVariableIncome Family = "renda_variavel"
)

// RateMode - способ задания ставки
type RateMode string

const (
	RatePre  RateMode = "pre"
	RatePost RateMode = "pos"
)

// IndexName - имя референсного индекса
type IndexName string

const (
	IndexSELIC IndexName = "SELIC"
	IndexCDI   IndexName = "CDI"
	IndexIPCA  IndexName = "IPCA"
)

type rateRule int

const (
	// ставка задается пользователем как фиксированная или как % от индекса
	ruleIndexable rateRule = iota
	// всегда текущая SELIC
	ruleSelic
	// реальная ставка + IPCA
	ruleInflation
	// рост цены пая и дивиденды вместо ставки
	ruleVariable
)

// InstrumentDescriptor описывает правила инструмента; симулятор и сравнение
// обращаются к таблице один раз вместо ветвления по строкам типа.
type InstrumentDescriptor struct {
	Type            InstrumentType `json:"type"`
	Label           string         `json:"label"`
	Family          Family         `json:"family"`
	RateModes       []RateMode     `json:"rate_modes,omitempty"`
	DefaultRateMode RateMode       `json:"default_rate_mode,omitempty"`
	ReferenceIndex  IndexName      `json:"reference_index,omitempty"`
	IncomeTaxExempt bool           `json:"income_tax_exempt"`
	IOFApplies      bool           `json:"iof_applies"`
	// Дивиденды освобождены от налога (паи FII для физлиц)
	DividendTaxExempt bool `json:"dividend_tax_exempt,omitempty"`
	// Кредитная поправка эмитента в п.п., используется в эвристике спреда
	IssuerAdjustmentPercent float64 `json:"issuer_adjustment_percent,omitempty"`

	rule rateRule
}

// clone копирует описание вместе с RateModes: срез в таблице общий у нескольких записей
func (d InstrumentDescriptor) clone() InstrumentDescriptor {
	d.RateModes = append([]RateMode(nil), d.RateModes...)
	return d
}

// AllowsMode проверяет, допускает ли инструмент режим ставки
func (d InstrumentDescriptor) AllowsMode(mode RateMode) bool {
	for _, m := range d.RateModes {
		if m == mode {
			return true
		}
	}
	return false
}

var prePost = []RateMode{RatePre, RatePost}

var instrumentTable = []InstrumentDescriptor{
	{Type: InstrumentCDB, Label: "CDB", Family: FamilyFixedIncome, RateModes: prePost, DefaultRateMode: RatePost,
		ReferenceIndex: IndexCDI, IOFApplies: true, IssuerAdjustmentPercent: 0.3, rule: ruleIndexable},
	{Type: InstrumentLCI, Label: "LCI", Family: FamilyFixedIncome, RateModes: prePost, DefaultRateMode: RatePost,
		ReferenceIndex: IndexCDI, IncomeTaxExempt: true, IssuerAdjustmentPercent: 0.2, rule: ruleIndexable},
	{Type: InstrumentLCA, Label: "LCA", Family: FamilyFixedIncome, RateModes: prePost, DefaultRateMode: RatePost,
		ReferenceIndex: IndexCDI, IncomeTaxExempt: true, IssuerAdjustmentPercent: 0.2, rule: ruleIndexable},
	{Type: InstrumentCRI, Label: "CRI", Family: FamilyFixedIncome, RateModes: prePost, DefaultRateMode: RatePost,
		ReferenceIndex: IndexCDI, IncomeTaxExempt: true, IssuerAdjustmentPercent: 0.8, rule: ruleIndexable},
	{Type: InstrumentCRA, Label: "CRA", Family: FamilyFixedIncome, RateModes: prePost, DefaultRateMode: RatePost,
		ReferenceIndex: IndexCDI, IncomeTaxExempt: true, IssuerAdjustmentPercent: 0.8, rule: ruleIndexable},
	{Type: InstrumentDebenture, Label: "Debênture", Family: FamilyFixedIncome, RateModes: prePost, DefaultRateMode: RatePost,
		ReferenceIndex: IndexCDI, IssuerAdjustmentPercent: 1.2, rule: ruleIndexable},
	{Type: InstrumentDebentureIncentivada, Label: "Debênture incentivada", Family: FamilyFixedIncome, RateModes: prePost,
		DefaultRateMode: RatePost, ReferenceIndex: IndexCDI, IncomeTaxExempt: true, IssuerAdjustmentPercent: 1.0, rule: ruleIndexable},
	{Type: InstrumentTesouroSelic, Label: "Tesouro Selic", Family: FamilyFixedIncome, RateModes: []RateMode{RatePost},
		DefaultRateMode: RatePost, ReferenceIndex: IndexSELIC, IOFApplies: true, rule: ruleSelic},
	{Type: InstrumentTesouroPrefixado, Label: "Tesouro Prefixado", Family: FamilyFixedIncome, RateModes: []RateMode{RatePre},
		DefaultRateMode: RatePre, IOFApplies: true, rule: ruleIndexable},
	{Type: InstrumentTesouroIPCA, Label: "Tesouro IPCA+", Family: FamilyFixedIncome, RateModes: []RateMode{RatePost},
		DefaultRateMode: RatePost, ReferenceIndex: IndexIPCA, IOFApplies: true, rule: ruleInflation},
	{Type: InstrumentFundOfFunds, Label: "Fundo de fundos", Family: FamilyVariableIncome, rule: ruleVariable},
	{Type: InstrumentRealEstateFund, Label: "Fundo imobiliário", Family: FamilyVariableIncome, DividendTaxExempt: true,
		rule: ruleVariable},
	{Type: InstrumentStock, Label: "Ações", Family: FamilyVariableIncome, rule: ruleVariable},
}

// fallbackBasket используется, когда тип базового инструмента не распознан
var fallbackBasket = []struct {
	Type InstrumentType
	Mode RateMode
}{
	{InstrumentCDB, RatePre},
	{InstrumentLCI, RatePre},
	{InstrumentTesouroPrefixado, RatePre},
	{InstrumentTesouroSelic, RatePost},
}

// LookupInstrument возвращает описание инструмента по типу
func LookupInstrument(t InstrumentType) (InstrumentDescriptor, bool) {
	for _, d := range instrumentTable {
		if d.Type == t {
			return d.clone(), true
		}
	}
	return InstrumentDescriptor{}, false
}

// Instruments возвращает копию таблицы инструментов в порядке отображения
func Instruments() []InstrumentDescriptor {
	out := make([]InstrumentDescriptor, len(instrumentTable))
	for i, d := range instrumentTable {
		out[i] = d.clone()
	}
	return out
}

// FamilyMembers возвращает инструменты семейства в порядке таблицы
func FamilyMembers(f Family) []InstrumentDescriptor {
	var out []InstrumentDescriptor
	for _, d := range instrumentTable {
		if d.Family == f {
			out = append(out, d.clone())
		}
	}
	return out
}
