package calculations

import "errors"

var (
	// ErrUnknownInstrument возвращается для типа инструмента, которого нет в таблице
	ErrUnknownInstrument = errors.New("неизвестный тип инструмента")
	// ErrRateModeNotAllowed возвращается, если инструмент не поддерживает режим ставки
	ErrRateModeNotAllowed = errors.New("режим ставки не поддерживается инструментом")
	// ErrIndexUnavailable возвращается, когда для расчета нужен индекс, а его значение не передано
	ErrIndexUnavailable = errors.New("значение референсного индекса недоступно")
	ErrBalanceOverflow  = errors.New("итоговый баланс превысил верхнюю границу (проверьте ставку/срок/взносы)")
	ErrNonFinite        = errors.New("результат расчета не является конечным числом")

	ErrInvalidSchedule = errors.New("некорректные параметры графика платежей")
	ErrUnknownSystem   = errors.New("неизвестная система амортизации")
	ErrUnknownPolicy   = errors.New("неизвестная политика досрочного погашения")

	ErrInvalidCashFlow = errors.New("денежный поток должен содержать выдачу и хотя бы один платеж противоположного знака")
	ErrZeroDerivative  = errors.New("нулевая производная в методе Ньютона")
	ErrNoConvergence   = errors.New("метод Ньютона не сошелся")
)
