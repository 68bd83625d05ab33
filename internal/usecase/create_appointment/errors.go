package create_appointment

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("create_appointment: employee not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrServiceNotFound возвращается, когда хотя бы одна из услуг не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrEmployeeUnavailable возвращается, когда сотрудник не работает в выбранный день
	// (выходной, нет недельного правила или сотрудник деактивирован)
	ErrEmployeeUnavailable = errors.New("create_appointment: employee is unavailable on this date")

	// ErrOutsideWorkingHours возвращается, когда запрошенное окно не помещается
	// в открытые интервалы дня (рабочее время минус перерыв)
	ErrOutsideWorkingHours = errors.New("create_appointment: requested time is outside working hours")

	// ErrSlotNoLongerAvailable возвращается, когда слот занят конкурирующей записью
	// Клиент должен заново запросить доступные слоты
	ErrSlotNoLongerAvailable = errors.New("create_appointment: slot is no longer available")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrTooLateToBook возвращается при попытке записаться на уже прошедшее время
	ErrTooLateToBook = errors.New("create_appointment: appointment time has already passed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
