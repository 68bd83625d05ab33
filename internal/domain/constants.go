package domain

import "github.com/sharpcut/SC-AppointmentService/pkg/types"

// Значения конфигурации по умолчанию
const (
	DefaultSlotIntervalMinutes      = 15
	DefaultAppointmentBufferMinutes = 0
	DefaultLunchBreakStart          = "12:00"
	DefaultLunchBreakEnd            = "13:00"
)

// Ограничения для валидации
const (
	MinSlotIntervalMinutes      = 5
	MaxSlotIntervalMinutes      = 120
	MaxAppointmentBufferMinutes = 240
	MaxServicesPerAppointment   = 10
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Границы рабочего дня
// Правило выходного дня (day_off) хранится с интервалом [DayStart, DayEnd]
const (
	DayStart types.TimeString = "00:00"
	DayEnd   types.TimeString = "23:59"
)

// ReminderOffsetMinutes за сколько минут до начала записи отправляется напоминание
const ReminderOffsetMinutes = 180

// InactiveStatuses статусы записей, не занимающих слот
// Используется при подсчете конфликтов и фильтрации активных записей
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByClient,
	StatusCancelledByStaff,
	StatusNoShow,
}

// ActiveStatuses статусы активных записей
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
