package domain

// SchedulingConfig общесервисные настройки расчета слотов
// Задаются конфигурацией процесса, не настраиваются по сотрудникам
type SchedulingConfig struct {
	SlotIntervalMinutes      int
	AppointmentBufferMinutes int

	// FallbackLunch запасное окно обеденного перерыва
	// Применяется только если у сотрудника нет явного правила перерыва
	// на этот день недели; nil отключает запасное окно
	FallbackLunch *TimeInterval
}

// DefaultSchedulingConfig возвращает конфигурацию по умолчанию
func DefaultSchedulingConfig() SchedulingConfig {
	return SchedulingConfig{
		SlotIntervalMinutes:      DefaultSlotIntervalMinutes,
		AppointmentBufferMinutes: DefaultAppointmentBufferMinutes,
		FallbackLunch: &TimeInterval{
			Start: DefaultLunchBreakStart,
			End:   DefaultLunchBreakEnd,
		},
	}
}
