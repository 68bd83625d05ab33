package get_available_slots

import (
	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// resolveOpenIntervals вычисляет открытые интервалы дня:
// рабочее окно сотрудника минус обеденный перерыв
//
// Учитывается только первый интервал недельного правила — день со
// сплит-сменами схлопывается до первой смены. Поведение сохранено
// как документированное, см. WeeklyAvailabilityRule
func resolveOpenIntervals(rule *domain.WeeklyAvailabilityRule, lunch *domain.TimeInterval) []domain.TimeInterval {
	working, ok := rule.FirstInterval()
	if !ok {
		return []domain.TimeInterval{}
	}

	if lunch == nil {
		return []domain.TimeInterval{working}
	}

	// Вычитание перерыва может разрезать окно на утро и вечер
	return working.Subtract(*lunch)
}

// generateCandidateSlots генерирует слоты-кандидаты для всех открытых интервалов
//
// Внутри каждого интервала шагаем от его начала с фиксированным шагом
// stepMinutes и берем каждый слот [t, t+durationMinutes), целиком
// помещающийся в интервал. Слот не может пересекать границу интервалов
// (например, обеденный перерыв)
func generateCandidateSlots(openIntervals []domain.TimeInterval, stepMinutes, durationMinutes int) []domain.AvailableSlot {
	candidates := make([]domain.AvailableSlot, 0)

	for _, interval := range openIntervals {
		start := interval.Start

		for {
			end, err := start.AddMinutes(durationMinutes)
			if err != nil {
				// Конец слота перешел бы через полночь
				break
			}
			if interval.End.IsBefore(end) {
				break
			}

			candidates = append(candidates, domain.AvailableSlot{
				StartTime:       start,
				EndTime:         end,
				DurationMinutes: durationMinutes,
			})

			next, err := start.AddMinutes(stepMinutes)
			if err != nil {
				break
			}
			start = next
		}
	}

	return candidates
}

// filterBookedSlots убирает кандидатов, пересекающихся с занятыми окнами записей
//
// Занятое окно записи — [start_time, end_time + buffer). Кандидаты и записи
// отсортированы по времени начала, поэтому после найденного конфликта
// ведется "водяной знак": все кандидаты, начинающиеся раньше конца занятого
// окна, гарантированно конфликтуют и отбрасываются без повторного перебора записей
func filterBookedSlots(candidates []domain.AvailableSlot, appointments []*domain.Appointment, bufferMinutes int) []domain.AvailableSlot {
	available := make([]domain.AvailableSlot, 0, len(candidates))

	var watermark types.TimeString

	for _, candidate := range candidates {
		if !watermark.IsZero() && candidate.StartTime.IsBefore(watermark) {
			continue
		}

		slotWindow := domain.TimeInterval{Start: candidate.StartTime, End: candidate.EndTime}

		conflict := false
		for _, appointment := range appointments {
			if !appointment.IsActive() {
				continue
			}

			busy := appointment.BufferedWindow(bufferMinutes)
			if slotWindow.Overlaps(busy) {
				conflict = true
				watermark = busy.End
				break
			}
		}

		if !conflict {
			available = append(available, candidate)
		}
	}

	return available
}

// filterPastSlots убирает слоты, начинающиеся раньше minStart
// Используется для запросов на сегодня, чтобы не предлагать прошедшее время
func filterPastSlots(slots []domain.AvailableSlot, minStart types.TimeString) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.StartTime.IsBefore(minStart) {
			result = append(result, slot)
		}
	}
	return result
}
