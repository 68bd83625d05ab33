package create_appointment

import (
	"fmt"
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: too many services, max %d", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	if req.Price != nil && *req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long, max %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом
func validateDate(appointmentDate time.Time, now time.Time) error {
	if isDateInPast(appointmentDate, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateStartTime проверяет, что время начала еще не прошло
// Для записей на будущие даты проверка не нужна
func validateStartTime(appointmentDate time.Time, startTime types.TimeString, now time.Time) error {
	if !isSameDay(appointmentDate, now) {
		return nil
	}

	currentTime := types.NewTimeString(now)
	if startTime.IsBefore(currentTime) {
		return ErrTooLateToBook
	}

	return nil
}

// resolveOpenIntervals вычисляет открытые интервалы дня:
// рабочее окно сотрудника минус обеденный перерыв
// Учитывается только первый интервал недельного правила (сплит-смены
// схлопываются), то же поведение, что и при расчете доступных слотов
func resolveOpenIntervals(rule *domain.WeeklyAvailabilityRule, lunch *domain.TimeInterval) []domain.TimeInterval {
	working, ok := rule.FirstInterval()
	if !ok {
		return []domain.TimeInterval{}
	}

	if lunch == nil {
		return []domain.TimeInterval{working}
	}

	return working.Subtract(*lunch)
}

// validateWithinOpenIntervals проверяет, что запрошенное окно целиком
// помещается в один из открытых интервалов дня
func validateWithinOpenIntervals(window domain.TimeInterval, openIntervals []domain.TimeInterval) error {
	for _, interval := range openIntervals {
		if interval.Contains(window) {
			return nil
		}
	}
	return ErrOutsideWorkingHours
}

// findConflictingAppointment ищет активную запись, чье занятое окно
// (с буфером) пересекается с запрошенным
func findConflictingAppointment(window domain.TimeInterval, appointments []*domain.Appointment, bufferMinutes int) *domain.Appointment {
	for _, appointment := range appointments {
		if !appointment.IsActive() {
			continue
		}
		if window.Overlaps(appointment.BufferedWindow(bufferMinutes)) {
			return appointment
		}
	}
	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
