package domain

import (
	"time"

	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusPending           AppointmentStatus = "pending"
	StatusConfirmed         AppointmentStatus = "confirmed"
	StatusCompleted         AppointmentStatus = "completed"
	StatusCancelledByClient AppointmentStatus = "cancelled_by_client"
	StatusCancelledByStaff  AppointmentStatus = "cancelled_by_staff"
	StatusNoShow            AppointmentStatus = "no_show"
)

// Active возвращает true, если статус занимает слот
func (s AppointmentStatus) Active() bool {
	return s != StatusCancelledByClient &&
		s != StatusCancelledByStaff &&
		s != StatusNoShow
}

// Appointment запись клиента к сотруднику
// После создания изменяются только поля отмены
type Appointment struct {
	ID         int64
	EmployeeID int64
	ClientID   int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	ServiceIDs []int64
	Price      float64
	Status     AppointmentStatus
	Reference  string // человекочитаемый номер записи, например "APT-3F2A9C41"

	// Денормализация для истории
	ServiceSummary string
	Notes          *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если запись занимает слот
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelledByClient &&
		a.Status != StatusCancelledByStaff &&
		a.Status != StatusNoShow
}

// IsCancelled возвращает true для отмененной записи
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByClient || a.Status == StatusCancelledByStaff
}

// CanBeCancelled возвращает true, если запись можно отменить
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Window возвращает занимаемый записью интервал [StartTime, EndTime)
func (a *Appointment) Window() TimeInterval {
	return TimeInterval{Start: a.StartTime, End: a.EndTime}
}

// BufferedWindow возвращает интервал записи, расширенный буфером после окончания
// Буфер не переходит через полночь — при переполнении обрезается концом дня
func (a *Appointment) BufferedWindow(bufferMinutes int) TimeInterval {
	end, err := a.EndTime.AddMinutes(bufferMinutes)
	if err != nil {
		end = DayEnd
	}
	return TimeInterval{Start: a.StartTime, End: end}
}

// StartAt возвращает момент начала записи (дата + время)
func (a *Appointment) StartAt() time.Time {
	return time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, a.Date.Location()).
		Add(time.Duration(a.StartTime.Minutes()) * time.Minute)
}

// EmployeeDayFilter фильтр записей сотрудника на дату
type EmployeeDayFilter struct {
	EmployeeID      int64
	Date            time.Time
	IncludeInactive bool // включать ли отмененные и no-show записи
}

// ClientAppointmentsFilter фильтр истории записей клиента
type ClientAppointmentsFilter struct {
	ClientID int64
	Status   *AppointmentStatus // опционально
}
