package get_available_slots

import (
	"context"
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
)

// ScheduleRepository интерфейс репозитория правил расписания
type ScheduleRepository interface {
	// GetWeeklyRule получает правило доступности на день недели, действующее на дату
	GetWeeklyRule(ctx context.Context, employeeID int64, weekday time.Weekday, date time.Time) (*domain.WeeklyAvailabilityRule, error)
	// GetBlockedRule получает блокирующее правило (перерыв или выходной) на день недели
	GetBlockedRule(ctx context.Context, employeeID int64, weekday time.Weekday, kind domain.BlockedKind, date time.Time) (*domain.BlockedTimeRule, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByEmployeeAndDate получает записи сотрудника на дату, отсортированные по времени начала
	GetByEmployeeAndDate(ctx context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error)
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	GetEmployee(ctx context.Context, employeeID int64) (*staffservice.Employee, error)
	GetServices(ctx context.Context, serviceIDs []int64) ([]staffservice.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
