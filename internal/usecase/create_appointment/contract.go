package create_appointment

import (
	"context"
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/internal/integrations/clientservice"
	"github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	// GetByEmployeeAndDate получает записи сотрудника на дату
	// Внутри транзакции строки блокируются (FOR UPDATE)
	GetByEmployeeAndDate(ctx context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория правил расписания
type ScheduleRepository interface {
	GetWeeklyRule(ctx context.Context, employeeID int64, weekday time.Weekday, date time.Time) (*domain.WeeklyAvailabilityRule, error)
	GetBlockedRule(ctx context.Context, employeeID int64, weekday time.Weekday, kind domain.BlockedKind, date time.Time) (*domain.BlockedTimeRule, error)
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	GetEmployee(ctx context.Context, employeeID int64) (*staffservice.Employee, error)
	GetServices(ctx context.Context, serviceIDs []int64) ([]staffservice.Service, error)
}

// ClientServiceClient интерфейс клиента для ClientService
type ClientServiceClient interface {
	GetClient(ctx context.Context, clientID int64) (*clientservice.ClientProfile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс для публикации доменных событий
type EventPublisher interface {
	PublishAppointmentCreated(event domain.AppointmentCreated)
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
