package reminders

import (
	"context"
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/integrations/notifyservice"
)

// ReminderSender интерфейс для отправки напоминаний
type ReminderSender interface {
	SendAppointmentReminder(ctx context.Context, req *notifyservice.ReminderRequest) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
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
