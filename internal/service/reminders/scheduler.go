package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/internal/integrations/notifyservice"
)

// Scheduler планировщик напоминаний о предстоящих записях
//
// Таймеры живут в памяти процесса: после рестарта напоминания по уже
// созданным записям не восстанавливаются. Для текущего объема записей
// это приемлемо, NotifyService дедуплицирует повторные запросы по reference
type Scheduler struct {
	mu     sync.Mutex
	timers map[int64]*time.Timer

	offset       time.Duration
	sender       ReminderSender
	timeProvider TimeProvider
	logger       Logger
}

// NewScheduler создает новый планировщик напоминаний
// offset — за сколько до начала записи отправлять напоминание
func NewScheduler(sender ReminderSender, offset time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		timers:       make(map[int64]*time.Timer),
		offset:       offset,
		sender:       sender,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider устанавливает провайдер времени (используется в тестах)
func (s *Scheduler) SetTimeProvider(tp TimeProvider) {
	s.timeProvider = tp
}

// HandleAppointmentCreated обработчик события создания записи
// Подписывается на шину событий при старте приложения
func (s *Scheduler) HandleAppointmentCreated(event domain.AppointmentCreated) {
	serviceNames := make([]string, 0, len(event.Services))
	for _, svc := range event.Services {
		serviceNames = append(serviceNames, svc.Name)
	}

	s.Schedule(event.Appointment, &notifyservice.ReminderRequest{
		AppointmentID: event.Appointment.ID,
		Reference:     event.Appointment.Reference,
		ClientID:      event.Appointment.ClientID,
		EmployeeName:  event.EmployeeName,
		Date:          event.Appointment.Date.Format(domain.DateFormat),
		StartTime:     event.Appointment.StartTime.String(),
		ServiceNames:  serviceNames,
	})
}

// Schedule ставит таймер напоминания для записи
// Если момент отправки уже прошел, напоминание не ставится
func (s *Scheduler) Schedule(appointment *domain.Appointment, req *notifyservice.ReminderRequest) {
	fireAt := appointment.StartAt().Add(-s.offset)
	delay := fireAt.Sub(s.timeProvider.Now())
	if delay <= 0 {
		s.logger.Debug("Reminders.Schedule: напоминание для записи %d пропущено, время отправки уже прошло", appointment.ID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Повторное событие по той же записи заменяет таймер
	if old, ok := s.timers[appointment.ID]; ok {
		old.Stop()
	}

	appointmentID := appointment.ID
	s.timers[appointmentID] = time.AfterFunc(delay, func() {
		s.fire(appointmentID, req)
	})

	s.logger.Debug("Reminders.Schedule: напоминание для записи %d запланировано на %s", appointment.ID, fireAt.Format(time.RFC3339))
}

// Cancel снимает таймер напоминания для отмененной записи
func (s *Scheduler) Cancel(appointmentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[appointmentID]; ok {
		timer.Stop()
		delete(s.timers, appointmentID)
		s.logger.Debug("Reminders.Cancel: напоминание для записи %d снято", appointmentID)
	}
}

// Stop останавливает все таймеры при завершении приложения
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(appointmentID int64, req *notifyservice.ReminderRequest) {
	s.mu.Lock()
	delete(s.timers, appointmentID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.sender.SendAppointmentReminder(ctx, req); err != nil {
		s.logger.Error("Reminders: не удалось отправить напоминание для записи %d: %v", appointmentID, err)
		return
	}

	s.logger.Info("Reminders: напоминание для записи %d отправлено", appointmentID)
}
