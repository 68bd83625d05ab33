package reminders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/internal/integrations/notifyservice"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []notifyservice.ReminderRequest
}

func (f *fakeSender) SendAppointmentReminder(_ context.Context, req *notifyservice.ReminderRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *req)
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Debug(format string, v ...interface{}) {}
func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		EmployeeID: 10,
		ClientID:   20,
		Date:       time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:  "14:00",
		EndTime:    "14:30",
		Reference:  "APT-TEST0001",
		Status:     domain.StatusConfirmed,
	}
}

func TestScheduler_SendsReminderWhenTimerFires(t *testing.T) {
	sender := &fakeSender{}
	offset := 3 * time.Hour

	scheduler := NewScheduler(sender, offset, nopLogger{})
	defer scheduler.Stop()

	appointment := testAppointment(1)

	// Текущее время чуть раньше момента отправки, таймер сработает почти сразу
	fireAt := appointment.StartAt().Add(-offset)
	scheduler.SetTimeProvider(&fixedTimeProvider{now: fireAt.Add(-30 * time.Millisecond)})

	scheduler.Schedule(appointment, &notifyservice.ReminderRequest{
		AppointmentID: appointment.ID,
		Reference:     appointment.Reference,
	})

	require.Eventually(t, func() bool {
		return sender.sentCount() == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, appointment.Reference, sender.sent[0].Reference)
}

func TestScheduler_SkipsReminderInPast(t *testing.T) {
	sender := &fakeSender{}
	offset := 3 * time.Hour

	scheduler := NewScheduler(sender, offset, nopLogger{})
	defer scheduler.Stop()

	appointment := testAppointment(2)

	// Момент отправки уже прошел
	scheduler.SetTimeProvider(&fixedTimeProvider{now: appointment.StartAt().Add(-offset).Add(time.Minute)})

	scheduler.Schedule(appointment, &notifyservice.ReminderRequest{AppointmentID: appointment.ID})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, sender.sentCount())
}

func TestScheduler_CancelStopsTimer(t *testing.T) {
	sender := &fakeSender{}
	offset := 3 * time.Hour

	scheduler := NewScheduler(sender, offset, nopLogger{})
	defer scheduler.Stop()

	appointment := testAppointment(3)

	fireAt := appointment.StartAt().Add(-offset)
	scheduler.SetTimeProvider(&fixedTimeProvider{now: fireAt.Add(-100 * time.Millisecond)})

	scheduler.Schedule(appointment, &notifyservice.ReminderRequest{AppointmentID: appointment.ID})
	scheduler.Cancel(appointment.ID)

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, sender.sentCount())
}

func TestScheduler_HandleAppointmentCreated(t *testing.T) {
	sender := &fakeSender{}
	offset := 3 * time.Hour

	scheduler := NewScheduler(sender, offset, nopLogger{})
	defer scheduler.Stop()

	appointment := testAppointment(4)
	fireAt := appointment.StartAt().Add(-offset)
	scheduler.SetTimeProvider(&fixedTimeProvider{now: fireAt.Add(-30 * time.Millisecond)})

	scheduler.HandleAppointmentCreated(domain.AppointmentCreated{
		Appointment:  appointment,
		ClientName:   "Иван Петров",
		EmployeeName: "Мария Сидорова",
		Services: []domain.ServiceInfo{
			{ID: 1, Name: "Мужская стрижка", Price: 1500, DurationMinutes: 30},
		},
	})

	require.Eventually(t, func() bool {
		return sender.sentCount() == 1
	}, time.Second, 10*time.Millisecond)

	req := sender.sent[0]
	assert.Equal(t, appointment.ID, req.AppointmentID)
	assert.Equal(t, "Мария Сидорова", req.EmployeeName)
	assert.Equal(t, "2026-09-14", req.Date)
	assert.Equal(t, "14:00", req.StartTime)
	assert.Equal(t, []string{"Мужская стрижка"}, req.ServiceNames)
}
