package create_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	appointmentRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/schedule"
	"github.com/sharpcut/SC-AppointmentService/internal/integrations/clientservice"
	"github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
	"github.com/sharpcut/SC-AppointmentService/pkg/ptr"
	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// fakeTxManager сериализует "транзакции" мьютексом: внутри fn никакая
// другая транзакция не выполняется, как и при сериализуемой изоляции
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	nextID       int64
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Эмулируем уникальный индекс (employee_id, appointment_date, start_time)
	for _, existing := range f.appointments {
		if existing.EmployeeID == appointment.EmployeeID &&
			existing.Date.Equal(appointment.Date) &&
			existing.StartTime == appointment.StartTime &&
			existing.IsActive() {
			return nil, appointmentRepo.ErrDuplicateSlot
		}
	}

	f.nextID++
	appointment.ID = f.nextID
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	f.appointments = append(f.appointments, appointment)
	return appointment, nil
}

func (f *fakeAppointmentRepo) GetByEmployeeAndDate(_ context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Appointment, 0)
	for _, appointment := range f.appointments {
		if appointment.EmployeeID == filter.EmployeeID && appointment.Date.Equal(filter.Date) {
			result = append(result, appointment)
		}
	}
	return result, nil
}

type fakeScheduleRepo struct {
	weekly  map[time.Weekday]*domain.WeeklyAvailabilityRule
	blocked map[time.Weekday]map[domain.BlockedKind]*domain.BlockedTimeRule
}

func (f *fakeScheduleRepo) GetWeeklyRule(_ context.Context, _ int64, weekday time.Weekday, _ time.Time) (*domain.WeeklyAvailabilityRule, error) {
	if rule, ok := f.weekly[weekday]; ok {
		return rule, nil
	}
	return nil, scheduleRepo.ErrRuleNotFound
}

func (f *fakeScheduleRepo) GetBlockedRule(_ context.Context, _ int64, weekday time.Weekday, kind domain.BlockedKind, _ time.Time) (*domain.BlockedTimeRule, error) {
	if byKind, ok := f.blocked[weekday]; ok {
		if rule, ok := byKind[kind]; ok {
			return rule, nil
		}
	}
	return nil, scheduleRepo.ErrRuleNotFound
}

type fakeStaffClient struct {
	employees map[int64]*staffservice.Employee
	services  map[int64]staffservice.Service
}

func (f *fakeStaffClient) GetEmployee(_ context.Context, employeeID int64) (*staffservice.Employee, error) {
	if employee, ok := f.employees[employeeID]; ok {
		return employee, nil
	}
	return nil, staffservice.ErrEmployeeNotFound
}

func (f *fakeStaffClient) GetServices(_ context.Context, serviceIDs []int64) ([]staffservice.Service, error) {
	result := make([]staffservice.Service, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		service, ok := f.services[id]
		if !ok {
			return nil, staffservice.ErrServiceNotFound
		}
		result = append(result, service)
	}
	return result, nil
}

type fakeClientClient struct {
	clients map[int64]*clientservice.ClientProfile
}

func (f *fakeClientClient) GetClient(_ context.Context, clientID int64) (*clientservice.ClientProfile, error) {
	if client, ok := f.clients[clientID]; ok {
		return client, nil
	}
	return nil, clientservice.ErrClientNotFound
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.AppointmentCreated
}

func (f *fakePublisher) PublishAppointmentCreated(event domain.AppointmentCreated) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Понедельник 2026-09-14
var testMonday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	schedule     *fakeScheduleRepo
	publisher    *fakePublisher
}

func newTestEnv() *testEnv {
	schedule := &fakeScheduleRepo{
		weekly: map[time.Weekday]*domain.WeeklyAvailabilityRule{
			time.Monday: {
				ID:         1,
				EmployeeID: 1,
				Weekday:    time.Monday,
				Intervals:  []domain.TimeInterval{{Start: "08:00", End: "17:00"}},
			},
		},
		blocked: map[time.Weekday]map[domain.BlockedKind]*domain.BlockedTimeRule{
			time.Monday: {
				domain.BlockedKindLunch: {
					ID:       2,
					Weekday:  time.Monday,
					Kind:     domain.BlockedKindLunch,
					Interval: domain.TimeInterval{Start: "12:00", End: "13:00"},
				},
			},
		},
	}

	staff := &fakeStaffClient{
		employees: map[int64]*staffservice.Employee{
			1: {ID: 1, DisplayName: "Мария Сидорова", IsActive: true},
			2: {ID: 2, DisplayName: "Петр Иванов", IsActive: false},
		},
		services: map[int64]staffservice.Service{
			10: {ID: 10, Name: "Мужская стрижка", Price: 1500, DurationMinutes: 30},
			11: {ID: 11, Name: "Укладка", Price: 800, DurationMinutes: 15},
		},
	}

	clients := &fakeClientClient{
		clients: map[int64]*clientservice.ClientProfile{
			20: {ID: 20, FirstName: "Иван", LastName: "Петров"},
		},
	}

	appointments := &fakeAppointmentRepo{}
	publisher := &fakePublisher{}

	uc := NewUseCase(appointments, schedule, staff, clients, &fakeTxManager{}, publisher, domain.SchedulingConfig{
		SlotIntervalMinutes:      15,
		AppointmentBufferMinutes: 10,
		FallbackLunch:            &domain.TimeInterval{Start: "12:00", End: "13:00"},
	}, nopLogger{})
	uc.SetTimeProvider(&fixedTimeProvider{now: testMonday.Add(-24 * time.Hour)})

	return &testEnv{
		uc:           uc,
		appointments: appointments,
		schedule:     schedule,
		publisher:    publisher,
	}
}

func validRequest() *Request {
	return &Request{
		ClientID:   20,
		EmployeeID: 1,
		Date:       testMonday,
		StartTime:  "10:00",
		ServiceIDs: []int64{10},
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	env := newTestEnv()

	resp, err := env.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("10:30"), resp.EndTime)
	assert.Equal(t, 1500.0, resp.Price)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "Мужская стрижка", resp.ServiceSummary)
	assert.Regexp(t, `^APT-[0-9A-F]{8}$`, resp.Reference)

	// Событие опубликовано с резолвленными именами
	require.Len(t, env.publisher.events, 1)
	event := env.publisher.events[0]
	assert.Equal(t, "Иван Петров", event.ClientName)
	assert.Equal(t, "Мария Сидорова", event.EmployeeName)
	require.Len(t, event.Services, 1)
	assert.Equal(t, int64(10), event.Services[0].ID)
}

func TestUseCase_Execute_MultipleServicesSumDurationAndPrice(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	req.ServiceIDs = []int64{10, 11}

	resp, err := env.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:45"), resp.EndTime)
	assert.Equal(t, 2300.0, resp.Price)
	assert.Equal(t, "Мужская стрижка, Укладка", resp.ServiceSummary)
}

func TestUseCase_Execute_PriceOverride(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	req.Price = ptr.Ptr(999.0)

	resp, err := env.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 999.0, resp.Price)
}

func TestUseCase_Execute_OutsideWorkingHours(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name      string
		startTime types.TimeString
	}{
		{name: "before opening", startTime: "07:30"},
		{name: "crosses lunch", startTime: "11:45"},
		{name: "ends after closing", startTime: "16:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartTime = tt.startTime

			_, err := env.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrOutsideWorkingHours)
		})
	}
}

func TestUseCase_Execute_DayOff(t *testing.T) {
	env := newTestEnv()
	env.schedule.blocked[time.Monday][domain.BlockedKindDayOff] = &domain.BlockedTimeRule{
		Weekday:  time.Monday,
		Kind:     domain.BlockedKindDayOff,
		Interval: domain.TimeInterval{Start: domain.DayStart, End: domain.DayEnd},
	}

	_, err := env.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrEmployeeUnavailable)
}

func TestUseCase_Execute_InactiveEmployee(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	req.EmployeeID = 2

	_, err := env.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrEmployeeUnavailable)
}

func TestUseCase_Execute_ConflictWithExistingAppointment(t *testing.T) {
	env := newTestEnv()

	first, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Окно второй записи пересекает буфер первой: 10:30 + 10 мин буфера
	req := validRequest()
	req.StartTime = "10:30"

	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	// За пределами буферизованного окна записаться можно
	req = validRequest()
	req.StartTime = "10:45"

	second, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUseCase_Execute_ConcurrentRequestsOneWinner(t *testing.T) {
	env := newTestEnv()

	// Пересекающиеся окна: 10:00-10:30 и 10:15-10:45
	requests := []*Request{validRequest(), validRequest()}
	requests[1].StartTime = "10:15"

	var wg sync.WaitGroup
	results := make([]error, len(requests))

	for i, req := range requests {
		wg.Add(1)
		go func(i int, req *Request) {
			defer wg.Done()
			_, results[i] = env.uc.Execute(context.Background(), req)
		}(i, req)
	}
	wg.Wait()

	succeeded := 0
	conflicted := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
			conflicted++
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one request must win")
	assert.Equal(t, 1, conflicted, "the loser must get a conflict error")
	assert.Len(t, env.appointments.appointments, 1)
}

func TestUseCase_Execute_ValidationErrors(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "unknown employee",
			mutate:  func(req *Request) { req.EmployeeID = 99 },
			wantErr: ErrEmployeeNotFound,
		},
		{
			name:    "unknown client",
			mutate:  func(req *Request) { req.ClientID = 99 },
			wantErr: ErrClientNotFound,
		},
		{
			name:    "unknown service",
			mutate:  func(req *Request) { req.ServiceIDs = []int64{99} },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "no services",
			mutate:  func(req *Request) { req.ServiceIDs = nil },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "date in the past",
			mutate:  func(req *Request) { req.Date = testMonday.AddDate(0, 0, -7) },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "missing start time",
			mutate:  func(req *Request) { req.StartTime = "" },
			wantErr: ErrInvalidInput,
		},
		{
			// Без ведущего нуля ломается лексикографическое сравнение времени,
			// такой запрос не должен дойти до проверки конфликтов
			name:    "start time without leading zero",
			mutate:  func(req *Request) { req.StartTime = "9:15" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative price override",
			mutate:  func(req *Request) { req.Price = ptr.Ptr(-1.0) },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
