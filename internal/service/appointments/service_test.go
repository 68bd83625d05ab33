package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	appointmentRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/appointment"
	staffClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
	"github.com/sharpcut/SC-AppointmentService/internal/service/appointments/models"
)

const (
	clientID      = int64(20)
	otherClientID = int64(21)
	staffID       = int64(100)
	inactiveStaff = int64(101)
	strangerID    = int64(999)
)

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment

	cancelledID     int64
	cancelledStatus domain.AppointmentStatus
	cancelledReason string

	updatedID     int64
	updatedStatus domain.AppointmentStatus
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) GetByReference(_ context.Context, reference string) (*domain.Appointment, error) {
	for _, appt := range f.appointments {
		if appt.Reference == reference {
			return appt, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) GetByClient(_ context.Context, filter domain.ClientAppointmentsFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, appt := range f.appointments {
		if appt.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != nil && appt.Status != *filter.Status {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) GetByEmployeeAndDate(_ context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, appt := range f.appointments {
		if appt.EmployeeID != filter.EmployeeID || !appt.Date.Equal(filter.Date) {
			continue
		}
		if !filter.IncludeInactive && !appt.IsActive() {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if _, ok := f.appointments[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	f.updatedID = id
	f.updatedStatus = status
	f.appointments[id].Status = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, status domain.AppointmentStatus, reason string) error {
	if _, ok := f.appointments[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	f.cancelledID = id
	f.cancelledStatus = status
	f.cancelledReason = reason
	f.appointments[id].Status = status
	return nil
}

type fakeStaffClient struct{}

func (f *fakeStaffClient) GetEmployee(_ context.Context, employeeID int64) (*staffClient.Employee, error) {
	switch employeeID {
	case staffID:
		return &staffClient.Employee{ID: staffID, DisplayName: "Мария Сидорова", IsActive: true}, nil
	case inactiveStaff:
		return &staffClient.Employee{ID: inactiveStaff, DisplayName: "Бывший сотрудник", IsActive: false}, nil
	default:
		return nil, staffClient.ErrEmployeeNotFound
	}
}

type fakeReminderCanceller struct {
	cancelled []int64
}

func (f *fakeReminderCanceller) Cancel(appointmentID int64) {
	f.cancelled = append(f.cancelled, appointmentID)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testAppointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		EmployeeID: staffID,
		ClientID:   clientID,
		Date:       time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		EndTime:    "10:30",
		ServiceIDs: []int64{10},
		Price:      1500,
		Status:     status,
		Reference:  "APT-3F2A9C41",
	}
}

func newTestService(appointments ...*domain.Appointment) (*Service, *fakeAppointmentRepo, *fakeReminderCanceller) {
	repo := &fakeAppointmentRepo{appointments: make(map[int64]*domain.Appointment)}
	for _, appt := range appointments {
		repo.appointments[appt.ID] = appt
	}
	reminders := &fakeReminderCanceller{}
	svc := NewService(repo, &fakeStaffClient{}, reminders, nopLogger{})
	return svc, repo, reminders
}

func TestService_GetByID(t *testing.T) {
	t.Run("owner sees own appointment", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		resp, err := svc.GetByID(context.Background(), 1, clientID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "APT-3F2A9C41", resp.Reference)
	})

	t.Run("active staff sees any appointment", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		_, err := svc.GetByID(context.Background(), 1, staffID)

		require.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		_, err := svc.GetByID(context.Background(), 1, strangerID)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("deactivated staff is denied", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		_, err := svc.GetByID(context.Background(), 1, inactiveStaff)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing appointment", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.GetByID(context.Background(), 42, clientID)

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestService_GetByReference(t *testing.T) {
	svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

	resp, err := svc.GetByReference(context.Background(), "APT-3F2A9C41", clientID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = svc.GetByReference(context.Background(), "APT-UNKNOWN1", clientID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_GetClientAppointments(t *testing.T) {
	t.Run("client sees own history", func(t *testing.T) {
		svc, _, _ := newTestService(
			testAppointment(1, domain.StatusConfirmed),
			testAppointment(2, domain.StatusCompleted),
		)

		resp, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			ClientID:    clientID,
			RequesterID: clientID,
		})

		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 2)
	})

	t.Run("status filter applies", func(t *testing.T) {
		svc, _, _ := newTestService(
			testAppointment(1, domain.StatusConfirmed),
			testAppointment(2, domain.StatusCompleted),
		)

		status := "completed"
		resp, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			ClientID:    clientID,
			RequesterID: clientID,
			Status:      &status,
		})

		require.NoError(t, err)
		require.Len(t, resp.Appointments, 1)
		assert.Equal(t, "completed", resp.Appointments[0].Status)
	})

	t.Run("unknown status filter is rejected", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		status := "paused"
		_, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			ClientID:    clientID,
			RequesterID: clientID,
			Status:      &status,
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("other client history requires staff", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		_, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			ClientID:    clientID,
			RequesterID: otherClientID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)

		resp, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			ClientID:    clientID,
			RequesterID: staffID,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)
	})
}

func TestService_GetEmployeeDay(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	t.Run("staff only", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		_, err := svc.GetEmployeeDay(context.Background(), &models.GetEmployeeDayRequest{
			EmployeeID:  staffID,
			RequesterID: clientID,
			Date:        date,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("cancelled appointments hidden by default", func(t *testing.T) {
		svc, _, _ := newTestService(
			testAppointment(1, domain.StatusConfirmed),
			testAppointment(2, domain.StatusCancelledByClient),
		)

		resp, err := svc.GetEmployeeDay(context.Background(), &models.GetEmployeeDayRequest{
			EmployeeID:  staffID,
			RequesterID: staffID,
			Date:        date,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)

		resp, err = svc.GetEmployeeDay(context.Background(), &models.GetEmployeeDayRequest{
			EmployeeID:      staffID,
			RequesterID:     staffID,
			Date:            date,
			IncludeInactive: true,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 2)
	})

	t.Run("date is required", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.GetEmployeeDay(context.Background(), &models.GetEmployeeDayRequest{
			EmployeeID:  staffID,
			RequesterID: staffID,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Cancel(t *testing.T) {
	t.Run("client cancels own appointment", func(t *testing.T) {
		svc, repo, reminders := newTestService(testAppointment(1, domain.StatusConfirmed))

		err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
			RequesterID:        clientID,
			CancellationReason: "не смогу прийти",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelledByClient, repo.cancelledStatus)
		assert.Equal(t, "не смогу прийти", repo.cancelledReason)
		assert.Equal(t, []int64{1}, reminders.cancelled)
	})

	t.Run("staff cancels someone else's appointment", func(t *testing.T) {
		svc, repo, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
			RequesterID:        staffID,
			CancellationReason: "мастер заболел",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelledByStaff, repo.cancelledStatus)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		svc, _, reminders := newTestService(testAppointment(1, domain.StatusConfirmed))

		err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
			RequesterID: strangerID,
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, reminders.cancelled)
	})

	t.Run("completed appointment cannot be cancelled", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusCompleted))

		err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
			RequesterID: clientID,
		})

		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	t.Run("staff marks no-show, reminder dropped", func(t *testing.T) {
		svc, repo, reminders := newTestService(testAppointment(1, domain.StatusConfirmed))

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			RequesterID: staffID,
			Status:      "no_show",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoShow, repo.updatedStatus)
		assert.Equal(t, []int64{1}, reminders.cancelled)
	})

	t.Run("active-to-active transition keeps reminder", func(t *testing.T) {
		svc, _, reminders := newTestService(testAppointment(1, domain.StatusConfirmed))

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			RequesterID: staffID,
			Status:      "completed",
		})

		require.NoError(t, err)
		assert.Empty(t, reminders.cancelled)
	})

	t.Run("client cannot update status", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			RequesterID: clientID,
			Status:      "completed",
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc, _, _ := newTestService(testAppointment(1, domain.StatusConfirmed))

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			RequesterID: staffID,
			Status:      "paused",
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
