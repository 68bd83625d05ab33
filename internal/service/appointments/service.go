package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	appointmentRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/appointment"
	staffClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
	"github.com/sharpcut/SC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с существующими записями
// Создание записей и расчет слотов живут в usecase-слое,
// здесь чтение, отмена и смена статусов
type Service struct {
	appointmentRepo AppointmentRepository
	staffClient     StaffServiceClient
	reminders       ReminderCanceller
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	staffClient StaffServiceClient,
	reminders ReminderCanceller,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		staffClient:     staffClient,
		reminders:       reminders,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент видит только свои записи, сотрудник барбершопа — любые
func (s *Service) GetByID(ctx context.Context, id int64, requesterID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for requester=%d", id, requesterID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkAccess(ctx, appointment, requesterID); err != nil {
		s.logger.Warn("GetByID: access denied for requester=%d to appointment id=%d", requesterID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetByReference получает запись по человекочитаемому номеру
// Номер известен только участникам записи (письма, напоминания),
// проверка доступа та же, что и по ID
func (s *Service) GetByReference(ctx context.Context, reference string, requesterID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByReference: fetching appointment reference=%s for requester=%d", reference, requesterID)

	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByReference: appointment reference=%s not found", reference)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByReference: repository error for reference=%s: %v", reference, err)
		return nil, fmt.Errorf("%w: GetByReference - repository error: %v", ErrInternal, err)
	}

	if err := s.checkAccess(ctx, appointment, requesterID); err != nil {
		s.logger.Warn("GetByReference: access denied for requester=%d to appointment id=%d", requesterID, appointment.ID)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetClientAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d, status=%v", req.ClientID, req.Status)

	// Чужую историю может смотреть только сотрудник барбершопа
	if req.ClientID != req.RequesterID {
		if err := s.checkStaffAccess(ctx, req.RequesterID); err != nil {
			s.logger.Warn("GetClientAppointments: access denied for requester=%d to client=%d history",
				req.RequesterID, req.ClientID)
			return nil, err
		}
	}

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByClient(ctx, domain.ClientAppointmentsFilter{
		ClientID: req.ClientID,
		Status:   domainStatus,
	})
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: successfully fetched %d appointments for client=%d",
		len(appointments), req.ClientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetEmployeeDay получает лист записей сотрудника на дату
// Доступно только сотрудникам барбершопа
func (s *Service) GetEmployeeDay(ctx context.Context, req *models.GetEmployeeDayRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetEmployeeDay: fetching appointments for employee=%d, date=%s",
		req.EmployeeID, req.Date.Format(domain.DateFormat))

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.checkStaffAccess(ctx, req.RequesterID); err != nil {
		s.logger.Warn("GetEmployeeDay: access denied for requester=%d", req.RequesterID)
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByEmployeeAndDate(ctx, domain.EmployeeDayFilter{
		EmployeeID:      req.EmployeeID,
		Date:            req.Date,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("GetEmployeeDay: repository error for employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: GetEmployeeDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetEmployeeDay: successfully fetched %d appointments for employee=%d",
		len(appointments), req.EmployeeID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись (cancelled_by_client),
// сотрудник барбершопа — любую (cancelled_by_staff)
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by requester=%d", appointmentID, req.RequesterID)

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
		return ErrCannotCancel
	}

	// Определяем статус отмены в зависимости от того, кто отменяет
	var cancelStatus domain.AppointmentStatus

	if appointment.ClientID == req.RequesterID {
		cancelStatus = domain.StatusCancelledByClient
	} else {
		if err := s.checkStaffAccess(ctx, req.RequesterID); err != nil {
			s.logger.Warn("Cancel: access denied for requester=%d to cancel appointment id=%d",
				req.RequesterID, appointmentID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledByStaff
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Напоминание по отмененной записи больше не нужно
	s.reminders.Cancel(appointmentID)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d with status=%s", appointmentID, cancelStatus)
	return nil
}

// UpdateStatus обновляет статус записи
// Доступно только сотрудникам барбершопа
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by requester=%d",
		appointmentID, req.Status, req.RequesterID)

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkStaffAccess(ctx, req.RequesterID); err != nil {
		return err
	}

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Запись перестала занимать слот — напоминание снимаем
	if !newStatus.Active() && appointment.IsActive() {
		s.reminders.Cancel(appointmentID)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}

// Вспомогательные методы

// checkAccess проверяет, что запрашивающий имеет доступ к записи
// Клиент видит свою запись, сотрудник барбершопа — любую
func (s *Service) checkAccess(ctx context.Context, appointment *domain.Appointment, requesterID int64) error {
	if appointment.ClientID == requesterID {
		return nil
	}

	if err := s.checkStaffAccess(ctx, requesterID); err != nil {
		// Ошибка уже залогирована в checkStaffAccess
		return ErrAccessDenied
	}

	return nil
}

// checkStaffAccess проверяет, что запрашивающий — действующий сотрудник барбершопа
func (s *Service) checkStaffAccess(ctx context.Context, requesterID int64) error {
	employee, err := s.staffClient.GetEmployee(ctx, requesterID)
	if err != nil {
		if errors.Is(err, staffClient.ErrEmployeeNotFound) {
			s.logger.Warn("checkStaffAccess: requester=%d is not a staff member", requesterID)
			return ErrAccessDenied
		}
		s.logger.Error("checkStaffAccess: failed to get employee id=%d: %v", requesterID, err)
		return fmt.Errorf("%w: checkStaffAccess - failed to get employee: %v", ErrInternal, err)
	}

	if !employee.IsActive {
		s.logger.Warn("checkStaffAccess: employee id=%d is deactivated", requesterID)
		return ErrAccessDenied
	}

	return nil
}
