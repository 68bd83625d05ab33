package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	appointmentRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/schedule"
	clientClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/clientservice"
	staffClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	staffClient     StaffServiceClient
	clientClient    ClientServiceClient
	txManager       TransactionManager
	publisher       EventPublisher
	config          domain.SchedulingConfig
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	staffClient StaffServiceClient,
	clientClient ClientServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	config domain.SchedulingConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		staffClient:     staffClient,
		clientClient:    clientClient,
		txManager:       txManager,
		publisher:       publisher,
		config:          config,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider устанавливает провайдер времени (используется в тестах)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case создания записи
//
// Проверка доступности слота и вставка выполняются в сериализуемой
// транзакции с блокировкой записей дня (FOR UPDATE): из двух конкурирующих
// запросов на пересекающиеся окна выигрывает ровно один, второй получает
// ErrSlotNoLongerAvailable
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, employee=%d, date=%s, time=%s, services=%v",
		req.ClientID, req.EmployeeID, req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	if err := validateStartTime(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateAppointment: start time validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем сотрудника
	employee, err := uc.staffClient.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, staffClient.ErrEmployeeNotFound) {
			uc.logger.Warn("CreateAppointment: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}

	if !employee.IsActive {
		uc.logger.Warn("CreateAppointment: employee id=%d is not active", req.EmployeeID)
		return nil, ErrEmployeeUnavailable
	}

	// 4. Получаем клиента
	client, err := uc.clientClient.GetClient(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, clientClient.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 5. Получаем услуги, считаем длительность и цену
	services, err := uc.staffClient.GetServices(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, staffClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: some of services %v not found", req.ServiceIDs)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	duration := 0
	price := 0.0
	names := make([]string, 0, len(services))
	serviceInfos := make([]domain.ServiceInfo, 0, len(services))
	for _, service := range services {
		duration += service.DurationMinutes
		price += service.Price
		names = append(names, service.Name)
		serviceInfos = append(serviceInfos, domain.ServiceInfo{
			ID:              service.ID,
			Name:            service.Name,
			Price:           service.Price,
			DurationMinutes: service.DurationMinutes,
		})
	}
	if duration <= 0 {
		uc.logger.Warn("CreateAppointment: total duration %d is not positive", duration)
		return nil, fmt.Errorf("%w: total service duration must be positive", ErrInvalidInput)
	}

	// Явная цена из запроса перекрывает сумму из каталога
	if req.Price != nil {
		price = *req.Price
	}

	endTime, err := req.StartTime.AddMinutes(duration)
	if err != nil {
		uc.logger.Warn("CreateAppointment: appointment would cross midnight: %v", err)
		return nil, fmt.Errorf("%w: appointment must end within the same day", ErrInvalidInput)
	}

	window := domain.TimeInterval{Start: req.StartTime, End: endTime}
	weekday := req.Date.Weekday()

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Проверка доступности и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Выходной день перекрывает любое недельное правило
		dayOff, err := uc.scheduleRepo.GetBlockedRule(txCtx, req.EmployeeID, weekday, domain.BlockedKindDayOff, req.Date)
		if err != nil && !errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			uc.logger.Error("CreateAppointment: failed to get day-off rule: %v", err)
			return fmt.Errorf("%w: failed to get day-off rule: %v", ErrInternal, err)
		}
		if dayOff != nil {
			uc.logger.Warn("CreateAppointment: employee id=%d has day off on %s", req.EmployeeID, weekday)
			return ErrEmployeeUnavailable
		}

		// 6.2. Недельное правило доступности
		rule, err := uc.scheduleRepo.GetWeeklyRule(txCtx, req.EmployeeID, weekday, req.Date)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
				uc.logger.Warn("CreateAppointment: no weekly rule for employee id=%d on %s", req.EmployeeID, weekday)
				return ErrEmployeeUnavailable
			}
			uc.logger.Error("CreateAppointment: failed to get weekly rule: %v", err)
			return fmt.Errorf("%w: failed to get weekly rule: %v", ErrInternal, err)
		}

		// 6.3. Запрошенное окно должно помещаться в открытые интервалы дня
		lunch, err := uc.resolveLunch(txCtx, req.EmployeeID, weekday, req)
		if err != nil {
			return err
		}

		openIntervals := resolveOpenIntervals(rule, lunch)
		if err := validateWithinOpenIntervals(window, openIntervals); err != nil {
			uc.logger.Warn("CreateAppointment: window %s is outside working hours of employee id=%d",
				window, req.EmployeeID)
			return err
		}

		// 6.4. Получаем записи дня с блокировкой строк (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetByEmployeeAndDate(txCtx, domain.EmployeeDayFilter{
			EmployeeID: req.EmployeeID,
			Date:       req.Date,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.5. Повторная проверка конфликтов перед вставкой
		if conflicting := findConflictingAppointment(window, appointments, uc.config.AppointmentBufferMinutes); conflicting != nil {
			uc.logger.Warn("CreateAppointment: window %s conflicts with appointment id=%d",
				window, conflicting.ID)
			return ErrSlotNoLongerAvailable
		}

		// 6.6. Создаем запись вместе со связями услуг
		appointment := &domain.Appointment{
			EmployeeID:     req.EmployeeID,
			ClientID:       req.ClientID,
			Date:           req.Date,
			StartTime:      req.StartTime,
			EndTime:        endTime,
			ServiceIDs:     req.ServiceIDs,
			Price:          price,
			Status:         domain.StatusConfirmed,
			Reference:      generateReference(),
			ServiceSummary: strings.Join(names, ", "),
			Notes:          req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			// Уникальный индекс (employee_id, appointment_date, start_time) —
			// последний рубеж против конкурирующей записи
			if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
				uc.logger.Warn("CreateAppointment: slot %s taken by concurrent request", req.StartTime)
				return ErrSlotNoLongerAvailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d reference=%s",
		result.ID, result.Reference)

	// 7. Событие публикуется только после фиксации транзакции
	uc.publisher.PublishAppointmentCreated(domain.AppointmentCreated{
		Appointment:  result,
		ClientName:   client.FullName(),
		EmployeeName: employee.DisplayName,
		Services:     serviceInfos,
	})

	// Конвертируем в response
	return &Response{
		ID:             result.ID,
		ClientID:       result.ClientID,
		EmployeeID:     result.EmployeeID,
		Date:           result.Date,
		StartTime:      result.StartTime,
		EndTime:        result.EndTime,
		ServiceIDs:     result.ServiceIDs,
		Price:          result.Price,
		Status:         string(result.Status),
		Reference:      result.Reference,
		ServiceSummary: result.ServiceSummary,
		Notes:          result.Notes,
		CreatedAt:      result.CreatedAt,
		UpdatedAt:      result.UpdatedAt,
	}, nil
}

func (uc *UseCase) resolveLunch(ctx context.Context, employeeID int64, weekday time.Weekday, req *Request) (*domain.TimeInterval, error) {
	lunchRule, err := uc.scheduleRepo.GetBlockedRule(ctx, employeeID, weekday, domain.BlockedKindLunch, req.Date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			return uc.config.FallbackLunch, nil
		}
		uc.logger.Error("CreateAppointment: failed to get lunch rule: %v", err)
		return nil, fmt.Errorf("%w: failed to get lunch rule: %v", ErrInternal, err)
	}
	return &lunchRule.Interval, nil
}
