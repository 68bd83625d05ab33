package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	scheduleRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/schedule"
	staffClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	staffClient     StaffServiceClient
	config          domain.SchedulingConfig
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	staffClient StaffServiceClient,
	config domain.SchedulingConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		staffClient:     staffClient,
		config:          config,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider устанавливает провайдер времени (используется в тестах)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case получения доступных слотов
//
// Пустой список слотов — нормальный результат: выходной, нет расписания
// или день полностью занят. Ошибкой это не считается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: employee=%d, date=%s, services=%v",
		req.EmployeeID, req.Date.Format(domain.DateFormat), req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование сотрудника
	if _, err := uc.staffClient.GetEmployee(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, staffClient.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}

	// 4. Получаем услуги и считаем суммарную длительность
	services, err := uc.staffClient.GetServices(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, staffClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: some of services %v not found", req.ServiceIDs)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	duration := 0
	for _, service := range services {
		duration += service.DurationMinutes
	}
	if duration <= 0 {
		uc.logger.Warn("GetAvailableSlots: total duration %d is not positive", duration)
		return nil, fmt.Errorf("%w: total duration must be positive", ErrInvalidDuration)
	}

	weekday := req.Date.Weekday()

	// 5. Выходной день перекрывает любое недельное правило
	dayOff, err := uc.scheduleRepo.GetBlockedRule(ctx, req.EmployeeID, weekday, domain.BlockedKindDayOff, req.Date)
	if err != nil && !errors.Is(err, scheduleRepo.ErrRuleNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get day-off rule: %v", err)
		return nil, fmt.Errorf("%w: failed to get day-off rule: %v", ErrInternal, err)
	}
	if dayOff != nil {
		uc.logger.Info("GetAvailableSlots: employee id=%d has day off on %s", req.EmployeeID, weekday)
		return uc.emptyResponse(req, duration), nil
	}

	// 6. Недельное правило доступности; нет правила — сотрудник не работает
	rule, err := uc.scheduleRepo.GetWeeklyRule(ctx, req.EmployeeID, weekday, req.Date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			uc.logger.Info("GetAvailableSlots: no weekly rule for employee id=%d on %s", req.EmployeeID, weekday)
			return uc.emptyResponse(req, duration), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get weekly rule: %v", err)
		return nil, fmt.Errorf("%w: failed to get weekly rule: %v", ErrInternal, err)
	}

	// 7. Обеденный перерыв: явное правило сотрудника либо запасное окно из конфигурации
	lunch, err := uc.resolveLunch(ctx, req.EmployeeID, weekday, req)
	if err != nil {
		return nil, err
	}

	// 8. Открытые интервалы дня и слоты-кандидаты
	openIntervals := resolveOpenIntervals(rule, lunch)
	candidates := generateCandidateSlots(openIntervals, uc.config.SlotIntervalMinutes, duration)

	// Для запросов на сегодня прошедшие слоты не предлагаем
	if isSameDay(req.Date, now) {
		candidates = filterPastSlots(candidates, types.NewTimeString(now))
	}

	// 9. Фильтруем по уже существующим записям
	appointments, err := uc.appointmentRepo.GetByEmployeeAndDate(ctx, domain.EmployeeDayFilter{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	slots := filterBookedSlots(candidates, appointments, uc.config.AppointmentBufferMinutes)

	uc.logger.Info("GetAvailableSlots: %d slots available for employee=%d, date=%s",
		len(slots), req.EmployeeID, req.Date.Format(domain.DateFormat))

	return &Response{
		EmployeeID:      req.EmployeeID,
		Date:            req.Date,
		ServiceIDs:      req.ServiceIDs,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}

func (uc *UseCase) resolveLunch(ctx context.Context, employeeID int64, weekday time.Weekday, req *Request) (*domain.TimeInterval, error) {
	lunchRule, err := uc.scheduleRepo.GetBlockedRule(ctx, employeeID, weekday, domain.BlockedKindLunch, req.Date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			return uc.config.FallbackLunch, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get lunch rule: %v", err)
		return nil, fmt.Errorf("%w: failed to get lunch rule: %v", ErrInternal, err)
	}
	return &lunchRule.Interval, nil
}

func (uc *UseCase) emptyResponse(req *Request, duration int) *Response {
	return &Response{
		EmployeeID:      req.EmployeeID,
		Date:            req.Date,
		ServiceIDs:      req.ServiceIDs,
		DurationMinutes: duration,
		Slots:           []domain.AvailableSlot{},
	}
}
