package update_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	staffClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
)

// UseCase use case для замены недельного расписания сотрудника
type UseCase struct {
	scheduleRepo ScheduleRepository
	staffClient  StaffServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	staffClient StaffServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo: scheduleRepo,
		staffClient:  staffClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider устанавливает провайдер времени (используется в тестах)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case замены расписания
//
// Старые правила сотрудника удаляются и заменяются новыми в одной
// транзакции: читатели не должны видеть наполовину замененное расписание
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateSchedule: employee=%d, days=%d", req.EmployeeID, len(req.Days))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование сотрудника
	if _, err := uc.staffClient.GetEmployee(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, staffClient.ErrEmployeeNotFound) {
			uc.logger.Warn("UpdateSchedule: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("UpdateSchedule: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	effectiveFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	availability, blocked := buildRules(req, effectiveFrom)

	// 3. Заменяем расписание в транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.scheduleRepo.ReplaceWeeklyRules(txCtx, req.EmployeeID, availability, blocked); err != nil {
			uc.logger.Error("UpdateSchedule: failed to replace rules: %v", err)
			return fmt.Errorf("%w: failed to replace rules: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateSchedule: schedule replaced for employee id=%d (%d availability rules, %d blocked rules)",
		req.EmployeeID, len(availability), len(blocked))

	return &Response{
		EmployeeID: req.EmployeeID,
		Days:       req.Days,
		UpdatedAt:  now,
	}, nil
}

// buildRules конвертирует запрос в доменные правила
func buildRules(req *Request, effectiveFrom time.Time) ([]*domain.WeeklyAvailabilityRule, []*domain.BlockedTimeRule) {
	availability := make([]*domain.WeeklyAvailabilityRule, 0, len(req.Days))
	blocked := make([]*domain.BlockedTimeRule, 0)

	for _, day := range req.Days {
		if len(day.Intervals) > 0 {
			intervals := make([]domain.TimeInterval, 0, len(day.Intervals))
			for _, interval := range day.Intervals {
				intervals = append(intervals, domain.TimeInterval{Start: interval.Start, End: interval.End})
			}
			availability = append(availability, &domain.WeeklyAvailabilityRule{
				EmployeeID:    req.EmployeeID,
				Weekday:       day.Weekday,
				Intervals:     intervals,
				EffectiveFrom: effectiveFrom,
			})
		}

		if day.Lunch != nil {
			blocked = append(blocked, &domain.BlockedTimeRule{
				EmployeeID:    req.EmployeeID,
				Weekday:       day.Weekday,
				Kind:          domain.BlockedKindLunch,
				Interval:      domain.TimeInterval{Start: day.Lunch.Start, End: day.Lunch.End},
				EffectiveFrom: effectiveFrom,
			})
		}

		if day.DayOff {
			blocked = append(blocked, &domain.BlockedTimeRule{
				EmployeeID:    req.EmployeeID,
				Weekday:       day.Weekday,
				Kind:          domain.BlockedKindDayOff,
				Interval:      domain.TimeInterval{Start: domain.DayStart, End: domain.DayEnd},
				EffectiveFrom: effectiveFrom,
			})
		}
	}

	return availability, blocked
}
