package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/pkg/dbmetrics"
	"github.com/sharpcut/SC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий еженедельных правил расписания
//
// Недельное правило хранится построчно: одна строка на рабочий интервал
// (колонка position задает порядок интервалов внутри дня).
// Блокирующие правила (перерыв, выходной) — по одной строке на правило.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeeklyRule получает правило доступности сотрудника на день недели,
// действующее на указанную дату
// Если правило не настроено — ErrRuleNotFound
func (r *Repository) GetWeeklyRule(ctx context.Context, employeeID int64, weekday time.Weekday, date time.Time) (*domain.WeeklyAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"start_time",
		"end_time",
		"effective_from",
		"effective_to",
		"created_at",
		"updated_at",
	).
		From("weekly_availability_rules").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		Where(squirrel.LtOrEq{"effective_from": date}).
		Where(squirrel.Or{
			squirrel.Eq{"effective_to": nil},
			squirrel.GtOrEq{"effective_to": date},
		}).
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rule := &domain.WeeklyAvailabilityRule{
		EmployeeID: employeeID,
		Weekday:    weekday,
	}

	for rows.Next() {
		var (
			id                   int64
			interval             domain.TimeInterval
			effectiveFrom        time.Time
			effectiveTo          sql.NullTime
			createdAt, updatedAt sql.NullTime
		)

		err := rows.Scan(
			&id,
			&interval.Start,
			&interval.End,
			&effectiveFrom,
			&effectiveTo,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyRule - scan row: %v", ErrScanRow, err)
		}

		// Атрибуты правила берем из первой строки группы
		if len(rule.Intervals) == 0 {
			rule.ID = id
			rule.EffectiveFrom = effectiveFrom
			if effectiveTo.Valid {
				to := effectiveTo.Time
				rule.EffectiveTo = &to
			}
			rule.CreatedAt = createdAt.Time
			rule.UpdatedAt = updatedAt.Time
		}
		rule.Intervals = append(rule.Intervals, interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRule - rows error: %v", ErrScanRow, err)
	}

	if len(rule.Intervals) == 0 {
		return nil, ErrRuleNotFound
	}

	return rule, nil
}

// GetBlockedRule получает блокирующее правило указанного типа на день недели,
// действующее на указанную дату
// Если правил несколько, возвращается последнее вступившее в силу
func (r *Repository) GetBlockedRule(ctx context.Context, employeeID int64, weekday time.Weekday, kind domain.BlockedKind, date time.Time) (*domain.BlockedTimeRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"start_time",
		"end_time",
		"effective_from",
		"effective_to",
		"created_at",
		"updated_at",
	).
		From("blocked_time_rules").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		Where(squirrel.Eq{"kind": string(kind)}).
		Where(squirrel.LtOrEq{"effective_from": date}).
		Where(squirrel.Or{
			squirrel.Eq{"effective_to": nil},
			squirrel.GtOrEq{"effective_to": date},
		}).
		OrderBy("effective_from DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedRule - build select query: %v", ErrBuildQuery, err)
	}

	rule := &domain.BlockedTimeRule{
		EmployeeID: employeeID,
		Weekday:    weekday,
		Kind:       kind,
	}

	var (
		effectiveTo          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&rule.Interval.Start,
		&rule.Interval.End,
		&rule.EffectiveFrom,
		&effectiveTo,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedRule - scan rule: %v", ErrScanRow, err)
	}

	if effectiveTo.Valid {
		to := effectiveTo.Time
		rule.EffectiveTo = &to
	}
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// ReplaceWeeklyRules целиком заменяет недельное расписание сотрудника:
// старые правила всех дней недели удаляются, новые вставляются
// Вызывается внутри транзакции — частичная замена не должна быть видна читателям
func (r *Repository) ReplaceWeeklyRules(
	ctx context.Context,
	employeeID int64,
	availability []*domain.WeeklyAvailabilityRule,
	blocked []*domain.BlockedTimeRule,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, table := range []string{"weekly_availability_rules", "blocked_time_rules"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"employee_id": employeeID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceWeeklyRules - build delete query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceWeeklyRules - execute delete: %v", ErrExecQuery, err)
		}
	}

	if len(availability) > 0 {
		insertBuilder := psqlbuilder.Insert("weekly_availability_rules").
			Columns("employee_id", "weekday", "position", "start_time", "end_time", "effective_from", "effective_to")
		for _, rule := range availability {
			for position, interval := range rule.Intervals {
				insertBuilder = insertBuilder.Values(
					employeeID,
					int(rule.Weekday),
					position,
					interval.Start,
					interval.End,
					rule.EffectiveFrom,
					rule.EffectiveTo,
				)
			}
		}

		query, args, err := insertBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceWeeklyRules - build availability insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceWeeklyRules - execute availability insert: %v", ErrExecQuery, err)
		}
	}

	if len(blocked) > 0 {
		insertBuilder := psqlbuilder.Insert("blocked_time_rules").
			Columns("employee_id", "weekday", "kind", "start_time", "end_time", "effective_from", "effective_to")
		for _, rule := range blocked {
			insertBuilder = insertBuilder.Values(
				employeeID,
				int(rule.Weekday),
				string(rule.Kind),
				rule.Interval.Start,
				rule.Interval.End,
				rule.EffectiveFrom,
				rule.EffectiveTo,
			)
		}

		query, args, err := insertBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceWeeklyRules - build blocked insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceWeeklyRules - execute blocked insert: %v", ErrExecQuery, err)
		}
	}

	return nil
}
