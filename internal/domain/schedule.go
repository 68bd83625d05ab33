package domain

import "time"

// BlockedKind тип блокирующего правила
type BlockedKind string

const (
	BlockedKindLunch  BlockedKind = "lunch"
	BlockedKindDayOff BlockedKind = "day_off"
)

// WeeklyAvailabilityRule еженедельное правило доступности сотрудника
// Хранит упорядоченный список рабочих интервалов на день недели
//
// Текущее поведение resolver'а: учитывается только первый интервал дня,
// сплит-смены схлопываются до первого интервала (FirstInterval).
// Остальные интервалы сохраняются в хранилище без потерь.
type WeeklyAvailabilityRule struct {
	ID            int64
	EmployeeID    int64
	Weekday       time.Weekday
	Intervals     []TimeInterval
	EffectiveFrom time.Time
	EffectiveTo   *time.Time // nil = бессрочно
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsEffectiveOn проверяет, действует ли правило на указанную дату
func (r *WeeklyAvailabilityRule) IsEffectiveOn(date time.Time) bool {
	day := truncateToDay(date)
	if day.Before(truncateToDay(r.EffectiveFrom)) {
		return false
	}
	if r.EffectiveTo != nil && day.After(truncateToDay(*r.EffectiveTo)) {
		return false
	}
	return true
}

// FirstInterval возвращает первый рабочий интервал дня
func (r *WeeklyAvailabilityRule) FirstInterval() (TimeInterval, bool) {
	if len(r.Intervals) == 0 {
		return TimeInterval{}, false
	}
	return r.Intervals[0], true
}

// BlockedTimeRule еженедельное блокирующее правило (перерыв или выходной)
// Семантика вычитающая: интервал исключается из рабочего времени
type BlockedTimeRule struct {
	ID            int64
	EmployeeID    int64
	Weekday       time.Weekday
	Kind          BlockedKind
	Interval      TimeInterval
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsFullDay возвращает true для правила, закрывающего весь день
func (r *BlockedTimeRule) IsFullDay() bool {
	return r.Interval.Start == DayStart && r.Interval.End == DayEnd
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
