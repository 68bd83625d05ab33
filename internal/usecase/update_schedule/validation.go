package update_schedule

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	seen := make(map[time.Weekday]bool, len(req.Days))
	for _, day := range req.Days {
		if day.Weekday < time.Sunday || day.Weekday > time.Saturday {
			return fmt.Errorf("%w: unknown weekday %d", ErrInvalidInput, day.Weekday)
		}
		if seen[day.Weekday] {
			return fmt.Errorf("%w: weekday %s listed more than once", ErrInvalidInput, day.Weekday)
		}
		seen[day.Weekday] = true

		if err := validateDay(day); err != nil {
			return err
		}
	}

	return nil
}

// validateDay проверяет интервалы одного дня
func validateDay(day DaySchedule) error {
	if !day.DayOff && len(day.Intervals) == 0 {
		return fmt.Errorf("%w: %s must have working intervals or be a day off", ErrInvalidInput, day.Weekday)
	}

	for i, interval := range day.Intervals {
		if err := validateInterval(interval); err != nil {
			return fmt.Errorf("%w: %s interval %d: %v", ErrInvalidInput, day.Weekday, i, err)
		}

		// Интервалы идут по возрастанию и не пересекаются
		if i > 0 && day.Intervals[i-1].End.IsAfter(interval.Start) {
			return fmt.Errorf("%w: %s intervals must be ordered and non-overlapping", ErrInvalidInput, day.Weekday)
		}
	}

	if day.Lunch != nil {
		if err := validateInterval(*day.Lunch); err != nil {
			return fmt.Errorf("%w: %s lunch: %v", ErrInvalidInput, day.Weekday, err)
		}
	}

	return nil
}

func validateInterval(interval Interval) error {
	if err := interval.Start.Validate(); err != nil {
		return fmt.Errorf("invalid start: %v", err)
	}
	if err := interval.End.Validate(); err != nil {
		return fmt.Errorf("invalid end: %v", err)
	}
	if !interval.Start.IsBefore(interval.End) {
		return fmt.Errorf("start %s must be before end %s", interval.Start, interval.End)
	}
	return nil
}
