package domain

import (
	"fmt"

	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// TimeInterval полуоткрытый интервал времени [Start, End) в пределах одного дня
// Интервалы через полночь не поддерживаются
type TimeInterval struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeInterval создает интервал с проверкой инварианта Start < End
func NewTimeInterval(start, end types.TimeString) (TimeInterval, error) {
	if err := start.Validate(); err != nil {
		return TimeInterval{}, fmt.Errorf("invalid interval start: %v", err)
	}
	if err := end.Validate(); err != nil {
		return TimeInterval{}, fmt.Errorf("invalid interval end: %v", err)
	}
	if !start.IsBefore(end) {
		return TimeInterval{}, fmt.Errorf("interval start %s must be before end %s", start, end)
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Overlaps проверяет пересечение интервалов
// Полуоткрытая семантика: соприкасающиеся границы пересечением не считаются
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}

// Contains возвращает true, если other целиком лежит внутри i
func (i TimeInterval) Contains(other TimeInterval) bool {
	return !other.Start.IsBefore(i.Start) && !i.End.IsBefore(other.End)
}

// Subtract вычитает cut из i
// Возвращает 0, 1 или 2 интервала; если пересечения нет — i без изменений
func (i TimeInterval) Subtract(cut TimeInterval) []TimeInterval {
	if !i.Overlaps(cut) {
		return []TimeInterval{i}
	}

	result := make([]TimeInterval, 0, 2)
	if i.Start.IsBefore(cut.Start) {
		result = append(result, TimeInterval{Start: i.Start, End: cut.Start})
	}
	if cut.End.IsBefore(i.End) {
		result = append(result, TimeInterval{Start: cut.End, End: i.End})
	}
	return result
}

// DurationMinutes возвращает длительность интервала в минутах
func (i TimeInterval) DurationMinutes() int {
	return i.End.Minutes() - i.Start.Minutes()
}

// String возвращает представление вида "09:00-12:30"
func (i TimeInterval) String() string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}
