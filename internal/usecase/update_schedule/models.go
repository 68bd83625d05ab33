package update_schedule

import (
	"time"

	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// Interval модель временного интервала в запросе
type Interval struct {
	Start types.TimeString // Время начала (например, "09:00")
	End   types.TimeString // Время окончания (например, "18:00")
}

// DaySchedule расписание одного дня недели
type DaySchedule struct {
	Weekday   time.Weekday // День недели
	Intervals []Interval   // Рабочие интервалы в хронологическом порядке
	Lunch     *Interval    // Обеденный перерыв (опционально)
	DayOff    bool         // Полный выходной, перекрывает рабочие интервалы
}

// Request модель запроса на замену недельного расписания
// Дни, не перечисленные в запросе, становятся нерабочими —
// замена выполняется целиком, а не слиянием
type Request struct {
	EmployeeID int64         // ID сотрудника
	Days       []DaySchedule // Новое расписание по дням недели
}

// Response модель ответа с принятым расписанием
type Response struct {
	EmployeeID int64         // ID сотрудника
	Days       []DaySchedule // Сохраненное расписание
	UpdatedAt  time.Time     // Момент применения
}
