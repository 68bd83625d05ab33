package update_schedule

import (
	"time"

	updateSchedule "github.com/sharpcut/SC-AppointmentService/internal/usecase/update_schedule"
	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// IntervalModel HTTP модель временного интервала
type IntervalModel struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "18:00"
}

// DayScheduleModel HTTP модель расписания одного дня
type DayScheduleModel struct {
	Weekday   int             `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	Intervals []IntervalModel `json:"intervals,omitempty"`
	Lunch     *IntervalModel  `json:"lunch,omitempty"`
	DayOff    bool            `json:"dayOff,omitempty"`
}

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	Days []DayScheduleModel `json:"days"`
}

// UpdateScheduleResponse HTTP response model
type UpdateScheduleResponse struct {
	EmployeeID int64              `json:"employeeId"`
	Days       []DayScheduleModel `json:"days"`
	UpdatedAt  string             `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateScheduleRequest) ToUseCaseRequest(employeeID int64) (*updateSchedule.Request, error) {
	days := make([]updateSchedule.DaySchedule, len(r.Days))
	for i, day := range r.Days {
		intervals := make([]updateSchedule.Interval, len(day.Intervals))
		for j, interval := range day.Intervals {
			parsed, err := toUseCaseInterval(interval)
			if err != nil {
				return nil, err
			}
			intervals[j] = parsed
		}

		var lunch *updateSchedule.Interval
		if day.Lunch != nil {
			parsed, err := toUseCaseInterval(*day.Lunch)
			if err != nil {
				return nil, err
			}
			lunch = &parsed
		}

		days[i] = updateSchedule.DaySchedule{
			Weekday:   time.Weekday(day.Weekday),
			Intervals: intervals,
			Lunch:     lunch,
			DayOff:    day.DayOff,
		}
	}

	return &updateSchedule.Request{
		EmployeeID: employeeID,
		Days:       days,
	}, nil
}

func toUseCaseInterval(interval IntervalModel) (updateSchedule.Interval, error) {
	start, err := types.NewTimeStringFromString(interval.Start)
	if err != nil {
		return updateSchedule.Interval{}, err
	}
	end, err := types.NewTimeStringFromString(interval.End)
	if err != nil {
		return updateSchedule.Interval{}, err
	}
	return updateSchedule.Interval{Start: start, End: end}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateSchedule.Response) *UpdateScheduleResponse {
	days := make([]DayScheduleModel, len(resp.Days))
	for i, day := range resp.Days {
		intervals := make([]IntervalModel, len(day.Intervals))
		for j, interval := range day.Intervals {
			intervals[j] = IntervalModel{
				Start: interval.Start.String(),
				End:   interval.End.String(),
			}
		}

		var lunch *IntervalModel
		if day.Lunch != nil {
			lunch = &IntervalModel{
				Start: day.Lunch.Start.String(),
				End:   day.Lunch.End.String(),
			}
		}

		days[i] = DayScheduleModel{
			Weekday:   int(day.Weekday),
			Intervals: intervals,
			Lunch:     lunch,
			DayOff:    day.DayOff,
		}
	}

	return &UpdateScheduleResponse{
		EmployeeID: resp.EmployeeID,
		Days:       days,
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
