package domain

import "github.com/sharpcut/SC-AppointmentService/pkg/types"

// AvailableSlot свободный для записи временной слот
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
