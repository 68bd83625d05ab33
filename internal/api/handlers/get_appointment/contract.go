package get_appointment

import (
	"context"

	"github.com/sharpcut/SC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, id int64, requesterID int64) (*models.AppointmentResponse, error)
	GetByReference(ctx context.Context, reference string, requesterID int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
