package cancel_appointment

import (
	"github.com/sharpcut/SC-AppointmentService/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(requesterID int64) *models.CancelAppointmentRequest {
	return &models.CancelAppointmentRequest{
		RequesterID:        requesterID,
		CancellationReason: r.CancellationReason,
	}
}
