package update_appointment_status

import (
	"github.com/sharpcut/SC-AppointmentService/internal/service/appointments/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(requesterID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		RequesterID: requesterID,
		Status:      r.Status,
	}
}
