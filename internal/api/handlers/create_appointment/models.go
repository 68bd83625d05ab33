package create_appointment

import (
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	createAppointment "github.com/sharpcut/SC-AppointmentService/internal/usecase/create_appointment"
	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID   int64    `json:"clientId,omitempty"` // 0 = авторизованный пользователь
	EmployeeID int64    `json:"employeeId"`
	Date       string   `json:"date"`      // "2026-09-14"
	StartTime  string   `json:"startTime"` // "10:00"
	ServiceIDs []int64  `json:"serviceIds"`
	Price      *float64 `json:"price,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64   `json:"id"`
	ClientID       int64   `json:"clientId"`
	EmployeeID     int64   `json:"employeeId"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	ServiceIDs     []int64 `json:"serviceIds"`
	Price          float64 `json:"price"`
	Status         string  `json:"status"`
	Reference      string  `json:"reference"`
	ServiceSummary string  `json:"serviceSummary"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(requesterID int64) (*createAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	clientID := r.ClientID
	if clientID == 0 {
		clientID = requesterID
	}

	return &createAppointment.Request{
		ClientID:   clientID,
		EmployeeID: r.EmployeeID,
		Date:       date,
		StartTime:  startTime,
		ServiceIDs: r.ServiceIDs,
		Price:      r.Price,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:             resp.ID,
		ClientID:       resp.ClientID,
		EmployeeID:     resp.EmployeeID,
		Date:           resp.Date.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		EndTime:        resp.EndTime.String(),
		ServiceIDs:     resp.ServiceIDs,
		Price:          resp.Price,
		Status:         resp.Status,
		Reference:      resp.Reference,
		ServiceSummary: resp.ServiceSummary,
		Notes:          resp.Notes,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
