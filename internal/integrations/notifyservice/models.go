package notifyservice

// ReminderRequest запрос на отправку напоминания о записи
type ReminderRequest struct {
	AppointmentID int64    `json:"appointment_id"`
	Reference     string   `json:"reference"`
	ClientID      int64    `json:"client_id"`
	EmployeeName  string   `json:"employee_name"`
	Date          string   `json:"date"`       // YYYY-MM-DD
	StartTime     string   `json:"start_time"` // HH:MM
	ServiceNames  []string `json:"service_names"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
