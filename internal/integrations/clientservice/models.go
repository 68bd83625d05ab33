package clientservice

import "strings"

// ClientProfile модель клиента из ClientService
type ClientProfile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// FullName возвращает полное имя клиента
func (c *ClientProfile) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ErrorResponse модель ошибки от ClientService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
