package create_appointment

import (
	"time"

	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ClientID   int64            // ID клиента
	EmployeeID int64            // ID сотрудника
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	ServiceIDs []int64          // Выбранные услуги
	Price      *float64         // Явная цена; nil = сумма цен услуг из каталога
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID         int64            // ID созданной записи
	ClientID   int64            // ID клиента
	EmployeeID int64            // ID сотрудника
	Date       time.Time        // Дата записи
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания
	ServiceIDs []int64          // Услуги
	Price      float64          // Итоговая цена
	Status     string           // Статус записи
	Reference  string           // Человекочитаемый номер записи

	// Денормализованные данные
	ServiceSummary string  // Перечень услуг одной строкой
	Notes          *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
