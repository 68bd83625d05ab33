package get_available_slots

import (
	"time"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	EmployeeID int64     // ID сотрудника
	Date       time.Time // Дата для расчета слотов (без времени)
	ServiceIDs []int64   // Выбранные услуги, длительность суммируется
}

// Response модель ответа со списком доступных слотов
type Response struct {
	EmployeeID      int64                  // ID сотрудника
	Date            time.Time              // Дата, на которую запрашивались слоты
	ServiceIDs      []int64                // Услуги из запроса
	DurationMinutes int                    // Суммарная длительность выбранных услуг
	Slots           []domain.AvailableSlot // Доступные слоты в хронологическом порядке
}
