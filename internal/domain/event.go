package domain

// ServiceInfo данные услуги, полученные из каталога StaffService
type ServiceInfo struct {
	ID              int64
	Name            string
	Price           float64
	DurationMinutes int
}

// AppointmentCreated доменное событие о созданной записи
// Потребляется подписчиками: планировщиком напоминаний и коллаборатором уведомлений
type AppointmentCreated struct {
	Appointment  *Appointment
	ClientName   string
	EmployeeName string
	Services     []ServiceInfo
}
