package events

import (
	"sync"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
)

// Dispatcher внутрипроцессная шина событий
// Подписчики вызываются асинхронно, публикация не блокирует вызывающего
type Dispatcher struct {
	mu                 sync.RWMutex
	appointmentCreated []func(domain.AppointmentCreated)
}

// NewDispatcher создает новый диспетчер событий
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// SubscribeAppointmentCreated регистрирует обработчик события создания записи
// Подписка выполняется при старте приложения, до начала публикаций
func (d *Dispatcher) SubscribeAppointmentCreated(handler func(domain.AppointmentCreated)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.appointmentCreated = append(d.appointmentCreated, handler)
}

// PublishAppointmentCreated рассылает событие всем подписчикам
func (d *Dispatcher) PublishAppointmentCreated(event domain.AppointmentCreated) {
	d.mu.RLock()
	handlers := make([]func(domain.AppointmentCreated), len(d.appointmentCreated))
	copy(handlers, d.appointmentCreated)
	d.mu.RUnlock()

	for _, handler := range handlers {
		go handler(event)
	}
}
