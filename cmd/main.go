package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/sharpcut/SC-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/sharpcut/SC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/sharpcut/SC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/sharpcut/SC-AppointmentService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/sharpcut/SC-AppointmentService/internal/api/handlers/get_client_appointments"
	getEmployeeAppointmentsHandler "github.com/sharpcut/SC-AppointmentService/internal/api/handlers/get_employee_appointments"
	updateAppointmentStatusHandler "github.com/sharpcut/SC-AppointmentService/internal/api/handlers/update_appointment_status"
	updateScheduleHandler "github.com/sharpcut/SC-AppointmentService/internal/api/handlers/update_schedule"
	"github.com/sharpcut/SC-AppointmentService/internal/api/middleware"
	"github.com/sharpcut/SC-AppointmentService/internal/config"
	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/internal/infra/events"
	appointmentRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/sharpcut/SC-AppointmentService/internal/infra/storage/schedule"
	clientServiceClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/clientservice"
	notifyServiceClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/notifyservice"
	staffServiceClient "github.com/sharpcut/SC-AppointmentService/internal/integrations/staffservice"
	appointmentsService "github.com/sharpcut/SC-AppointmentService/internal/service/appointments"
	"github.com/sharpcut/SC-AppointmentService/internal/service/reminders"
	createAppointmentUC "github.com/sharpcut/SC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/sharpcut/SC-AppointmentService/internal/usecase/get_available_slots"
	updateScheduleUC "github.com/sharpcut/SC-AppointmentService/internal/usecase/update_schedule"
	"github.com/sharpcut/SC-AppointmentService/pkg/dbmetrics"
	"github.com/sharpcut/SC-AppointmentService/pkg/logger"
	"github.com/sharpcut/SC-AppointmentService/pkg/metrics"
	"github.com/sharpcut/SC-AppointmentService/pkg/simpletxmanager"
	"github.com/sharpcut/SC-AppointmentService/pkg/txmanager"
	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	staffClient := staffServiceClient.NewClient(
		cfg.StaffService.URL,
		time.Duration(cfg.StaffService.Timeout)*time.Second,
		log,
	)
	clientClient := clientServiceClient.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (StaffService=%s, ClientService=%s, NotifyService=%s)",
		cfg.StaffService.URL, cfg.ClientService.URL, cfg.NotifyService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Общесервисные настройки расчета слотов
	schedulingConfig := domain.SchedulingConfig{
		SlotIntervalMinutes:      cfg.Scheduling.SlotIntervalMinutes,
		AppointmentBufferMinutes: cfg.Scheduling.AppointmentBufferMinutes,
		FallbackLunch: &domain.TimeInterval{
			Start: types.TimeString(cfg.Scheduling.LunchBreak.Start),
			End:   types.TimeString(cfg.Scheduling.LunchBreak.End),
		},
	}

	// Шина событий и планировщик напоминаний
	dispatcher := events.NewDispatcher()
	reminderScheduler := reminders.NewScheduler(
		notifyClient,
		domain.ReminderOffsetMinutes*time.Minute,
		log,
	)
	dispatcher.SubscribeAppointmentCreated(reminderScheduler.HandleAppointmentCreated)
	defer reminderScheduler.Stop()

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		staffClient,
		reminderScheduler,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		staffClient,
		clientClient,
		txMgr,
		dispatcher,
		schedulingConfig,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleRepository,
		appointmentRepository,
		staffClient,
		schedulingConfig,
		log,
	)

	updateScheduleUseCase := updateScheduleUC.NewUseCase(
		scheduleRepository,
		staffClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getEmployeeAppointments := getEmployeeAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(updateScheduleUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для записи
	api.HandleFunc("/employees/{employeeId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по номеру
	protected.HandleFunc("/appointments/reference/{reference}", getAppointment.HandleByReference).Methods(http.MethodGet)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Смена статуса записи (для сотрудников)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление сотрудниками (для сотрудников барбершопа) ---
	// Лист записей сотрудника на дату
	protected.HandleFunc("/employees/{employeeId}/appointments", getEmployeeAppointments.Handle).Methods(http.MethodGet)

	// Замена недельного расписания сотрудника
	protected.HandleFunc("/employees/{employeeId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
