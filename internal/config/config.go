package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server        Server      `toml:"server"`
	Database      Database    `toml:"database"`
	Logs          Logs        `toml:"logs"`
	Metrics       Metrics     `toml:"metrics"`
	Scheduling    Scheduling  `toml:"scheduling"`
	StaffService  Integration `toml:"staff_service"`
	ClientService Integration `toml:"client_service"`
	NotifyService Integration `toml:"notify_service"`
}

// Server настройки HTTP сервера
type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Database настройки подключения к postgres
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки prometheus-метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LunchBreak запасное окно обеденного перерыва
// Применяется только если у сотрудника нет явного правила перерыва —
// сохранено для совместимости со старым поведением
type LunchBreak struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// Scheduling общесервисные настройки расчета слотов
type Scheduling struct {
	SlotIntervalMinutes      int        `toml:"slot_interval_minutes"`
	AppointmentBufferMinutes int        `toml:"appointment_buffer_minutes"`
	LunchBreak               LunchBreak `toml:"lunch_break"`
}

// Integration настройки HTTP-клиента внешнего сервиса
type Integration struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load загружает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scheduling.SlotIntervalMinutes == 0 {
		cfg.Scheduling.SlotIntervalMinutes = 15
	}
	if cfg.Scheduling.LunchBreak.Start == "" && cfg.Scheduling.LunchBreak.End == "" {
		cfg.Scheduling.LunchBreak.Start = "12:00"
		cfg.Scheduling.LunchBreak.End = "13:00"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "sc-appointment-service"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if cfg.Scheduling.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("scheduling.slot_interval_minutes must be positive")
	}
	if cfg.Scheduling.AppointmentBufferMinutes < 0 {
		return fmt.Errorf("scheduling.appointment_buffer_minutes must not be negative")
	}

	start, err := time.Parse("15:04", cfg.Scheduling.LunchBreak.Start)
	if err != nil {
		return fmt.Errorf("scheduling.lunch_break.start: %v", err)
	}
	end, err := time.Parse("15:04", cfg.Scheduling.LunchBreak.End)
	if err != nil {
		return fmt.Errorf("scheduling.lunch_break.end: %v", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("scheduling.lunch_break: start must be before end")
	}
	return nil
}
