package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// Значения backend кэша слотов
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

var (
	// ErrInvalidConfig некорректная конфигурация
	ErrInvalidConfig = errors.New("invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Schedule ScheduleConfig `toml:"schedule"`
	Cache    CacheConfig    `toml:"cache"`
	Redis    RedisConfig    `toml:"redis"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"` // пусто - только stdout
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig часовой пояс компаний и расписание по умолчанию
type ScheduleConfig struct {
	Timezone           string `toml:"timezone"`
	StartTime          string `toml:"start_time"`
	EndTime            string `toml:"end_time"`
	SlotMinutes        int    `toml:"slot_minutes"`
	WorkingDays        string `toml:"working_days"`
	MaxParallelLookups int    `toml:"max_parallel_lookups"`
}

// Location часовой пояс, в котором трактуются даты и время компаний
func (c ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Defaults расписание для компаний без своих настроек
func (c ScheduleConfig) Defaults() scheduling.Defaults {
	return scheduling.Defaults{
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		SlotMinutes: c.SlotMinutes,
		WorkingDays: c.WorkingDays,
	}
}

type CacheConfig struct {
	Backend    string `toml:"backend"`     // memory | redis
	TTLSeconds int    `toml:"ttl_seconds"` // 0 - без срока жизни
}

// TTL срок жизни готового результата
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Load читает конфигурацию из TOML файла и заполняет пропущенные значения
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment_service",
		},
		Schedule: ScheduleConfig{
			Timezone:           "UTC",
			StartTime:          "09:00",
			EndTime:            "18:00",
			SlotMinutes:        30,
			WorkingDays:        "1,2,3,4,5",
			MaxParallelLookups: 4,
		},
		Cache: CacheConfig{
			Backend:    CacheBackendMemory,
			TTLSeconds: 300,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if _, err := c.Schedule.Location(); err != nil {
		return fmt.Errorf("%w: schedule.timezone=%q: %v", ErrInvalidConfig, c.Schedule.Timezone, err)
	}
	if _, err := scheduling.ResolvePolicy(nil, c.Schedule.Defaults()); err != nil {
		return fmt.Errorf("%w: schedule defaults: %v", ErrInvalidConfig, err)
	}
	if c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis {
		return fmt.Errorf("%w: cache.backend=%q, expected memory or redis", ErrInvalidConfig, c.Cache.Backend)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must not be negative", ErrInvalidConfig)
	}
	return nil
}
