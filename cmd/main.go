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
	"github.com/redis/go-redis/v9"

	approveRequestHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/approve_request"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	createAppointmentRequestHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment_request"
	deleteAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getCompanyScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_company_schedule"
	listAppointmentRequestsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointment_requests"
	listAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	rejectRequestHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reject_request"
	updateAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment"
	updateCompanyScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_company_schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	requestRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/request"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	requestsService "github.com/m04kA/SMC-AppointmentService/internal/service/requests"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	approveRequestUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/approve_request"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	updateAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Schedule.Timezone, err)
	}
	scheduleDefaults := cfg.Schedule.Defaults()
	log.Info("Schedule defaults: timezone=%s, %s-%s, slot=%dm, days=%s",
		location, scheduleDefaults.StartTime, scheduleDefaults.EndTime,
		scheduleDefaults.SlotMinutes, scheduleDefaults.WorkingDays)

	// Инициализируем метрики (если включены); nil-коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	requestRepository := requestRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	professionalRepository := professionalRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Хранилище кэша свободных слотов
	var (
		slotStore   availability.Store
		redisClient *redis.Client
	)
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()
		slotStore = availability.NewRedisStore(redisClient, cfg.Cache.TTL())
		log.Info("Availability cache backend: redis (addr=%s, db=%d, ttl=%s)",
			cfg.Redis.Addr, cfg.Redis.DB, cfg.Cache.TTL())
	default:
		slotStore = availability.NewMemoryStore(cfg.Cache.TTL())
		log.Info("Availability cache backend: memory (ttl=%s)", cfg.Cache.TTL())
	}
	slotCache := availability.NewCache(slotStore, metricsCollector, log)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		slotCache,
		location,
		log,
	)
	requestSvc := requestsService.NewService(
		requestRepository,
		professionalRepository,
		metricsCollector,
		location,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		slotCache,
		scheduleDefaults,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		professionalRepository,
		slotCache,
		getAvailableSlotsUC.Options{
			Defaults:           scheduleDefaults,
			Location:           location,
			MaxParallelLookups: cfg.Schedule.MaxParallelLookups,
		},
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		professionalRepository,
		slotCache,
		txMgr,
		location,
		log,
	)
	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		appointmentRepository,
		professionalRepository,
		slotCache,
		txMgr,
		location,
		log,
	)
	approveRequestUseCase := approveRequestUC.NewUseCase(
		appointmentRepository,
		requestRepository,
		professionalRepository,
		slotCache,
		txMgr,
		metricsCollector,
		location,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	getCompanySchedule := getCompanyScheduleHandler.NewHandler(scheduleSvc, log)
	updateCompanySchedule := updateCompanyScheduleHandler.NewHandler(scheduleSvc, log)
	createAppointmentRequest := createAppointmentRequestHandler.NewHandler(requestSvc, log)
	listAppointmentRequests := listAppointmentRequestsHandler.NewHandler(requestSvc, log)
	rejectRequest := rejectRequestHandler.NewHandler(requestSvc, log)
	approveRequest := approveRequestHandler.NewHandler(approveRequestUseCase, location, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, location, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, location, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, location, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("/public").Subrouter()

	// Свободные слоты компании на дату
	public.HandleFunc("/companies/{companyId}/availability",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Действующее расписание компании
	public.HandleFunc("/companies/{companyId}/schedule",
		getCompanySchedule.Handle).Methods(http.MethodGet)

	// Заявка на запись из публичной формы
	public.HandleFunc("/appointment-requests",
		createAppointmentRequest.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Company-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", updateAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// --- Заявки ---
	protected.HandleFunc("/appointment-requests", listAppointmentRequests.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointment-requests/{id}/approve", approveRequest.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointment-requests/{id}/reject", rejectRequest.Handle).Methods(http.MethodPost)

	// --- Расписание компании ---
	protected.HandleFunc("/schedule", getCompanySchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/schedule", updateCompanySchedule.Handle).Methods(http.MethodPut)

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
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
