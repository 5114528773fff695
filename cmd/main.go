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

	applyToProgramHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/apply_to_program"
	bookShiftHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/book_shift"
	cancelApplicationHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/cancel_application"
	cancelShiftBookingHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/cancel_shift_booking"
	createProgramHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/create_program"
	createShiftHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/create_shift"
	deleteProgramHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/delete_program"
	deleteShiftHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/delete_shift"
	getProgramHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/get_program"
	getShiftAvailabilityHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/get_shift_availability"
	markAttendanceHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/mark_attendance"
	reviewApplicationHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/review_application"
	updateProgramHandler "github.com/campusvol/UVP-EnrollmentService/internal/api/handlers/update_program"
	"github.com/campusvol/UVP-EnrollmentService/internal/api/middleware"
	"github.com/campusvol/UVP-EnrollmentService/internal/config"
	attendanceRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/attendance"
	enrollmentRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/enrollment"
	programRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/program"
	shiftRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/shift"
	identityServiceClient "github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
	cascadeService "github.com/campusvol/UVP-EnrollmentService/internal/service/cascade"
	enrollmentsService "github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments"
	programsService "github.com/campusvol/UVP-EnrollmentService/internal/service/programs"
	bookShiftUC "github.com/campusvol/UVP-EnrollmentService/internal/usecase/book_shift"
	getShiftAvailabilityUC "github.com/campusvol/UVP-EnrollmentService/internal/usecase/get_shift_availability"
	"github.com/campusvol/UVP-EnrollmentService/pkg/dbmetrics"
	"github.com/campusvol/UVP-EnrollmentService/pkg/logger"
	"github.com/campusvol/UVP-EnrollmentService/pkg/metrics"
	"github.com/campusvol/UVP-EnrollmentService/pkg/simpletxmanager"
	"github.com/campusvol/UVP-EnrollmentService/pkg/txmanager"
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

	log.Info("Starting UVP-EnrollmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
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

	// Инициализируем клиент IdentityService
	identityClient := identityServiceClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (IdentityService=%s timeout=%ds)",
		cfg.IdentityService.URL, cfg.IdentityService.Timeout)

	// Интерфейс для transaction manager (используется сервисами и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	// Инициализируем репозитории (с метриками или без)
	var (
		programRepository    *programRepo.Repository
		shiftRepository      *shiftRepo.Repository
		enrollmentRepository *enrollmentRepo.Repository
		attendanceRepository *attendanceRepo.Repository
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		programRepository = programRepo.NewRepository(wrappedDB)
		shiftRepository = shiftRepo.NewRepository(wrappedDB)
		enrollmentRepository = enrollmentRepo.NewRepository(wrappedDB)
		attendanceRepository = attendanceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		programRepository = programRepo.NewRepository(db)
		shiftRepository = shiftRepo.NewRepository(db)
		enrollmentRepository = enrollmentRepo.NewRepository(db)
		attendanceRepository = attendanceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Менеджер каскадного удаления потомков
	cascade := cascadeService.NewManager(
		shiftRepository,
		enrollmentRepository,
		attendanceRepository,
		log,
	)

	// Инициализируем сервисы
	programsSvc := programsService.NewService(
		programRepository,
		shiftRepository,
		enrollmentRepository,
		attendanceRepository,
		cascade,
		identityClient,
		txMgr,
		&programsService.RealTimeProvider{},
		log,
	)
	enrollmentsSvc := enrollmentsService.NewService(
		programRepository,
		shiftRepository,
		enrollmentRepository,
		attendanceRepository,
		cascade,
		identityClient,
		txMgr,
		&enrollmentsService.RealTimeProvider{},
		log,
	)

	// Инициализируем usecases
	bookShiftUseCase := bookShiftUC.NewUseCase(
		shiftRepository,
		programRepository,
		enrollmentRepository,
		identityClient,
		txMgr,
		log,
	)
	getShiftAvailabilityUseCase := getShiftAvailabilityUC.NewUseCase(
		programRepository,
		shiftRepository,
		enrollmentRepository,
		log,
	)

	// Инициализируем handlers
	createProgram := createProgramHandler.NewHandler(programsSvc, log)
	getProgram := getProgramHandler.NewHandler(programsSvc, log)
	updateProgram := updateProgramHandler.NewHandler(programsSvc, log)
	deleteProgram := deleteProgramHandler.NewHandler(programsSvc, log)
	createShift := createShiftHandler.NewHandler(programsSvc, log)
	deleteShift := deleteShiftHandler.NewHandler(programsSvc, log)
	getShiftAvailability := getShiftAvailabilityHandler.NewHandler(getShiftAvailabilityUseCase, log)
	applyToProgram := applyToProgramHandler.NewHandler(enrollmentsSvc, log)
	reviewApplication := reviewApplicationHandler.NewHandler(enrollmentsSvc, log)
	cancelApplication := cancelApplicationHandler.NewHandler(enrollmentsSvc, log)
	bookShift := bookShiftHandler.NewHandler(bookShiftUseCase, log)
	cancelShiftBooking := cancelShiftBookingHandler.NewHandler(enrollmentsSvc, log)
	markAttendance := markAttendanceHandler.NewHandler(enrollmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Программа с этапом и отчетами
	api.HandleFunc("/programs/{programId}", getProgram.Handle).Methods(http.MethodGet)

	// Смены программы с доступными местами
	api.HandleFunc("/programs/{programId}/availability", getShiftAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Программы (менеджеры) ---
	protected.HandleFunc("/programs", createProgram.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/programs/{programId}", updateProgram.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/programs/{programId}", deleteProgram.Handle).Methods(http.MethodDelete)

	// --- Смены (менеджеры) ---
	protected.HandleFunc("/programs/{programId}/shifts", createShift.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/shifts/{shiftId}", deleteShift.Handle).Methods(http.MethodDelete)

	// --- Заявки волонтеров ---
	protected.HandleFunc("/programs/{programId}/applications", applyToProgram.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/programs/{programId}/applications", cancelApplication.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/applications/{applicationId}", reviewApplication.Handle).Methods(http.MethodPatch)

	// --- Бронирования смен ---
	protected.HandleFunc("/shifts/{shiftId}/bookings", bookShift.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/shifts/{shiftId}/bookings", cancelShiftBooking.Handle).Methods(http.MethodDelete)

	// --- Посещаемость (менеджеры) ---
	protected.HandleFunc("/shifts/{shiftId}/attendances", markAttendance.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
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
