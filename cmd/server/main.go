package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/gestionemployes/employee-management-api/internal/adapters/http"
	"github.com/gestionemployes/employee-management-api/internal/adapters/repository/postgres"
	"github.com/gestionemployes/employee-management-api/internal/core/attendance"
	"github.com/gestionemployes/employee-management-api/internal/core/directory"
	"github.com/gestionemployes/employee-management-api/internal/core/reporting"
	"github.com/gestionemployes/employee-management-api/internal/platform/config"
	pg "github.com/gestionemployes/employee-management-api/internal/platform/db/postgres"
	"github.com/gestionemployes/employee-management-api/internal/platform/logging"
	"github.com/gestionemployes/employee-management-api/internal/platform/server"
	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fallback := fallbackLogger()
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.Setup(cfg.Logging)

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database pool")
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	departmentRepo := postgres.NewDepartmentRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	attendanceRepo := postgres.NewAttendanceRepository(dbPool)

	directorySvc := directory.NewService(departmentRepo, employeeRepo, attendanceRepo, nil, txManager)
	attendanceSvc := attendance.NewService(attendanceRepo, directorySvc, nil, txManager)
	reportingSvc := reporting.NewService(attendanceRepo, employeeRepo, departmentRepo, txManager)

	router := httpadapter.NewRouter(logger, directorySvc, attendanceSvc, reportingSvc)
	httpServer := server.New(cfg.Server, router)

	logger.Info().Str("addr", cfg.Server.ListenAddr).Msg("HTTP server listening")

	if err := httpServer.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
}

func fallbackLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
