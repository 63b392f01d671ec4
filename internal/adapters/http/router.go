package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gestionemployes/employee-management-api/internal/adapters/http/handler"
	"github.com/gestionemployes/employee-management-api/internal/core/attendance"
	"github.com/gestionemployes/employee-management-api/internal/core/directory"
	"github.com/gestionemployes/employee-management-api/internal/core/reporting"
)

// NewRouter はすべての REST ルートを備えた gin エンジンを構築します。
func NewRouter(logger zerolog.Logger, directoryUC directory.UseCase, attendanceUC attendance.UseCase, reportingUC reporting.UseCase) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	handler.NewDepartmentHandler(directoryUC).Register(api)
	handler.NewEmployeeHandler(directoryUC).Register(api)
	handler.NewAttendanceHandler(attendanceUC).Register(api)
	handler.NewReportHandler(reportingUC).Register(api)

	return engine
}
