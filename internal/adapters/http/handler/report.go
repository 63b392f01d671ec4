package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestionemployes/employee-management-api/internal/core/reporting"
)

// ReportHandler はレポート REST エンドポイントを提供します。
type ReportHandler struct {
	uc reporting.UseCase
}

// NewReportHandler は ReportHandler を生成します。
func NewReportHandler(uc reporting.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Register はルートを登録します。
func (h *ReportHandler) Register(rg *gin.RouterGroup) {
	reports := rg.Group("/rapports")
	reports.GET("/presences/trends-stats", h.trendsAndStats)
	reports.GET("/salaires/resume-par-departement", h.salarySummary)
}

func (h *ReportHandler) trendsAndStats(c *gin.Context) {
	report, err := h.uc.TrendsAndStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) salarySummary(c *gin.Context) {
	summaries, err := h.uc.SalarySummaryByDepartment(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}
