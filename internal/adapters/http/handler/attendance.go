package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestionemployes/employee-management-api/internal/core/attendance"
)

// AttendanceHandler は勤怠 REST エンドポイントを提供します。
type AttendanceHandler struct {
	uc attendance.UseCase
}

// NewAttendanceHandler は AttendanceHandler を生成します。
func NewAttendanceHandler(uc attendance.UseCase) *AttendanceHandler {
	return &AttendanceHandler{uc: uc}
}

// Register はルートを登録します。
func (h *AttendanceHandler) Register(rg *gin.RouterGroup) {
	presences := rg.Group("/presences")
	presences.POST("/arrivee", h.clockIn)
	presences.PATCH("/:id/depart", h.clockOut)
	presences.GET("/:id", h.get)
	presences.GET("/employe/:employeId", h.listByEmployee)
	presences.GET("/rapport/:employeId", h.monthlyReport)
	presences.GET("/departement/:departementId/resume", h.departmentSummary)
}

type clockInRequest struct {
	EmployeID    string     `json:"employeId" binding:"required"`
	Date         *time.Time `json:"date"`
	HeureArrivee *time.Time `json:"heureArrivee"`
}

type clockOutRequest struct {
	HeureDepart *time.Time `json:"heureDepart"`
}

type attendanceResponse struct {
	ID                 string     `json:"id"`
	EmployeID          string     `json:"employeId"`
	Date               string     `json:"date"`
	HeureArrivee       time.Time  `json:"heureArrivee"`
	HeureDepart        *time.Time `json:"heureDepart,omitempty"`
	MinutesTravaillees *int64     `json:"minutesTravaillees,omitempty"`
}

func toAttendanceResponse(r *attendance.Record) attendanceResponse {
	return attendanceResponse{
		ID:                 r.ID,
		EmployeID:          r.EmployeeID,
		Date:               r.Date.Format("2006-01-02"),
		HeureArrivee:       r.Arrival,
		HeureDepart:        r.Departure,
		MinutesTravaillees: r.WorkedMinutes,
	}
}

func toAttendanceResponses(records []*attendance.Record) []attendanceResponse {
	responses := make([]attendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toAttendanceResponse(r))
	}
	return responses
}

func (h *AttendanceHandler) clockIn(c *gin.Context) {
	var req clockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := attendance.ClockInInput{EmployeeID: req.EmployeID}
	if req.Date != nil {
		in.Date = *req.Date
	}
	if req.HeureArrivee != nil {
		in.Arrival = *req.HeureArrivee
	}

	record, err := h.uc.ClockIn(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAttendanceResponse(record))
}

func (h *AttendanceHandler) clockOut(c *gin.Context) {
	var req clockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := attendance.ClockOutInput{RecordID: c.Param("id")}
	if req.HeureDepart != nil {
		in.Departure = *req.HeureDepart
	}

	record, err := h.uc.ClockOut(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAttendanceResponse(record))
}

func (h *AttendanceHandler) get(c *gin.Context) {
	record, err := h.uc.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttendanceResponse(record))
}

func (h *AttendanceHandler) listByEmployee(c *gin.Context) {
	records, err := h.uc.ListEmployeeRecords(c.Request.Context(), c.Param("employeId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttendanceResponses(records))
}

func (h *AttendanceHandler) monthlyReport(c *gin.Context) {
	year, err := parseOptionalInt(c.Query("annee"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "annee must be an integer"})
		return
	}
	month, err := parseOptionalInt(c.Query("mois"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mois must be an integer"})
		return
	}

	records, err := h.uc.MonthlyReport(c.Request.Context(), attendance.MonthlyReportInput{
		EmployeeID: c.Param("employeId"),
		Year:       year,
		Month:      month,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAttendanceResponses(records))
}

func (h *AttendanceHandler) departmentSummary(c *gin.Context) {
	records, err := h.uc.DepartmentSummary(c.Request.Context(), c.Param("departementId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttendanceResponses(records))
}
