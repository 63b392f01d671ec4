package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gestionemployes/employee-management-api/internal/core/directory"
)

const hireDateLayout = "2006-01-02"

// EmployeeHandler は従業員 REST エンドポイントを提供します。
type EmployeeHandler struct {
	uc directory.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(uc directory.UseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

// Register はルートを登録します。
func (h *EmployeeHandler) Register(rg *gin.RouterGroup) {
	employees := rg.Group("/employes")
	employees.POST("", h.create)
	employees.GET("", h.list)
	employees.GET("/:id", h.get)
	employees.PUT("/:id", h.update)
	employees.PATCH("/:id/deactivate", h.deactivate)
}

type employeeRequest struct {
	Prenom        string          `json:"prenom" binding:"required"`
	Nom           string          `json:"nom" binding:"required"`
	Email         string          `json:"email" binding:"required"`
	DepartementID string          `json:"departementId" binding:"required"`
	Salaire       decimal.Decimal `json:"salaire"`
	DateEmbauche  string          `json:"dateEmbauche" binding:"required"`
	Statut        string          `json:"statut"`
}

type employeeResponse struct {
	ID            string          `json:"id"`
	Prenom        string          `json:"prenom"`
	Nom           string          `json:"nom"`
	Email         string          `json:"email"`
	DepartementID string          `json:"departementId"`
	Salaire       decimal.Decimal `json:"salaire"`
	DateEmbauche  string          `json:"dateEmbauche"`
	Statut        string          `json:"statut"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toEmployeeResponse(e *directory.Employee) employeeResponse {
	return employeeResponse{
		ID:            e.ID,
		Prenom:        e.FirstName,
		Nom:           e.LastName,
		Email:         e.Email,
		DepartementID: e.DepartmentID,
		Salaire:       e.Salary,
		DateEmbauche:  e.HiredAt.Format(hireDateLayout),
		Statut:        string(e.Status),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func parseHireDate(raw string) (time.Time, error) {
	hired, err := time.Parse(hireDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("dateEmbauche must use format %s", hireDateLayout)
	}
	return hired, nil
}

func (h *EmployeeHandler) create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hired, err := parseHireDate(req.DateEmbauche)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.uc.CreateEmployee(c.Request.Context(), directory.CreateEmployeeInput{
		FirstName:    req.Prenom,
		LastName:     req.Nom,
		Email:        req.Email,
		DepartmentID: req.DepartementID,
		Salary:       req.Salaire,
		HiredAt:      hired,
		Status:       directory.EmployeeStatus(req.Statut),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

func (h *EmployeeHandler) update(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hired, err := parseHireDate(req.DateEmbauche)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := directory.EmployeeStatus(req.Statut)
	if req.Statut == "" {
		status = directory.StatusActive
	}

	updated, err := h.uc.UpdateEmployee(c.Request.Context(), directory.UpdateEmployeeInput{
		ID:           c.Param("id"),
		FirstName:    req.Prenom,
		LastName:     req.Nom,
		Email:        req.Email,
		DepartmentID: req.DepartementID,
		Salary:       req.Salaire,
		HiredAt:      hired,
		Status:       status,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

func (h *EmployeeHandler) deactivate(c *gin.Context) {
	deactivated, err := h.uc.DeactivateEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(deactivated))
}

func (h *EmployeeHandler) get(c *gin.Context) {
	employee, err := h.uc.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

func (h *EmployeeHandler) list(c *gin.Context) {
	pageSize, err := parseOptionalInt(c.Query("size"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be an integer"})
		return
	}

	result, err := h.uc.ListEmployees(c.Request.Context(), directory.ListEmployeesInput{
		Search:    c.Query("search"),
		SortKey:   c.Query("sort"),
		PageSize:  pageSize,
		PageToken: c.Query("pageToken"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	employees := make([]employeeResponse, 0, len(result.Employees))
	for _, e := range result.Employees {
		employees = append(employees, toEmployeeResponse(e))
	}

	c.JSON(http.StatusOK, gin.H{
		"employes":      employees,
		"nextPageToken": result.NextPageToken,
	})
}
