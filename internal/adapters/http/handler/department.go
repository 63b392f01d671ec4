package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gestionemployes/employee-management-api/internal/core/directory"
)

// DepartmentHandler は部門 REST エンドポイントを提供します。
type DepartmentHandler struct {
	uc directory.UseCase
}

// NewDepartmentHandler は DepartmentHandler を生成します。
func NewDepartmentHandler(uc directory.UseCase) *DepartmentHandler {
	return &DepartmentHandler{uc: uc}
}

// Register はルートを登録します。
func (h *DepartmentHandler) Register(rg *gin.RouterGroup) {
	departments := rg.Group("/departements")
	departments.POST("", h.create)
	departments.GET("", h.list)
	departments.GET("/:id", h.get)
	departments.PUT("/:id", h.update)
	departments.DELETE("/:id", h.delete)
	departments.GET("/:id/employes", h.listEmployees)
	departments.GET("/:id/rapport-budget", h.budget)
}

type departmentRequest struct {
	Nom       string          `json:"nom" binding:"required"`
	ManagerID *string         `json:"managerId"`
	Budget    decimal.Decimal `json:"budget"`
}

type departmentResponse struct {
	ID        string          `json:"id"`
	Nom       string          `json:"nom"`
	ManagerID *string         `json:"managerId,omitempty"`
	Budget    decimal.Decimal `json:"budget"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toDepartmentResponse(d *directory.Department) departmentResponse {
	return departmentResponse{
		ID:        d.ID,
		Nom:       d.Name,
		ManagerID: d.ManagerID,
		Budget:    d.Budget,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (h *DepartmentHandler) create(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.uc.CreateDepartment(c.Request.Context(), directory.CreateDepartmentInput{
		Name:      req.Nom,
		ManagerID: req.ManagerID,
		Budget:    req.Budget,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDepartmentResponse(created))
}

func (h *DepartmentHandler) update(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.uc.UpdateDepartment(c.Request.Context(), directory.UpdateDepartmentInput{
		ID:        c.Param("id"),
		Name:      req.Nom,
		ManagerID: req.ManagerID,
		Budget:    req.Budget,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDepartmentResponse(updated))
}

func (h *DepartmentHandler) delete(c *gin.Context) {
	if err := h.uc.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DepartmentHandler) get(c *gin.Context) {
	department, err := h.uc.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepartmentResponse(department))
}

func (h *DepartmentHandler) list(c *gin.Context) {
	pageSize, err := parseOptionalInt(c.Query("size"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be an integer"})
		return
	}

	result, err := h.uc.ListDepartments(c.Request.Context(), directory.ListDepartmentsInput{
		PageSize:  pageSize,
		PageToken: c.Query("pageToken"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	departments := make([]departmentResponse, 0, len(result.Departments))
	for _, d := range result.Departments {
		departments = append(departments, toDepartmentResponse(d))
	}

	c.JSON(http.StatusOK, gin.H{
		"departements":  departments,
		"nextPageToken": result.NextPageToken,
	})
}

func (h *DepartmentHandler) listEmployees(c *gin.Context) {
	employees, err := h.uc.ListDepartmentEmployees(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, toEmployeeResponse(e))
	}

	c.JSON(http.StatusOK, responses)
}

func (h *DepartmentHandler) budget(c *gin.Context) {
	id := c.Param("id")
	budget, err := h.uc.GetDepartmentBudget(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"departementId": id,
		"budget":        budget,
	})
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
