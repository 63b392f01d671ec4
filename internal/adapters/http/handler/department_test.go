package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gestionemployes/employee-management-api/internal/core/directory"
)

type stubDirectoryUseCase struct {
	createDepartmentFn        func(ctx context.Context, in directory.CreateDepartmentInput) (*directory.Department, error)
	updateDepartmentFn        func(ctx context.Context, in directory.UpdateDepartmentInput) (*directory.Department, error)
	deleteDepartmentFn        func(ctx context.Context, id string) error
	getDepartmentFn           func(ctx context.Context, id string) (*directory.Department, error)
	listDepartmentsFn         func(ctx context.Context, in directory.ListDepartmentsInput) (*directory.ListDepartmentsResult, error)
	listDepartmentEmployeesFn func(ctx context.Context, departmentID string) ([]*directory.Employee, error)
	getDepartmentBudgetFn     func(ctx context.Context, departmentID string) (decimal.Decimal, error)
	createEmployeeFn          func(ctx context.Context, in directory.CreateEmployeeInput) (*directory.Employee, error)
	updateEmployeeFn          func(ctx context.Context, in directory.UpdateEmployeeInput) (*directory.Employee, error)
	deactivateEmployeeFn      func(ctx context.Context, id string) (*directory.Employee, error)
	getEmployeeFn             func(ctx context.Context, id string) (*directory.Employee, error)
	listEmployeesFn           func(ctx context.Context, in directory.ListEmployeesInput) (*directory.ListEmployeesResult, error)
}

func (s *stubDirectoryUseCase) CreateDepartment(ctx context.Context, in directory.CreateDepartmentInput) (*directory.Department, error) {
	return s.createDepartmentFn(ctx, in)
}

func (s *stubDirectoryUseCase) UpdateDepartment(ctx context.Context, in directory.UpdateDepartmentInput) (*directory.Department, error) {
	return s.updateDepartmentFn(ctx, in)
}

func (s *stubDirectoryUseCase) DeleteDepartment(ctx context.Context, id string) error {
	return s.deleteDepartmentFn(ctx, id)
}

func (s *stubDirectoryUseCase) GetDepartment(ctx context.Context, id string) (*directory.Department, error) {
	return s.getDepartmentFn(ctx, id)
}

func (s *stubDirectoryUseCase) ListDepartments(ctx context.Context, in directory.ListDepartmentsInput) (*directory.ListDepartmentsResult, error) {
	return s.listDepartmentsFn(ctx, in)
}

func (s *stubDirectoryUseCase) ListDepartmentEmployees(ctx context.Context, departmentID string) ([]*directory.Employee, error) {
	return s.listDepartmentEmployeesFn(ctx, departmentID)
}

func (s *stubDirectoryUseCase) GetDepartmentBudget(ctx context.Context, departmentID string) (decimal.Decimal, error) {
	return s.getDepartmentBudgetFn(ctx, departmentID)
}

func (s *stubDirectoryUseCase) CreateEmployee(ctx context.Context, in directory.CreateEmployeeInput) (*directory.Employee, error) {
	return s.createEmployeeFn(ctx, in)
}

func (s *stubDirectoryUseCase) UpdateEmployee(ctx context.Context, in directory.UpdateEmployeeInput) (*directory.Employee, error) {
	return s.updateEmployeeFn(ctx, in)
}

func (s *stubDirectoryUseCase) DeactivateEmployee(ctx context.Context, id string) (*directory.Employee, error) {
	return s.deactivateEmployeeFn(ctx, id)
}

func (s *stubDirectoryUseCase) GetEmployee(ctx context.Context, id string) (*directory.Employee, error) {
	return s.getEmployeeFn(ctx, id)
}

func (s *stubDirectoryUseCase) ListEmployees(ctx context.Context, in directory.ListEmployeesInput) (*directory.ListEmployeesResult, error) {
	return s.listEmployeesFn(ctx, in)
}

func newDepartmentTestRouter(uc directory.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api")
	NewDepartmentHandler(uc).Register(api)
	NewEmployeeHandler(uc).Register(api)
	return engine
}

func TestDepartmentHandler_Create(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		createDepartmentFn: func(_ context.Context, in directory.CreateDepartmentInput) (*directory.Department, error) {
			now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
			return &directory.Department{
				ID:        "dep-1",
				Name:      in.Name,
				Budget:    in.Budget,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		},
	}
	router := newDepartmentTestRouter(uc)

	body := `{"nom":"Ventes","budget":"50000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/departements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["nom"] != "Ventes" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestDepartmentHandler_Create_DuplicateName(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		createDepartmentFn: func(_ context.Context, _ directory.CreateDepartmentInput) (*directory.Department, error) {
			return nil, fmt.Errorf("name %q: %w", "Ventes", directory.ErrDepartmentNameAlreadyExists)
		},
	}
	router := newDepartmentTestRouter(uc)

	body := `{"nom":"Ventes","budget":"50000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/departements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDepartmentHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		getDepartmentFn: func(_ context.Context, _ string) (*directory.Department, error) {
			return nil, directory.ErrDepartmentNotFound
		},
	}
	router := newDepartmentTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/departements/dep-missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDepartmentHandler_Budget(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		getDepartmentBudgetFn: func(_ context.Context, _ string) (decimal.Decimal, error) {
			return decimal.RequireFromString("50000"), nil
		},
	}
	router := newDepartmentTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/departements/dep-1/rapport-budget", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["departementId"] != "dep-1" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

