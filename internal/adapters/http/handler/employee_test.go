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

	"github.com/shopspring/decimal"

	"github.com/gestionemployes/employee-management-api/internal/core/directory"
)

func TestEmployeeHandler_Create(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		createEmployeeFn: func(_ context.Context, in directory.CreateEmployeeInput) (*directory.Employee, error) {
			now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
			return &directory.Employee{
				ID:           "emp-1",
				FirstName:    in.FirstName,
				LastName:     in.LastName,
				Email:        in.Email,
				DepartmentID: in.DepartmentID,
				Salary:       in.Salary,
				HiredAt:      in.HiredAt,
				Status:       directory.StatusActive,
				CreatedAt:    now,
				UpdatedAt:    now,
			}, nil
		},
	}
	router := newDepartmentTestRouter(uc)

	body := `{"prenom":"Jean","nom":"Dupont","email":"jean@example.com","departementId":"dep-1","salaire":"40000","dateEmbauche":"2023-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/employes", strings.NewReader(body))
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
	if resp["nom"] != "Dupont" || resp["dateEmbauche"] != "2023-01-15" || resp["statut"] != "ACTIVE" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestEmployeeHandler_Create_SalaryExceedsBudget(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		createEmployeeFn: func(_ context.Context, _ directory.CreateEmployeeInput) (*directory.Employee, error) {
			return nil, fmt.Errorf("salary 15000, budget 10000: %w", directory.ErrSalaryExceedsBudget)
		},
	}
	router := newDepartmentTestRouter(uc)

	body := `{"prenom":"Jean","nom":"Dupont","email":"jean@example.com","departementId":"dep-1","salaire":"15000","dateEmbauche":"2023-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/employes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestEmployeeHandler_Create_InvalidHireDate(t *testing.T) {
	t.Parallel()

	router := newDepartmentTestRouter(&stubDirectoryUseCase{})

	body := `{"prenom":"Jean","nom":"Dupont","email":"jean@example.com","departementId":"dep-1","salaire":"10000","dateEmbauche":"15/01/2023"}`
	req := httptest.NewRequest(http.MethodPost, "/api/employes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEmployeeHandler_Update_DuplicateEmail(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		updateEmployeeFn: func(_ context.Context, in directory.UpdateEmployeeInput) (*directory.Employee, error) {
			return nil, fmt.Errorf("email %q: %w", in.Email, directory.ErrEmailAlreadyExists)
		},
	}
	router := newDepartmentTestRouter(uc)

	body := `{"prenom":"Jean","nom":"Dupont","email":"taken@example.com","departementId":"dep-1","salaire":"40000","dateEmbauche":"2023-01-15","statut":"ACTIVE"}`
	req := httptest.NewRequest(http.MethodPut, "/api/employes/emp-1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEmployeeHandler_Deactivate_Blocked(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		deactivateEmployeeFn: func(_ context.Context, id string) (*directory.Employee, error) {
			return nil, fmt.Errorf("employee %s: %w", id, directory.ErrEmployeeHasAttendance)
		},
	}
	router := newDepartmentTestRouter(uc)

	req := httptest.NewRequest(http.MethodPatch, "/api/employes/emp-1/deactivate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestEmployeeHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		getEmployeeFn: func(_ context.Context, _ string) (*directory.Employee, error) {
			return nil, directory.ErrEmployeeNotFound
		},
	}
	router := newDepartmentTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/employes/emp-missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEmployeeHandler_List_PassesQueryParams(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		listEmployeesFn: func(_ context.Context, in directory.ListEmployeesInput) (*directory.ListEmployeesResult, error) {
			if in.Search != "dupont" || in.SortKey != "last_name" || in.PageSize != 10 || in.PageToken != "20" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &directory.ListEmployeesResult{
				Employees: []*directory.Employee{
					{
						ID:           "emp-1",
						FirstName:    "Jean",
						LastName:     "Dupont",
						Email:        "jean@example.com",
						DepartmentID: "dep-1",
						Salary:       decimal.RequireFromString("40000"),
						HiredAt:      time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
						Status:       directory.StatusActive,
					},
				},
				NextPageToken: "30",
			}, nil
		},
	}
	router := newDepartmentTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/employes?search=dupont&sort=last_name&size=10&pageToken=20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Employes      []map[string]any `json:"employes"`
		NextPageToken string           `json:"nextPageToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Employes) != 1 || resp.NextPageToken != "30" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestEmployeeHandler_List_InvalidSortKey(t *testing.T) {
	t.Parallel()

	uc := &stubDirectoryUseCase{
		listEmployeesFn: func(_ context.Context, in directory.ListEmployeesInput) (*directory.ListEmployeesResult, error) {
			return nil, fmt.Errorf("sort key %q: %w", in.SortKey, directory.ErrInvalidSortKey)
		},
	}
	router := newDepartmentTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/employes?sort=password", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
