package postgres

import (
	"context"
	"errors"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/gestionemployes/employee-management-api/internal/core/directory"
)

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	hired := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now().UTC()
	updatedAt := createdAt.Add(time.Minute)

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 10 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "emp-1"
		*(dest[1].(*string)) = "Jean"
		*(dest[2].(*string)) = "Dupont"
		*(dest[3].(*string)) = "jean@example.com"
		*(dest[4].(*string)) = "dep-1"

		salaryDest := dest[5].(*pgtype.Numeric)
		salaryDest.Int = big.NewInt(40000)
		salaryDest.Exp = 0
		salaryDest.Valid = true

		*(dest[6].(*time.Time)) = hired
		*(dest[7].(*string)) = string(directory.StatusActive)
		*(dest[8].(*time.Time)) = createdAt
		*(dest[9].(*time.Time)) = updatedAt
		return nil
	}}

	e, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}

	if e.Email != "jean@example.com" {
		t.Fatalf("unexpected email: %s", e.Email)
	}
	if !e.Salary.Equal(decimal.NewFromInt(40000)) {
		t.Fatalf("unexpected salary: %s", e.Salary)
	}
	if !e.HiredAt.Equal(hired) {
		t.Fatalf("unexpected hire date: %s", e.HiredAt)
	}
	if e.Status != directory.StatusActive {
		t.Fatalf("unexpected status: %s", e.Status)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, directory.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translateEmployeePgError(uniqueErr), directory.ErrEmailAlreadyExists) {
		t.Fatal("expected unique violation to map to ErrEmailAlreadyExists")
	}

	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "employees_department_id_fkey"}
	if !errors.Is(translateEmployeePgError(fkErr), directory.ErrDepartmentNotFound) {
		t.Fatal("expected fk violation to map to ErrDepartmentNotFound")
	}

	other := errors.New("other")
	if translateEmployeePgError(other) != other {
		t.Fatal("unexpected translation for generic error")
	}
}

func TestEmployeeRepository_List_InvalidSortKey(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	_, _, listErr := repo.List(context.Background(), directory.ListEmployeesFilter{
		SortKey: "drop table",
		Limit:   10,
	})
	if !errors.Is(listErr, directory.ErrInvalidSortKey) {
		t.Fatalf("expected ErrInvalidSortKey, got %v", listErr)
	}
}

func TestEmployeeRepository_ExistsByDepartment(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`
        SELECT EXISTS (SELECT 1 FROM employees WHERE department_id = $1)
    `)).
		WithArgs("dep-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByDepartment(context.Background(), "dep-1")
	if err != nil {
		t.Fatalf("ExistsByDepartment returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
