package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gestionemployes/employee-management-api/internal/core/directory"
	pgdb "github.com/gestionemployes/employee-management-api/internal/platform/db/postgres"
)

// employeeSortColumns はソートキーと列名の対応表です。ここに無いキーは
// 受け付けません。
var employeeSortColumns = map[string]string{
	"last_name":  "last_name",
	"email":      "email",
	"hired_at":   "hired_at",
	"salary":     "salary",
	"created_at": "created_at",
}

// EmployeeRepository は PostgreSQL を利用した従業員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は従業員を新規作成します。ID はアプリケーション側で採番します。
func (r *EmployeeRepository) Create(ctx context.Context, e *directory.Employee) (*directory.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (id, first_name, last_name, email, department_id, salary, hired_at, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, first_name, last_name, email, department_id, salary, hired_at, status, created_at, updated_at
    `,
		uuid.NewString(),
		e.FirstName,
		e.LastName,
		e.Email,
		e.DepartmentID,
		e.Salary.String(),
		e.HiredAt,
		string(e.Status),
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は従業員情報を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *directory.Employee) (*directory.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET first_name = $1,
               last_name = $2,
               email = $3,
               department_id = $4,
               salary = $5,
               hired_at = $6,
               status = $7,
               updated_at = $8
         WHERE id = $9
        RETURNING id, first_name, last_name, email, department_id, salary, hired_at, status, created_at, updated_at
    `,
		e.FirstName,
		e.LastName,
		e.Email,
		e.DepartmentID,
		e.Salary.String(),
		e.HiredAt,
		string(e.Status),
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// FindByID は ID で従業員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*directory.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, first_name, last_name, email, department_id, salary, hired_at, status, created_at, updated_at
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレスで従業員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*directory.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, first_name, last_name, email, department_id, salary, hired_at, status, created_at, updated_at
          FROM employees
         WHERE email = $1
         LIMIT 1
    `, email)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// ExistsByDepartment は部門に従業員が存在するかを返します。
func (r *EmployeeRepository) ExistsByDepartment(ctx context.Context, departmentID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM employees WHERE department_id = $1)
    `, departmentID)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, translateEmployeePgError(err)
	}
	return exists, nil
}

// ListByDepartment は部門に所属する従業員を姓・名の昇順で取得します。
func (r *EmployeeRepository) ListByDepartment(ctx context.Context, departmentID string) ([]*directory.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, first_name, last_name, email, department_id, salary, hired_at, status, created_at, updated_at
          FROM employees
         WHERE department_id = $1
         ORDER BY last_name ASC, first_name ASC, id ASC
    `, departmentID)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// List は従業員の一覧を取得します。Search は姓またはメールアドレスへの
// 部分一致です。
func (r *EmployeeRepository) List(ctx context.Context, filter directory.ListEmployeesFilter) ([]*directory.Employee, string, error) {
	if filter.Limit <= 0 {
		return nil, "", directory.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", directory.ErrInvalidPageToken
	}

	sortColumn := "created_at"
	if filter.SortKey != "" {
		column, ok := employeeSortColumns[filter.SortKey]
		if !ok {
			return nil, "", directory.ErrInvalidSortKey
		}
		sortColumn = column
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 3)
	whereClause := ""
	if filter.Search != "" {
		whereClause = " WHERE (last_name ILIKE $1 OR email ILIKE $1)"
		args = append(args, "%"+filter.Search+"%")
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT id, first_name, last_name, email, department_id, salary, hired_at, status, created_at, updated_at
          FROM employees` + whereClause + `
         ORDER BY ` + sortColumn + ` ASC, id ASC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateEmployeePgError(err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, "", err
	}

	var nextToken string
	if len(employees) == limitWithBuffer {
		employees = employees[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return employees, nextToken, nil
}

// ListAllEmployees は全従業員を取得します。レポート集計用です。
func (r *EmployeeRepository) ListAllEmployees(ctx context.Context) ([]*directory.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, first_name, last_name, email, department_id, salary, hired_at, status, created_at, updated_at
          FROM employees
         ORDER BY id ASC
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]*directory.Employee, error) {
	var employees []*directory.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*directory.Employee, error) {
	var (
		id           string
		firstName    string
		lastName     string
		email        string
		departmentID string
		salary       pgtype.Numeric
		hiredAt      time.Time
		status       string
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(&id, &firstName, &lastName, &email, &departmentID, &salary, &hiredAt, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, directory.ErrEmployeeNotFound
		}
		return nil, err
	}

	salaryValue, err := decimalFromNumeric(salary)
	if err != nil {
		return nil, err
	}

	hired := hiredAt.UTC()

	return &directory.Employee{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		DepartmentID: departmentID,
		Salary:       salaryValue,
		HiredAt:      time.Date(hired.Year(), hired.Month(), hired.Day(), 0, 0, 0, 0, time.UTC),
		Status:       directory.EmployeeStatus(status),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return directory.ErrEmailAlreadyExists
		case foreignKeyViolationCode:
			if pgErr.ConstraintName == "employees_department_id_fkey" {
				return directory.ErrDepartmentNotFound
			}
		}
	}

	return err
}
