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
	"github.com/shopspring/decimal"

	"github.com/gestionemployes/employee-management-api/internal/core/directory"
	pgdb "github.com/gestionemployes/employee-management-api/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// DepartmentRepository は PostgreSQL を利用した部門永続化の実装です。
type DepartmentRepository struct {
	pool pgdb.Queryer
}

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(pool pgdb.Queryer) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

// Create は部門を新規作成します。ID はアプリケーション側で採番します。
func (r *DepartmentRepository) Create(ctx context.Context, d *directory.Department) (*directory.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO departments (id, name, manager_id, budget, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, name, manager_id, budget, created_at, updated_at
    `,
		uuid.NewString(),
		d.Name,
		d.ManagerID,
		d.Budget.String(),
		d.CreatedAt,
		d.UpdatedAt,
	)

	created, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return created, nil
}

// Update は部門情報を更新します。
func (r *DepartmentRepository) Update(ctx context.Context, d *directory.Department) (*directory.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE departments
           SET name = $1,
               manager_id = $2,
               budget = $3,
               updated_at = $4
         WHERE id = $5
        RETURNING id, name, manager_id, budget, created_at, updated_at
    `,
		d.Name,
		d.ManagerID,
		d.Budget.String(),
		d.UpdatedAt,
		d.ID,
	)

	updated, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return updated, nil
}

// Delete は部門を削除します。
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return translateDepartmentPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return directory.ErrDepartmentNotFound
	}
	return nil
}

// FindByID は ID で部門を取得します。
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*directory.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, manager_id, budget, created_at, updated_at
          FROM departments
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return found, nil
}

// FindByName は部門名で部門を取得します。
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*directory.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, manager_id, budget, created_at, updated_at
          FROM departments
         WHERE name = $1
         LIMIT 1
    `, name)

	found, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return found, nil
}

// List は部門の一覧を名前の昇順で取得します。
func (r *DepartmentRepository) List(ctx context.Context, filter directory.ListDepartmentsFilter) ([]*directory.Department, string, error) {
	if filter.Limit <= 0 {
		return nil, "", directory.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", directory.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, name, manager_id, budget, created_at, updated_at
          FROM departments
         ORDER BY name ASC, id ASC
         LIMIT $1
        OFFSET $2
    `, limitWithBuffer, filter.Offset)
	if err != nil {
		return nil, "", translateDepartmentPgError(err)
	}
	defer rows.Close()

	departments := make([]*directory.Department, 0, filter.Limit)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, "", translateDepartmentPgError(err)
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateDepartmentPgError(err)
	}

	var nextToken string
	if len(departments) == limitWithBuffer {
		departments = departments[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return departments, nextToken, nil
}

// ListAllDepartments は全部門を取得します。レポート集計用です。
func (r *DepartmentRepository) ListAllDepartments(ctx context.Context) ([]*directory.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, name, manager_id, budget, created_at, updated_at
          FROM departments
         ORDER BY name ASC, id ASC
    `)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	defer rows.Close()

	var departments []*directory.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, translateDepartmentPgError(err)
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, translateDepartmentPgError(err)
	}

	return departments, nil
}

func scanDepartment(row pgx.Row) (*directory.Department, error) {
	var (
		id        string
		name      string
		managerID *string
		budget    pgtype.Numeric
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &managerID, &budget, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, directory.ErrDepartmentNotFound
		}
		return nil, err
	}

	budgetValue, err := decimalFromNumeric(budget)
	if err != nil {
		return nil, err
	}

	return &directory.Department{
		ID:        id,
		Name:      name,
		ManagerID: managerID,
		Budget:    budgetValue,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func translateDepartmentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return directory.ErrDepartmentNameAlreadyExists
		case foreignKeyViolationCode:
			switch pgErr.ConstraintName {
			case "employees_department_id_fkey":
				return directory.ErrDepartmentHasEmployees
			case "departments_manager_id_fkey":
				return directory.ErrEmployeeNotFound
			default:
				return err
			}
		}
	}

	return err
}

// decimalFromNumeric は pgtype.Numeric を decimal.Decimal へ変換します。
func decimalFromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.Int == nil {
		return decimal.Zero, nil
	}
	if n.NaN {
		return decimal.Zero, errors.New("postgres: numeric is NaN")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}
