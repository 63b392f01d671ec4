package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gestionemployes/employee-management-api/internal/core/attendance"
	"github.com/gestionemployes/employee-management-api/internal/core/directory"
	pgdb "github.com/gestionemployes/employee-management-api/internal/platform/db/postgres"
)

// AttendanceRepository は PostgreSQL を利用した勤怠記録永続化の実装です。
// directory.AttendanceChecker と reporting.RecordSource も兼ねます。
type AttendanceRepository struct {
	pool pgdb.Queryer
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(pool pgdb.Queryer) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Create は勤怠記録を新規作成します。(employee_id, date) の一意制約により、
// 同時刻に競合した出勤打刻の一方は ErrDayAlreadyRecorded で失敗します。
func (r *AttendanceRepository) Create(ctx context.Context, record *attendance.Record) (*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO attendance_records (id, employee_id, date, arrival, departure, worked_minutes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, employee_id, date, arrival, departure, worked_minutes, created_at, updated_at
    `,
		uuid.NewString(),
		record.EmployeeID,
		record.Date,
		record.Arrival,
		record.Departure,
		record.WorkedMinutes,
		record.CreatedAt,
		record.UpdatedAt,
	)

	created, err := scanAttendanceRecord(row)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	return created, nil
}

// Update は勤怠記録を更新します。
func (r *AttendanceRepository) Update(ctx context.Context, record *attendance.Record) (*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE attendance_records
           SET departure = $1,
               worked_minutes = $2,
               updated_at = $3
         WHERE id = $4
        RETURNING id, employee_id, date, arrival, departure, worked_minutes, created_at, updated_at
    `,
		record.Departure,
		record.WorkedMinutes,
		record.UpdatedAt,
		record.ID,
	)

	updated, err := scanAttendanceRecord(row)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	return updated, nil
}

// FindByID は ID で勤怠記録を取得します。
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, employee_id, date, arrival, departure, worked_minutes, created_at, updated_at
          FROM attendance_records
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanAttendanceRecord(row)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	return found, nil
}

// FindByEmployeeAndDate は従業員と日付で勤怠記録を取得します。
func (r *AttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, employee_id, date, arrival, departure, worked_minutes, created_at, updated_at
          FROM attendance_records
         WHERE employee_id = $1 AND date = $2
         LIMIT 1
    `, employeeID, date)

	found, err := scanAttendanceRecord(row)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	return found, nil
}

// ListByEmployee は従業員の全勤怠記録を日付昇順で取得します。
func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, date, arrival, departure, worked_minutes, created_at, updated_at
          FROM attendance_records
         WHERE employee_id = $1
         ORDER BY date ASC
    `, employeeID)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	defer rows.Close()

	return collectAttendanceRecords(rows)
}

// ListByEmployeeBetween は従業員の勤怠記録を日付範囲 (両端含む) で取得します。
func (r *AttendanceRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, date, arrival, departure, worked_minutes, created_at, updated_at
          FROM attendance_records
         WHERE employee_id = $1 AND date BETWEEN $2 AND $3
         ORDER BY date ASC
    `, employeeID, from, to)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	defer rows.Close()

	return collectAttendanceRecords(rows)
}

// HasRecords は従業員に勤怠記録が 1 件でも存在するかを返します。
func (r *AttendanceRepository) HasRecords(ctx context.Context, employeeID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM attendance_records WHERE employee_id = $1)
    `, employeeID)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, translateAttendancePgError(err)
	}
	return exists, nil
}

// ListAllRecords は全勤怠記録を取得します。レポート集計用です。
func (r *AttendanceRepository) ListAllRecords(ctx context.Context) ([]*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, date, arrival, departure, worked_minutes, created_at, updated_at
          FROM attendance_records
         ORDER BY date ASC, id ASC
    `)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	defer rows.Close()

	return collectAttendanceRecords(rows)
}

func collectAttendanceRecords(rows pgx.Rows) ([]*attendance.Record, error) {
	var records []*attendance.Record
	for rows.Next() {
		record, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, translateAttendancePgError(err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, translateAttendancePgError(err)
	}

	return records, nil
}

func scanAttendanceRecord(row pgx.Row) (*attendance.Record, error) {
	var (
		id            string
		employeeID    string
		date          time.Time
		arrival       time.Time
		departure     *time.Time
		workedMinutes *int64
		createdAt     time.Time
		updatedAt     time.Time
	)

	if err := row.Scan(&id, &employeeID, &date, &arrival, &departure, &workedMinutes, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, err
	}

	day := date.UTC()

	return &attendance.Record{
		ID:            id,
		EmployeeID:    employeeID,
		Date:          time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		Arrival:       arrival.UTC(),
		Departure:     departure,
		WorkedMinutes: workedMinutes,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

func translateAttendancePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return attendance.ErrDayAlreadyRecorded
		case foreignKeyViolationCode:
			if pgErr.ConstraintName == "attendance_records_employee_id_fkey" {
				return directory.ErrEmployeeNotFound
			}
		}
	}

	return err
}
