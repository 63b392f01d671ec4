package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は勤怠記録に関するユースケースをまとめます。
type Service struct {
	records   Repository
	directory DirectoryGateway
	clock     Clock
	tx        TransactionManager
}

// UseCase は勤怠ユースケースの公開インターフェースです。
type UseCase interface {
	ClockIn(ctx context.Context, in ClockInInput) (*Record, error)
	ClockOut(ctx context.Context, in ClockOutInput) (*Record, error)
	GetRecord(ctx context.Context, id string) (*Record, error)
	ListEmployeeRecords(ctx context.Context, employeeID string) ([]*Record, error)
	MonthlyReport(ctx context.Context, in MonthlyReportInput) ([]*Record, error)
	DepartmentSummary(ctx context.Context, departmentID string) ([]*Record, error)
}

// NewService は Service を生成します。
func NewService(records Repository, directory DirectoryGateway, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		records:   records,
		directory: directory,
		clock:     clock,
		tx:        tx,
	}
}

// ClockInInput は出勤打刻の入力です。Arrival が未指定の場合は現在時刻が、
// Date が未指定の場合は Arrival の日付が使われます。
type ClockInInput struct {
	EmployeeID string
	Date       time.Time
	Arrival    time.Time
}

// ClockOutInput は退勤打刻の入力です。Departure が未指定の場合は現在時刻が
// 使われます。
type ClockOutInput struct {
	RecordID  string
	Departure time.Time
}

// MonthlyReportInput は月次レポートの入力です。
type MonthlyReportInput struct {
	EmployeeID string
	Year       int
	Month      int
}

// ClockIn は出勤を記録します。同一 (従業員, 日付) の記録が既に存在する場合、
// 未退勤であれば ErrAlreadyClockedIn、退勤済みであれば ErrDayAlreadyRecorded
// で失敗します。
func (s *Service) ClockIn(ctx context.Context, in ClockInInput) (*Record, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, fmt.Errorf("employee id: %w", ErrInvalidID)
	}

	arrival := in.Arrival
	if arrival.IsZero() {
		arrival = s.clock.Now()
	}

	date := normalizeDate(in.Date)
	if date.IsZero() {
		date = normalizeDate(arrival)
	}
	arrival = anchorTime(date, arrival)

	var created *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		employee, err := s.directory.GetEmployee(txCtx, in.EmployeeID)
		if err != nil {
			return err
		}

		existing, err := s.records.FindByEmployeeAndDate(txCtx, employee.ID, date)
		if err != nil && !errors.Is(err, ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			if existing.IsClosed() {
				return fmt.Errorf("employee %s, date %s: %w", employee.ID, date.Format("2006-01-02"), ErrDayAlreadyRecorded)
			}
			return fmt.Errorf("employee %s, date %s: %w", employee.ID, date.Format("2006-01-02"), ErrAlreadyClockedIn)
		}

		now := s.clock.Now()
		record := &Record{
			EmployeeID: employee.ID,
			Date:       date,
			Arrival:    arrival,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		result, err := s.records.Create(txCtx, record)
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// ClockOut は退勤を記録し、実働分数を確定します。退勤済みの記録は
// 再度退勤できません。
func (s *Service) ClockOut(ctx context.Context, in ClockOutInput) (*Record, error) {
	if strings.TrimSpace(in.RecordID) == "" {
		return nil, fmt.Errorf("record id: %w", ErrInvalidID)
	}

	departure := in.Departure
	if departure.IsZero() {
		departure = s.clock.Now()
	}

	var closed *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.records.FindByID(txCtx, in.RecordID)
		if err != nil {
			return err
		}

		updated, err := existing.Close(departure)
		if err != nil {
			return fmt.Errorf("record %s: %w", existing.ID, err)
		}
		updated.UpdatedAt = s.clock.Now()

		result, err := s.records.Update(txCtx, &updated)
		if err != nil {
			return err
		}

		closed = result
		return nil
	}); err != nil {
		return nil, err
	}

	return closed, nil
}

// GetRecord は ID で勤怠記録を取得します。
func (s *Service) GetRecord(ctx context.Context, id string) (*Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var record *Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.records.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		record = result
		return nil
	}); err != nil {
		return nil, err
	}

	return record, nil
}

// ListEmployeeRecords は従業員の全勤怠記録を日付昇順で取得します。
func (s *Service) ListEmployeeRecords(ctx context.Context, employeeID string) ([]*Record, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, fmt.Errorf("employee id: %w", ErrInvalidID)
	}

	var records []*Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employee, err := s.directory.GetEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		result, err := s.records.ListByEmployee(txCtx, employee.ID)
		if err != nil {
			return err
		}
		records = result
		return nil
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// MonthlyReport は指定した年月の勤怠記録を日付昇順で取得します。
func (s *Service) MonthlyReport(ctx context.Context, in MonthlyReportInput) ([]*Record, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, fmt.Errorf("employee id: %w", ErrInvalidID)
	}
	if in.Year <= 0 || in.Month < 1 || in.Month > 12 {
		return nil, fmt.Errorf("year %d, month %d: %w", in.Year, in.Month, ErrInvalidPeriod)
	}

	from := time.Date(in.Year, time.Month(in.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	var records []*Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employee, err := s.directory.GetEmployee(txCtx, in.EmployeeID)
		if err != nil {
			return err
		}

		result, err := s.records.ListByEmployeeBetween(txCtx, employee.ID, from, to)
		if err != nil {
			return err
		}
		records = result
		return nil
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// DepartmentSummary は部門所属従業員の勤怠記録を従業員の列挙順に連結して
// 返します。従業員を跨いだ日付の並べ替えは行いません。
func (s *Service) DepartmentSummary(ctx context.Context, departmentID string) ([]*Record, error) {
	if strings.TrimSpace(departmentID) == "" {
		return nil, fmt.Errorf("department id: %w", ErrInvalidID)
	}

	var records []*Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employees, err := s.directory.ListDepartmentEmployees(txCtx, departmentID)
		if err != nil {
			return err
		}

		for _, employee := range employees {
			result, err := s.records.ListByEmployee(txCtx, employee.ID)
			if err != nil {
				return err
			}
			records = append(records, result...)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return records, nil
}
