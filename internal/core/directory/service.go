package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
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

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

var employeeSortKeys = map[string]struct{}{
	"last_name":  {},
	"email":      {},
	"hired_at":   {},
	"salary":     {},
	"created_at": {},
}

// Service は部門と従業員に関するユースケースをまとめます。
type Service struct {
	departments DepartmentRepository
	employees   EmployeeRepository
	attendance  AttendanceChecker
	clock       Clock
	tx          TransactionManager
}

// UseCase は部門・従業員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*Department, error)
	UpdateDepartment(ctx context.Context, in UpdateDepartmentInput) (*Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	GetDepartment(ctx context.Context, id string) (*Department, error)
	ListDepartments(ctx context.Context, in ListDepartmentsInput) (*ListDepartmentsResult, error)
	ListDepartmentEmployees(ctx context.Context, departmentID string) ([]*Employee, error)
	GetDepartmentBudget(ctx context.Context, departmentID string) (decimal.Decimal, error)

	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeactivateEmployee(ctx context.Context, id string) (*Employee, error)
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
}

// NewService は Service を生成します。
func NewService(departments DepartmentRepository, employees EmployeeRepository, attendance AttendanceChecker, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		departments: departments,
		employees:   employees,
		attendance:  attendance,
		clock:       clock,
		tx:          tx,
	}
}

// CreateDepartmentInput は部門作成時の入力です。
type CreateDepartmentInput struct {
	Name      string
	ManagerID *string
	Budget    decimal.Decimal
}

// UpdateDepartmentInput は部門更新時の入力です。名前と予算は常に上書きされ、
// ManagerID が nil の場合はマネージャー参照が解除されます。
type UpdateDepartmentInput struct {
	ID        string
	Name      string
	ManagerID *string
	Budget    decimal.Decimal
}

// ListDepartmentsInput は部門一覧取得時の入力です。
type ListDepartmentsInput struct {
	PageSize  int
	PageToken string
}

// ListDepartmentsResult は部門一覧取得結果を表します。
type ListDepartmentsResult struct {
	Departments   []*Department
	NextPageToken string
}

// CreateEmployeeInput は従業員作成時の入力です。
type CreateEmployeeInput struct {
	FirstName    string
	LastName     string
	Email        string
	DepartmentID string
	Salary       decimal.Decimal
	HiredAt      time.Time
	Status       EmployeeStatus
}

// UpdateEmployeeInput は従業員更新時の入力です。全フィールドが適用されます。
type UpdateEmployeeInput struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	DepartmentID string
	Salary       decimal.Decimal
	HiredAt      time.Time
	Status       EmployeeStatus
}

// ListEmployeesInput は従業員一覧取得時の入力です。
type ListEmployeesInput struct {
	Search    string
	SortKey   string
	PageSize  int
	PageToken string
}

// ListEmployeesResult は従業員一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees     []*Employee
	NextPageToken string
}

// CreateDepartment は新しい部門を作成します。マネージャーは存在確認のみ行い、
// 所属部門の整合チェックは更新時に限って適用されます。
func (s *Service) CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*Department, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if in.Budget.IsNegative() {
		return nil, ErrNegativeBudget
	}

	var created *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureDepartmentNameNotExists(txCtx, name); err != nil {
			return err
		}

		var managerID *string
		if in.ManagerID != nil {
			manager, err := s.employees.FindByID(txCtx, *in.ManagerID)
			if err != nil {
				if errors.Is(err, ErrEmployeeNotFound) {
					return fmt.Errorf("manager %s: %w", *in.ManagerID, ErrEmployeeNotFound)
				}
				return err
			}
			id := manager.ID
			managerID = &id
		}

		now := s.clock.Now()
		department := &Department{
			Name:      name,
			ManagerID: managerID,
			Budget:    in.Budget,
			CreatedAt: now,
			UpdatedAt: now,
		}

		result, err := s.departments.Create(txCtx, department)
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

// UpdateDepartment は部門情報を更新します。マネージャーを設定する場合、
// その従業員は当該部門に所属していなければなりません。
func (s *Service) UpdateDepartment(ctx context.Context, in UpdateDepartmentInput) (*Department, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if in.Budget.IsNegative() {
		return nil, ErrNegativeBudget
	}

	var updated *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.departments.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if name != existing.Name {
			if err := s.ensureDepartmentNameNotExists(txCtx, name); err != nil {
				return err
			}
		}

		existing.Name = name
		existing.Budget = in.Budget

		if in.ManagerID != nil {
			manager, err := s.employees.FindByID(txCtx, *in.ManagerID)
			if err != nil {
				if errors.Is(err, ErrEmployeeNotFound) {
					return fmt.Errorf("manager %s: %w", *in.ManagerID, ErrEmployeeNotFound)
				}
				return err
			}
			if manager.DepartmentID != existing.ID {
				return fmt.Errorf("manager %s, department %s: %w", manager.ID, existing.ID, ErrManagerNotInDepartment)
			}
			id := manager.ID
			existing.ManagerID = &id
		} else {
			existing.ManagerID = nil
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.departments.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteDepartment は従業員が 1 人も所属していない部門を削除します。
func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		department, err := s.departments.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		hasEmployees, err := s.employees.ExistsByDepartment(txCtx, department.ID)
		if err != nil {
			return err
		}
		if hasEmployees {
			return fmt.Errorf("department %s: %w", department.ID, ErrDepartmentHasEmployees)
		}

		return s.departments.Delete(txCtx, department.ID)
	})
}

// GetDepartment は ID で部門を取得します。
func (s *Service) GetDepartment(ctx context.Context, id string) (*Department, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var department *Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.departments.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		department = result
		return nil
	}); err != nil {
		return nil, err
	}

	return department, nil
}

// ListDepartments は部門の一覧を取得します。
func (s *Service) ListDepartments(ctx context.Context, in ListDepartmentsInput) (*ListDepartmentsResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var (
		departments []*Department
		nextToken   string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.departments.List(txCtx, ListDepartmentsFilter{Limit: limit, Offset: offset})
		if err != nil {
			return err
		}
		departments = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListDepartmentsResult{Departments: departments, NextPageToken: nextToken}, nil
}

// ListDepartmentEmployees は部門に所属する従業員の一覧を取得します。
func (s *Service) ListDepartmentEmployees(ctx context.Context, departmentID string) ([]*Employee, error) {
	if strings.TrimSpace(departmentID) == "" {
		return nil, fmt.Errorf("department id: %w", ErrInvalidID)
	}

	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		department, err := s.departments.FindByID(txCtx, departmentID)
		if err != nil {
			return err
		}

		result, err := s.employees.ListByDepartment(txCtx, department.ID)
		if err != nil {
			return err
		}
		employees = result
		return nil
	}); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetDepartmentBudget は部門の予算を返します。
func (s *Service) GetDepartmentBudget(ctx context.Context, departmentID string) (decimal.Decimal, error) {
	department, err := s.GetDepartment(ctx, departmentID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return department.Budget, nil
}

// CreateEmployee は新しい従業員を作成します。給与は正の値であり、かつ
// 所属部門の予算以下でなければなりません。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	firstName, lastName, err := normalizePersonName(in.FirstName, in.LastName)
	if err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.DepartmentID) == "" {
		return nil, fmt.Errorf("department id: %w", ErrInvalidID)
	}

	status := StatusActive
	if in.Status != "" {
		if !isValidStatus(in.Status) {
			return nil, ErrInvalidStatus
		}
		status = in.Status
	}

	hiredAt := normalizeDate(in.HiredAt)
	if err := s.validateHireDate(hiredAt); err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailNotExists(txCtx, email, ""); err != nil {
			return err
		}

		department, err := s.departments.FindByID(txCtx, in.DepartmentID)
		if err != nil {
			return err
		}

		if err := validateSalaryAgainstBudget(in.Salary, department); err != nil {
			return err
		}

		now := s.clock.Now()
		employee := &Employee{
			FirstName:    firstName,
			LastName:     lastName,
			Email:        email,
			DepartmentID: department.ID,
			Salary:       in.Salary,
			HiredAt:      hiredAt,
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		result, err := s.employees.Create(txCtx, employee)
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

// UpdateEmployee は従業員情報を更新します。部門を移す場合、給与は移動先の
// 部門予算に対して検証されます。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	firstName, lastName, err := normalizePersonName(in.FirstName, in.LastName)
	if err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.DepartmentID) == "" {
		return nil, fmt.Errorf("department id: %w", ErrInvalidID)
	}

	if !isValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	hiredAt := normalizeDate(in.HiredAt)
	if err := s.validateHireDate(hiredAt); err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.employees.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if email != existing.Email {
			if err := s.ensureEmailNotExists(txCtx, email, existing.ID); err != nil {
				return err
			}
		}

		department, err := s.departments.FindByID(txCtx, in.DepartmentID)
		if err != nil {
			return err
		}

		if err := validateSalaryAgainstBudget(in.Salary, department); err != nil {
			return err
		}

		existing.FirstName = firstName
		existing.LastName = lastName
		existing.Email = email
		existing.DepartmentID = department.ID
		existing.Salary = in.Salary
		existing.HiredAt = hiredAt
		existing.Status = in.Status
		existing.UpdatedAt = s.clock.Now()

		result, err := s.employees.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeactivateEmployee は従業員を INACTIVE にします。勤怠記録が 1 件でも
// 存在する従業員は無効化できません。再有効化の操作は提供されません。
func (s *Service) DeactivateEmployee(ctx context.Context, id string) (*Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.employees.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		hasRecords, err := s.attendance.HasRecords(txCtx, existing.ID)
		if err != nil {
			return err
		}
		if hasRecords {
			return fmt.Errorf("employee %s: %w", existing.ID, ErrEmployeeHasAttendance)
		}

		existing.Status = StatusInactive
		existing.UpdatedAt = s.clock.Now()

		result, err := s.employees.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetEmployee は ID で従業員を取得します。
func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var employee *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.employees.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		employee = result
		return nil
	}); err != nil {
		return nil, err
	}

	return employee, nil
}

// ListEmployees は従業員の一覧を取得します。Search を指定すると姓または
// メールアドレスへの部分一致で絞り込まれます。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	sortKey := strings.TrimSpace(in.SortKey)
	if sortKey != "" {
		if _, ok := employeeSortKeys[sortKey]; !ok {
			return nil, fmt.Errorf("sort key %q: %w", sortKey, ErrInvalidSortKey)
		}
	}

	var (
		employees []*Employee
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.employees.List(txCtx, ListEmployeesFilter{
			Search:  strings.TrimSpace(in.Search),
			SortKey: sortKey,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			return err
		}
		employees = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListEmployeesResult{Employees: employees, NextPageToken: nextToken}, nil
}

func (s *Service) ensureDepartmentNameNotExists(ctx context.Context, name string) error {
	department, err := s.departments.FindByName(ctx, name)
	if err != nil && !errors.Is(err, ErrDepartmentNotFound) {
		return err
	}
	if department != nil {
		return fmt.Errorf("name %q: %w", name, ErrDepartmentNameAlreadyExists)
	}
	return nil
}

func (s *Service) ensureEmailNotExists(ctx context.Context, email, excludeID string) error {
	employee, err := s.employees.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if employee != nil && employee.ID != excludeID {
		return fmt.Errorf("email %q: %w", email, ErrEmailAlreadyExists)
	}
	return nil
}

func (s *Service) validateHireDate(hiredAt time.Time) error {
	if hiredAt.IsZero() {
		return ErrInvalidHireDate
	}
	today := normalizeDate(s.clock.Now())
	if hiredAt.After(today) {
		return fmt.Errorf("hire date %s: %w", hiredAt.Format("2006-01-02"), ErrHireDateInFuture)
	}
	return nil
}

// validateSalaryAgainstBudget は単一の給与額を部門予算全体と比較します。
// 既存従業員の給与合計は考慮しません。
func validateSalaryAgainstBudget(salary decimal.Decimal, department *Department) error {
	if !salary.IsPositive() {
		return ErrSalaryNotPositive
	}
	if salary.GreaterThan(department.Budget) {
		return fmt.Errorf("salary %s, budget %s: %w", salary.String(), department.Budget.String(), ErrSalaryExceedsBudget)
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizePersonName(first, last string) (string, string, error) {
	firstName := strings.TrimSpace(first)
	lastName := strings.TrimSpace(last)
	if firstName == "" || lastName == "" {
		return "", "", ErrInvalidName
	}
	return firstName, lastName, nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.Contains(trimmed, "@") {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

func isValidStatus(status EmployeeStatus) bool {
	switch status {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
