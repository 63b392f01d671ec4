package directory

import "context"

// DepartmentRepository は部門永続化の抽象です。
type DepartmentRepository interface {
	Create(ctx context.Context, department *Department) (*Department, error)
	Update(ctx context.Context, department *Department) (*Department, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Department, error)
	FindByName(ctx context.Context, name string) (*Department, error)
	List(ctx context.Context, filter ListDepartmentsFilter) ([]*Department, string, error)
}

// EmployeeRepository は従業員永続化の抽象です。
type EmployeeRepository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	ExistsByDepartment(ctx context.Context, departmentID string) (bool, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, string, error)
}

// AttendanceChecker は従業員に勤怠記録が存在するかを照会する抽象です。
// directory パッケージが attendance パッケージへ依存しないための境界です。
type AttendanceChecker interface {
	HasRecords(ctx context.Context, employeeID string) (bool, error)
}

// ListDepartmentsFilter は部門一覧取得用フィルタです。
type ListDepartmentsFilter struct {
	Limit  int
	Offset int
}

// ListEmployeesFilter は従業員一覧取得用フィルタです。Search は
// 姓またはメールアドレスへの部分一致です。
type ListEmployeesFilter struct {
	Search  string
	SortKey string
	Limit   int
	Offset  int
}
