package attendance

import (
	"context"
	"time"

	"github.com/gestionemployes/employee-management-api/internal/core/directory"
)

// Repository は勤怠記録永続化の抽象です。一覧系は日付昇順で返却します。
type Repository interface {
	Create(ctx context.Context, record *Record) (*Record, error)
	Update(ctx context.Context, record *Record) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Record, error)
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]*Record, error)
}

// DirectoryGateway は従業員・部門の照会に使う抽象です。directory.Service が
// これを満たします。
type DirectoryGateway interface {
	GetEmployee(ctx context.Context, id string) (*directory.Employee, error)
	ListDepartmentEmployees(ctx context.Context, departmentID string) ([]*directory.Employee, error)
}
