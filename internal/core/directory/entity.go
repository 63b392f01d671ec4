package directory

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeStatus は従業員の状態を表します。
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "ACTIVE"
	StatusInactive EmployeeStatus = "INACTIVE"
)

// Department は部門エンティティです。ManagerID は従業員 ID への参照であり、
// 設定されるのは任意です。
type Department struct {
	ID        string
	Name      string
	ManagerID *string
	Budget    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee は従業員エンティティです。DepartmentID は必須の部門参照です。
type Employee struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	DepartmentID string
	Salary       decimal.Decimal
	HiredAt      time.Time
	Status       EmployeeStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
