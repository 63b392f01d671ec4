package directory

import "errors"

var (
	// ErrDepartmentNotFound は部門が存在しない場合に返却されます。
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrEmployeeNotFound は従業員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDepartmentNameAlreadyExists は部門名の重複時に返却されます。
	ErrDepartmentNameAlreadyExists = errors.New("department name already exists")
	// ErrEmailAlreadyExists はメールアドレスの重複時に返却されます。
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrSalaryNotPositive は給与が正の値でない場合に返却されます。
	ErrSalaryNotPositive = errors.New("salary must be a positive number")
	// ErrSalaryExceedsBudget は給与が部門予算を超える場合に返却されます。
	ErrSalaryExceedsBudget = errors.New("salary exceeds department budget")
	// ErrNegativeBudget は部門予算が負の場合に返却されます。
	ErrNegativeBudget = errors.New("budget must not be negative")
	// ErrManagerNotInDepartment はマネージャーが当該部門に所属していない場合に返却されます。
	ErrManagerNotInDepartment = errors.New("manager must belong to the department")
	// ErrDepartmentHasEmployees は従業員が所属したままの部門を削除しようとした場合に返却されます。
	ErrDepartmentHasEmployees = errors.New("department still has employees")
	// ErrEmployeeHasAttendance は勤怠記録を持つ従業員を無効化しようとした場合に返却されます。
	ErrEmployeeHasAttendance = errors.New("employee has attendance records")
	// ErrHireDateInFuture は入社日が未来日の場合に返却されます。
	ErrHireDateInFuture = errors.New("hire date must not be in the future")

	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidName は名前が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidEmail はメールアドレスが不正な場合に返却されます。
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidHireDate は入社日が未指定の場合に返却されます。
	ErrInvalidHireDate = errors.New("invalid hire date")
	// ErrInvalidStatus はステータスが不正な場合に返却されます。
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidPageSize は一覧取得時のページサイズが不正な場合に返却されます。
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("invalid page token")
	// ErrInvalidSortKey は一覧取得時のソートキーが不正な場合に返却されます。
	ErrInvalidSortKey = errors.New("invalid sort key")
)
