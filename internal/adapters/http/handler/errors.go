package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestionemployes/employee-management-api/internal/core/attendance"
	"github.com/gestionemployes/employee-management-api/internal/core/directory"
)

var notFoundErrors = []error{
	directory.ErrDepartmentNotFound,
	directory.ErrEmployeeNotFound,
	attendance.ErrRecordNotFound,
}

var conflictErrors = []error{
	directory.ErrDepartmentNameAlreadyExists,
	directory.ErrEmailAlreadyExists,
}

var ruleViolationErrors = []error{
	directory.ErrSalaryNotPositive,
	directory.ErrSalaryExceedsBudget,
	directory.ErrNegativeBudget,
	directory.ErrManagerNotInDepartment,
	directory.ErrDepartmentHasEmployees,
	directory.ErrEmployeeHasAttendance,
	directory.ErrHireDateInFuture,
	attendance.ErrAlreadyClockedIn,
	attendance.ErrDayAlreadyRecorded,
	attendance.ErrAlreadyClockedOut,
	attendance.ErrDepartureBeforeArrival,
}

var badRequestErrors = []error{
	directory.ErrInvalidID,
	directory.ErrInvalidName,
	directory.ErrInvalidEmail,
	directory.ErrInvalidHireDate,
	directory.ErrInvalidStatus,
	directory.ErrInvalidPageSize,
	directory.ErrInvalidPageToken,
	directory.ErrInvalidSortKey,
	attendance.ErrInvalidID,
	attendance.ErrInvalidPeriod,
}

// writeError はドメインエラーを HTTP ステータスへ対応付けて返却します。
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case matchesAny(err, notFoundErrors):
		status = http.StatusNotFound
	case matchesAny(err, conflictErrors):
		status = http.StatusConflict
	case matchesAny(err, ruleViolationErrors):
		status = http.StatusUnprocessableEntity
	case matchesAny(err, badRequestErrors):
		status = http.StatusBadRequest
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
