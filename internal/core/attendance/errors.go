package attendance

import "errors"

var (
	// ErrRecordNotFound は勤怠記録が存在しない場合に返却されます。
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrAlreadyClockedIn は未退勤の記録が残ったまま出勤しようとした場合に返却されます。
	ErrAlreadyClockedIn = errors.New("already clocked in, not clocked out")
	// ErrDayAlreadyRecorded は同一日の勤怠が完了済みの場合に返却されます。
	ErrDayAlreadyRecorded = errors.New("attendance already completed for this date")
	// ErrAlreadyClockedOut は退勤済みの記録へ再度退勤しようとした場合に返却されます。
	ErrAlreadyClockedOut = errors.New("already clocked out")
	// ErrDepartureBeforeArrival は退勤時刻が出勤時刻より前の場合に返却されます。
	ErrDepartureBeforeArrival = errors.New("departure before arrival")

	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidPeriod は年月の指定が不正な場合に返却されます。
	ErrInvalidPeriod = errors.New("invalid period")
)
