package attendance

import "time"

// Record は従業員 1 人の 1 日分の勤怠記録です。Date は UTC 深夜 0 時に
// 正規化され、Departure と WorkedMinutes は退勤が記録されるまで nil です。
type Record struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	Arrival       time.Time
	Departure     *time.Time
	WorkedMinutes *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsClosed は退勤済みかどうかを返します。
func (r *Record) IsClosed() bool {
	return r.Departure != nil
}

// Close は退勤時刻を設定した新しい Record を返します。退勤時刻は記録の
// 日付に対する時刻部分のみで比較され、日跨ぎの勤務には対応しません。
func (r Record) Close(departure time.Time) (Record, error) {
	if r.IsClosed() {
		return Record{}, ErrAlreadyClockedOut
	}

	anchored := anchorTime(r.Date, departure)
	if anchored.Before(r.Arrival) {
		return Record{}, ErrDepartureBeforeArrival
	}

	minutes := int64(anchored.Sub(r.Arrival) / time.Minute)
	r.Departure = &anchored
	r.WorkedMinutes = &minutes
	return r, nil
}

// normalizeDate は時刻を UTC 深夜 0 時へ正規化します。
func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// anchorTime は date の日付に t の時刻部分を合成します。
func anchorTime(date, t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(date.Year(), date.Month(), date.Day(), utc.Hour(), utc.Minute(), utc.Second(), 0, time.UTC)
}
