package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MonthTotals は月番号 (1–12) をキーとする集計です。encoding/json は
// マップのキーを文字列として整列するため ("10" が "2" より前に来る)、
// 月番号の昇順を保つよう自前でシリアライズします。
type MonthTotals map[int]string

// MarshalJSON は月番号の昇順でオブジェクトを出力します。
func (m MonthTotals) MarshalJSON() ([]byte, error) {
	months := make([]int, 0, len(m))
	for month := range m {
		months = append(months, month)
	}
	sort.Ints(months)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, month := range months {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", fmt.Sprintf("%d", month))

		total, err := json.Marshal(m[month])
		if err != nil {
			return nil, err
		}
		buf.Write(total)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TrendReport は勤怠データ全体に対する 6 種の集計ビューです。実働分数は
// すべて "Xh MMm" 形式の文字列で表現されます。
type TrendReport struct {
	ByDayOfWeek                    map[string]string `json:"byDayOfWeek"`
	ByMonth                        MonthTotals       `json:"byMonth"`
	ByMonthYear                    map[string]string `json:"byMonthYear"`
	AverageDailyAcrossAllEmployees string            `json:"averageDailyAcrossAllEmployees"`
	ByEmployeeID                   map[string]string `json:"byEmployeeId"`
	ByDepartmentName               map[string]string `json:"byDepartmentName"`
}

// DepartmentSalarySummary は部門ごとの給与集計です。従業員のいない部門も
// ゼロ値で含まれます。
type DepartmentSalarySummary struct {
	DepartmentID   string          `json:"departmentId"`
	DepartmentName string          `json:"departmentName"`
	TotalSalary    decimal.Decimal `json:"totalSalary"`
	EmployeeCount  int             `json:"employeeCount"`
	AverageSalary  decimal.Decimal `json:"averageSalary"`
}
