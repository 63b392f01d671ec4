package reporting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestionemployes/employee-management-api/internal/core/attendance"
	"github.com/gestionemployes/employee-management-api/internal/core/directory"
)

// RecordSource は全勤怠記録の取得元です。
type RecordSource interface {
	ListAllRecords(ctx context.Context) ([]*attendance.Record, error)
}

// EmployeeSource は全従業員の取得元です。
type EmployeeSource interface {
	ListAllEmployees(ctx context.Context) ([]*directory.Employee, error)
}

// DepartmentSource は全部門の取得元です。
type DepartmentSource interface {
	ListAllDepartments(ctx context.Context) ([]*directory.Department, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は勤怠と給与の集計レポートを提供します。集計はスナップショット
// 上の純粋な計算であり、副作用を持ちません。
type Service struct {
	records     RecordSource
	employees   EmployeeSource
	departments DepartmentSource
	tx          TransactionManager
}

// UseCase はレポートユースケースの公開インターフェースです。
type UseCase interface {
	TrendsAndStats(ctx context.Context) (*TrendReport, error)
	SalarySummaryByDepartment(ctx context.Context) ([]*DepartmentSalarySummary, error)
}

// NewService は Service を生成します。
func NewService(records RecordSource, employees EmployeeSource, departments DepartmentSource, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		records:     records,
		employees:   employees,
		departments: departments,
		tx:          tx,
	}
}

// TrendsAndStats は全勤怠データに対する 6 種の集計ビューを一括で計算します。
// 実働分数が未確定の記録 (未退勤) はすべての集計から除外されます。
func (s *Service) TrendsAndStats(ctx context.Context) (*TrendReport, error) {
	var (
		records     []*attendance.Record
		employees   []*directory.Employee
		departments []*directory.Department
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if records, err = s.records.ListAllRecords(txCtx); err != nil {
			return err
		}
		if employees, err = s.employees.ListAllEmployees(txCtx); err != nil {
			return err
		}
		if departments, err = s.departments.ListAllDepartments(txCtx); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	departmentNames := make(map[string]string, len(departments))
	for _, d := range departments {
		departmentNames[d.ID] = d.Name
	}

	employeeDepartments := make(map[string]string, len(employees))
	for _, e := range employees {
		employeeDepartments[e.ID] = e.DepartmentID
	}

	byDayOfWeek := make(map[string]int64)
	byMonth := make(map[int]int64)
	byMonthYear := make(map[string]int64)
	byDate := make(map[string]int64)
	byEmployee := make(map[string]int64)
	byDepartment := make(map[string]int64)

	for _, record := range records {
		if record.WorkedMinutes == nil {
			continue
		}
		minutes := *record.WorkedMinutes

		byDayOfWeek[strings.ToUpper(record.Date.Weekday().String())] += minutes
		byMonth[int(record.Date.Month())] += minutes
		byMonthYear[record.Date.Format("2006-01")] += minutes
		byDate[record.Date.Format("2006-01-02")] += minutes
		byEmployee[record.EmployeeID] += minutes

		if departmentID, ok := employeeDepartments[record.EmployeeID]; ok {
			if name, ok := departmentNames[departmentID]; ok {
				byDepartment[name] += minutes
			}
		}
	}

	return &TrendReport{
		ByDayOfWeek:                    formatMinuteMap(byDayOfWeek),
		ByMonth:                        MonthTotals(formatMinuteMap(byMonth)),
		ByMonthYear:                    formatMinuteMap(byMonthYear),
		AverageDailyAcrossAllEmployees: formatMinutes(averageDailyMinutes(byDate)),
		ByEmployeeID:                   formatMinuteMap(byEmployee),
		ByDepartmentName:               formatMinuteMap(byDepartment),
	}, nil
}

// SalarySummaryByDepartment は部門ごとの給与合計・人数・平均を部門名の
// 昇順で返します。従業員のいない部門はゼロ値で含まれます。
func (s *Service) SalarySummaryByDepartment(ctx context.Context) ([]*DepartmentSalarySummary, error) {
	var (
		employees   []*directory.Employee
		departments []*directory.Department
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if employees, err = s.employees.ListAllEmployees(txCtx); err != nil {
			return err
		}
		if departments, err = s.departments.ListAllDepartments(txCtx); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal, len(departments))
	counts := make(map[string]int, len(departments))
	for _, e := range employees {
		totals[e.DepartmentID] = totals[e.DepartmentID].Add(e.Salary)
		counts[e.DepartmentID]++
	}

	summaries := make([]*DepartmentSalarySummary, 0, len(departments))
	for _, d := range departments {
		total := totals[d.ID]
		count := counts[d.ID]

		average := decimal.Zero
		if count > 0 {
			average = total.DivRound(decimal.NewFromInt(int64(count)), 2)
		}

		summaries = append(summaries, &DepartmentSalarySummary{
			DepartmentID:   d.ID,
			DepartmentName: d.Name,
			TotalSalary:    total,
			EmployeeCount:  count,
			AverageSalary:  average,
		})
	}

	sortSummariesByName(summaries)
	return summaries, nil
}

// averageDailyMinutes は日ごとの合計分数の平均を最近接の分へ丸めます。
// 日付が 1 件もない場合は 0 を返します。
func averageDailyMinutes(byDate map[string]int64) int64 {
	if len(byDate) == 0 {
		return 0
	}

	var total int64
	for _, minutes := range byDate {
		total += minutes
	}
	return int64(math.Round(float64(total) / float64(len(byDate))))
}

// formatMinutes は分数を "Xh MMm" 形式へ変換します。
func formatMinutes(minutes int64) string {
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func formatMinuteMap[K comparable](totals map[K]int64) map[K]string {
	formatted := make(map[K]string, len(totals))
	for key, minutes := range totals {
		formatted[key] = formatMinutes(minutes)
	}
	return formatted
}

func sortSummariesByName(summaries []*DepartmentSalarySummary) {
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].DepartmentName < summaries[j].DepartmentName
	})
}
