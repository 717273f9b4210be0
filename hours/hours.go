// Package hours computes worked hours per calendar month and compares them
// against the employee's contractual monthly target.
package hours

import (
	"math"
	"sort"
	"time"

	"shiftly/models"

	"gorm.io/gorm"
)

// AttentionThreshold is the absolute monthly delta, in hours, above which
// an employee is surfaced on the attention list.
const AttentionThreshold = 10.0

type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Summary compares one month's worked hours against the contract target.
type Summary struct {
	WorkedHours   float64 `json:"worked_hours"`
	ContractHours float64 `json:"contract_hours"`
	Difference    float64 `json:"difference"`
	Percentage    float64 `json:"percentage"`
	Status        string  `json:"status"` // over, under, exact
}

// MonthSummary is a Summary with its month label, for history listings.
type MonthSummary struct {
	Summary
	Month      string `json:"month"`       // "January 2024"
	MonthShort string `json:"month_short"` // "01/2024"
}

// Stats aggregates the current-month deltas across a set of employees.
type Stats struct {
	TotalOverHours  float64 `json:"total_over_hours"`
	TotalUnderHours float64 `json:"total_under_hours"`
	EmployeesOver   int     `json:"employees_over"`
	EmployeesUnder  int     `json:"employees_under"`
	TotalEmployees  int     `json:"total_employees"`
}

// AttentionEntry flags an employee whose monthly delta exceeds the
// threshold.
type AttentionEntry struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Difference float64 `json:"difference"`
	Status     string  `json:"status"`
}

// WeekStats summarizes the current ISO week's planning load.
type WeekStats struct {
	AssignmentsWeek  int     `json:"assignments_week"`
	TotalHours       float64 `json:"total_hours"`
	EmployeesCovered int     `json:"employees_covered"`
	Compliance       int     `json:"compliance"`
}

// WorkedHours sums assignment durations for one employee over one calendar
// month, rounded to 2 decimals. An assignment counts toward the month its
// start falls in, with its full duration, even when the end crosses the
// month boundary. Cancelled assignments are excluded. Missing data never
// errors into the result: no assignments means zero hours.
func (e *Engine) WorkedHours(employeeID uint, year int, month time.Month) (float64, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := daysInMonth(year, month)
	end := time.Date(year, month, lastDay, 23, 59, 59, 0, time.UTC)

	var assignments []models.Assignment
	err := e.db.Where("employee_id = ? AND start >= ? AND start <= ? AND status IN ?",
		employeeID, start, end,
		[]models.AssignmentStatus{models.StatusScheduled, models.StatusInProgress, models.StatusCompleted}).
		Find(&assignments).Error
	if err != nil {
		return 0, err
	}

	var total float64
	for _, a := range assignments {
		total += a.End.Sub(a.Start).Seconds() / 3600
	}

	return models.Round2(total), nil
}

// Difference computes the month's worked hours against the employee's
// contractual target. A missing or zero contract falls back to the
// default monthly baseline.
func (e *Engine) Difference(employee *models.Employee, year int, month time.Month) (Summary, error) {
	worked, err := e.WorkedHours(employee.ID, year, month)
	if err != nil {
		return Summary{}, err
	}

	contract := employee.ContractHoursPerMonth
	if contract <= 0 {
		contract = models.DefaultContractHoursPerMonth
	}

	diff := models.Round2(worked - contract)

	var pct float64
	if contract > 0 {
		pct = models.Round1(worked / contract * 100)
	}

	status := "exact"
	if diff > 0 {
		status = "over"
	} else if diff < 0 {
		status = "under"
	}

	return Summary{
		WorkedHours:   worked,
		ContractHours: contract,
		Difference:    diff,
		Percentage:    pct,
		Status:        status,
	}, nil
}

// MonthlyHistory returns the last monthsCount months in chronological
// order, current month last.
func (e *Engine) MonthlyHistory(employee *models.Employee, monthsCount int, now time.Time) ([]MonthSummary, error) {
	history := make([]MonthSummary, 0, monthsCount)

	for i := monthsCount - 1; i >= 0; i-- {
		target := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)

		summary, err := e.Difference(employee, target.Year(), target.Month())
		if err != nil {
			return nil, err
		}

		history = append(history, MonthSummary{
			Summary:    summary,
			Month:      target.Format("January 2006"),
			MonthShort: target.Format("01/2006"),
		})
	}

	return history, nil
}

// CurrentMonthSummary is a shorthand for the month now falls in.
func (e *Engine) CurrentMonthSummary(employee *models.Employee, now time.Time) (Summary, error) {
	return e.Difference(employee, now.Year(), now.Month())
}

// TeamStats aggregates over/under totals across employees for the current
// month.
func (e *Engine) TeamStats(employees []models.Employee, now time.Time) (Stats, error) {
	stats := Stats{TotalEmployees: len(employees)}

	for i := range employees {
		summary, err := e.CurrentMonthSummary(&employees[i], now)
		if err != nil {
			return Stats{}, err
		}
		if summary.Difference > 0 {
			stats.TotalOverHours += summary.Difference
			stats.EmployeesOver++
		} else if summary.Difference < 0 {
			stats.TotalUnderHours += -summary.Difference
			stats.EmployeesUnder++
		}
	}

	stats.TotalOverHours = models.Round2(stats.TotalOverHours)
	stats.TotalUnderHours = models.Round2(stats.TotalUnderHours)
	return stats, nil
}

// AttentionEmployees lists employees whose current-month delta exceeds the
// threshold, worst first.
func (e *Engine) AttentionEmployees(employees []models.Employee, now time.Time) ([]AttentionEntry, error) {
	entries := make([]AttentionEntry, 0)

	for i := range employees {
		summary, err := e.CurrentMonthSummary(&employees[i], now)
		if err != nil {
			return nil, err
		}
		if math.Abs(summary.Difference) > AttentionThreshold {
			entries = append(entries, AttentionEntry{
				ID:         employees[i].ID,
				Name:       employees[i].FullName,
				Position:   employees[i].Position,
				Difference: summary.Difference,
				Status:     summary.Status,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return math.Abs(entries[i].Difference) > math.Abs(entries[j].Difference)
	})

	return entries, nil
}

// WeekPlanningStats summarizes the week now falls in (Monday start) across
// the given employees.
func (e *Engine) WeekPlanningStats(employeeIDs []uint, now time.Time) (WeekStats, error) {
	if len(employeeIDs) == 0 {
		return WeekStats{}, nil
	}

	weekStart := StartOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var assignments []models.Assignment
	err := e.db.Where("employee_id IN ? AND start >= ? AND start < ?", employeeIDs, weekStart, weekEnd).
		Find(&assignments).Error
	if err != nil {
		return WeekStats{}, err
	}

	var total float64
	covered := make(map[uint]bool)
	for _, a := range assignments {
		total += a.End.Sub(a.Start).Seconds() / 3600
		covered[a.EmployeeID] = true
	}

	return WeekStats{
		AssignmentsWeek:  len(assignments),
		TotalHours:       models.Round2(total),
		EmployeesCovered: len(covered),
		Compliance:       int(float64(len(covered)) / float64(len(employeeIDs)) * 100),
	}, nil
}

// StartOfWeek returns the Monday 00:00:00 of the week t falls in.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
