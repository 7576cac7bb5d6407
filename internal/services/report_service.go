package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/chronicle-dev/chronicle/internal/apperr"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/types"
)

// ReportService runs the read-side aggregations. Every report applies the
// role scoping before touching the data; the queries themselves are raw SQL
// that runs unchanged on postgres and sqlite.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(database *gorm.DB) *ReportService {
	return &ReportService{db: database}
}

type ProjectCostReport struct {
	ProjectID       uint    `json:"project_id"`
	ProjectName     string  `json:"project_name"`
	ProjectBudget   float64 `json:"project_budget"`
	TotalHours      float64 `json:"total_hours"`
	TotalCost       float64 `json:"total_cost"`
	RemainingBudget float64 `json:"remaining_budget"`
}

type DailyHours struct {
	WorkDate   string  `json:"work_date"`
	TotalHours float64 `json:"total_hours"`
}

type EmployeeHoursReport struct {
	EmployeeID     uint         `json:"employee_id"`
	From           string       `json:"from,omitempty"`
	To             string       `json:"to,omitempty"`
	TotalHours     float64      `json:"total_hours"`
	DailyBreakdown []DailyHours `json:"daily_breakdown"`
}

type TaskSummaryRow struct {
	TaskID         uint    `json:"task_id"`
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`
	VarianceHours  float64 `json:"variance_hours"`
	EmployeeID     *uint   `json:"employee_id"`
	EmployeeName   *string `json:"employee_name"`
}

type MonthlySummaryRow struct {
	EmployeeID   uint    `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	TotalHours   float64 `json:"total_hours"`
	TotalCost    float64 `json:"total_cost"`
}

// MonthlySummaryReport is role-shaped: ADMIN and MANAGER get per-employee
// totals, EMPLOYEE gets their own daily breakdown.
type MonthlySummaryReport struct {
	Month      string              `json:"month"`
	EmployeeID uint                `json:"employee_id,omitempty"`
	Summary    []MonthlySummaryRow `json:"summary,omitempty"`
	Daily      []DailyHours        `json:"daily,omitempty"`
}

// ProjectCost aggregates hours and cost across every timesheet under the
// project and compares the cost against the budget.
func (s *ReportService) ProjectCost(actor types.Actor, projectID uint) (*ProjectCostReport, error) {
	if actor.Role == types.RoleEmployee {
		return nil, apperr.Authorization("Employee cannot access project cost report")
	}

	if actor.Role == types.RoleManager {
		if err := s.ensureManagerOwnsProject(actor.ID, projectID); err != nil {
			return nil, err
		}
	}

	var report ProjectCostReport

	result := s.db.Raw(`
		SELECT
			p.id AS project_id,
			p.name AS project_name,
			p.budget AS project_budget,
			COALESCE(SUM(ts.hours_logged), 0) AS total_hours,
			COALESCE(SUM(ts.hours_logged * u.hourly_rate), 0) AS total_cost,
			p.budget - COALESCE(SUM(ts.hours_logged * u.hourly_rate), 0) AS remaining_budget
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		LEFT JOIN timesheets ts ON ts.task_id = t.id
		LEFT JOIN users u ON u.id = ts.employee_id
		WHERE p.id = ?
		GROUP BY p.id, p.name, p.budget`, projectID).Scan(&report)

	if result.Error != nil {
		return nil, apperr.Internal("Internal Server Error", result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("Project not found")
	}

	return &report, nil
}

// EmployeeHours returns daily and total hours for one employee with an
// optional work-date range.
func (s *ReportService) EmployeeHours(actor types.Actor, employeeID uint, from, to string) (*EmployeeHoursReport, error) {
	if actor.Role == types.RoleEmployee && actor.ID != employeeID {
		return nil, apperr.Authorization("Employee can view only own report")
	}

	if actor.Role == types.RoleManager {
		var count int64

		err := s.db.Model(&models.Timesheet{}).
			Joins("JOIN tasks ON tasks.id = timesheets.task_id").
			Joins("JOIN projects ON projects.id = tasks.project_id").
			Where("projects.manager_id = ? AND timesheets.employee_id = ?", actor.ID, employeeID).
			Count(&count).Error
		if err != nil {
			return nil, apperr.Internal("Internal Server Error", err)
		}

		if count == 0 {
			return nil, apperr.Authorization("You can view report only for your project employees")
		}
	}

	query := s.db.Model(&models.Timesheet{}).Where("employee_id = ?", employeeID)

	if from != "" {
		query = query.Where("work_date >= ?", from)
	}
	if to != "" {
		query = query.Where("work_date <= ?", to)
	}

	report := EmployeeHoursReport{EmployeeID: employeeID, From: from, To: to}

	err := query.
		Select("work_date, COALESCE(SUM(hours_logged), 0) AS total_hours").
		Group("work_date").
		Order("work_date DESC").
		Scan(&report.DailyBreakdown).Error
	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	for _, day := range report.DailyBreakdown {
		report.TotalHours += day.TotalHours
	}

	return &report, nil
}

// TaskSummary compares actual against estimated hours for every task under a
// project.
func (s *ReportService) TaskSummary(actor types.Actor, projectID uint) ([]TaskSummaryRow, error) {
	if actor.Role == types.RoleEmployee {
		return nil, apperr.Authorization("Employee cannot access project task report")
	}

	if actor.Role == types.RoleManager {
		if err := s.ensureManagerOwnsProject(actor.ID, projectID); err != nil {
			return nil, err
		}
	}

	rows := []TaskSummaryRow{}

	err := s.db.Raw(`
		SELECT
			t.id AS task_id,
			t.title,
			t.status,
			t.estimated_hours,
			COALESCE(SUM(ts.hours_logged), 0) AS actual_hours,
			COALESCE(SUM(ts.hours_logged), 0) - t.estimated_hours AS variance_hours,
			u.id AS employee_id,
			u.name AS employee_name
		FROM tasks t
		LEFT JOIN timesheets ts ON ts.task_id = t.id
		LEFT JOIN users u ON u.id = t.assigned_to
		WHERE t.project_id = ?
		GROUP BY t.id, t.title, t.status, t.estimated_hours, u.id, u.name
		ORDER BY t.id DESC`, projectID).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return rows, nil
}

// EmployeeTaskSummary is the employee's own actual-vs-estimated view across
// their assigned tasks.
func (s *ReportService) EmployeeTaskSummary(employeeID uint) ([]TaskSummaryRow, error) {
	rows := []TaskSummaryRow{}

	err := s.db.Raw(`
		SELECT
			t.id AS task_id,
			t.title,
			t.status,
			t.estimated_hours,
			COALESCE(SUM(ts.hours_logged), 0) AS actual_hours,
			COALESCE(SUM(ts.hours_logged), 0) - t.estimated_hours AS variance_hours
		FROM tasks t
		LEFT JOIN timesheets ts ON ts.task_id = t.id AND ts.employee_id = ?
		WHERE t.assigned_to = ?
		GROUP BY t.id, t.title, t.status, t.estimated_hours
		ORDER BY t.id DESC`, employeeID, employeeID).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return rows, nil
}

// MonthlySummary aggregates one calendar month. Bounds are the true first and
// last day of the month, not a fixed "-31" upper string.
func (s *ReportService) MonthlySummary(actor types.Actor, month string) (*MonthlySummaryReport, error) {
	from, to, err := monthBounds(month)
	if err != nil {
		return nil, err
	}

	report := MonthlySummaryReport{Month: month}

	switch actor.Role {
	case types.RoleAdmin:
		err = s.db.Raw(`
			SELECT
				u.id AS employee_id,
				u.name AS employee_name,
				COALESCE(SUM(ts.hours_logged), 0) AS total_hours,
				COALESCE(SUM(ts.hours_logged * u.hourly_rate), 0) AS total_cost
			FROM users u
			JOIN timesheets ts ON ts.employee_id = u.id
			WHERE u.role = 'EMPLOYEE'
			  AND ts.work_date >= ? AND ts.work_date <= ?
			GROUP BY u.id, u.name
			ORDER BY total_hours DESC`, from, to).Scan(&report.Summary).Error

	case types.RoleManager:
		err = s.db.Raw(`
			SELECT
				u.id AS employee_id,
				u.name AS employee_name,
				COALESCE(SUM(ts.hours_logged), 0) AS total_hours,
				COALESCE(SUM(ts.hours_logged * u.hourly_rate), 0) AS total_cost
			FROM timesheets ts
			JOIN users u ON u.id = ts.employee_id
			JOIN tasks t ON t.id = ts.task_id
			JOIN projects p ON p.id = t.project_id
			WHERE p.manager_id = ?
			  AND ts.work_date >= ? AND ts.work_date <= ?
			GROUP BY u.id, u.name
			ORDER BY total_hours DESC`, actor.ID, from, to).Scan(&report.Summary).Error

	case types.RoleEmployee:
		report.EmployeeID = actor.ID
		err = s.db.Raw(`
			SELECT
				work_date,
				COALESCE(SUM(hours_logged), 0) AS total_hours
			FROM timesheets
			WHERE employee_id = ?
			  AND work_date >= ? AND work_date <= ?
			GROUP BY work_date
			ORDER BY work_date DESC`, actor.ID, from, to).Scan(&report.Daily).Error

	default:
		return nil, apperr.Authorization("Invalid role")
	}

	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return &report, nil
}

func (s *ReportService) ensureManagerOwnsProject(managerID uint, projectID uint) error {
	var project models.Project

	err := s.db.First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Project not found")
	}
	if err != nil {
		return apperr.Internal("Internal Server Error", err)
	}

	if project.ManagerID == nil || *project.ManagerID != managerID {
		return apperr.Authorization("You can access reports only for your projects")
	}

	return nil
}

// monthBounds expands "YYYY-MM" into the first and last calendar day of that
// month.
func monthBounds(month string) (string, string, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", apperr.Validation("month is required (YYYY-MM)")
	}

	last := first.AddDate(0, 1, -1)

	return first.Format("2006-01-02"), last.Format("2006-01-02"), nil
}
