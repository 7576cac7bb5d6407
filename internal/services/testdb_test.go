package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chronicle-dev/chronicle/db"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/types"
)

// newTestDB opens a fresh in-memory database with the full schema, including
// the partial unique index guarding running sessions. A single connection
// keeps transactions honest on sqlite.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return database
}

var testEmailSequence int

func seedUser(t *testing.T, database *gorm.DB, role types.Role, hourlyRate float64, active bool) *models.User {
	t.Helper()

	testEmailSequence++
	user := models.User{
		Name:         fmt.Sprintf("User %d", testEmailSequence),
		Email:        fmt.Sprintf("user%d@example.com", testEmailSequence),
		PasswordHash: "x",
		Role:         role,
		HourlyRate:   hourlyRate,
		IsActive:     active,
	}

	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	// GORM skips zero-valued fields that have a default tag on insert, so an
	// inactive user must be flipped with an explicit column update.
	if !active {
		if err := database.Model(&user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate seeded user: %v", err)
		}
	}

	return &user
}

func seedProject(t *testing.T, database *gorm.DB, managerID *uint, budget float64) *models.Project {
	t.Helper()

	project := models.Project{
		Name:      "Test Project",
		ManagerID: managerID,
		Budget:    budget,
		Status:    types.ProjectOngoing,
		StartDate: "2026-01-01",
		IsActive:  true,
		CreatedBy: 1,
	}

	if err := database.Create(&project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}

	return &project
}

func seedTask(t *testing.T, database *gorm.DB, projectID uint, assignedTo *uint, estimatedHours float64) *models.Task {
	t.Helper()

	task := models.Task{
		ProjectID:      projectID,
		Title:          "Test Task",
		AssignedTo:     assignedTo,
		EstimatedHours: estimatedHours,
		Status:         types.TaskTodo,
		IsActive:       true,
		CreatedBy:      1,
	}

	if err := database.Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	return &task
}

// seedRunningSession inserts an open session dated startedAgo in the past.
func seedRunningSession(t *testing.T, database *gorm.DB, employeeID, taskID uint, startedAgo time.Duration) *models.Timesheet {
	t.Helper()

	start := time.Now().UTC().Add(-startedAgo)
	entry := models.Timesheet{
		EmployeeID: employeeID,
		TaskID:     taskID,
		WorkDate:   start.Format("2006-01-02"),
		StartTime:  start,
		IsRunning:  true,
	}

	if err := database.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed running session: %v", err)
	}

	return &entry
}

// seedClosedSession inserts a finished session with explicit hours.
func seedClosedSession(t *testing.T, database *gorm.DB, employeeID, taskID uint, workDate string, hours float64) *models.Timesheet {
	t.Helper()

	start, err := time.Parse("2006-01-02", workDate)
	if err != nil {
		t.Fatalf("bad work date %q: %v", workDate, err)
	}

	minutes := int(hours * 60)
	end := start.Add(time.Duration(minutes) * time.Minute)
	entry := models.Timesheet{
		EmployeeID:      employeeID,
		TaskID:          taskID,
		WorkDate:        workDate,
		StartTime:       start,
		EndTime:         &end,
		DurationMinutes: minutes,
		HoursLogged:     hours,
		IsRunning:       false,
	}

	if err := database.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed closed session: %v", err)
	}

	return &entry
}

func countRunningSessions(t *testing.T, database *gorm.DB, employeeID uint) int64 {
	t.Helper()

	var count int64

	err := database.Model(&models.Timesheet{}).
		Where("employee_id = ? AND is_running = ?", employeeID, true).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count running sessions: %v", err)
	}

	return count
}
