package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/chronicle-dev/chronicle/internal/apperr"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/types"
)

// TimesheetService is the session engine: it owns the start/push/switch
// protocol and the task-completion transaction. Every mutation runs inside a
// single transaction; the partial unique index on timesheets backstops the
// one-running-session-per-employee invariant against concurrent starts.
type TimesheetService struct {
	db *gorm.DB
}

func NewTimesheetService(database *gorm.DB) *TimesheetService {
	return &TimesheetService{db: database}
}

// durationMinutes is the canonical elapsed-time calculation: minutes rounded
// to the nearest integer, never negative.
func durationMinutes(start, end time.Time) int {
	minutes := int(math.Round(end.Sub(start).Minutes()))
	if minutes < 0 {
		return 0
	}
	return minutes
}

// hoursFromMinutes converts minutes to hours rounded to two decimals.
func hoursFromMinutes(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// closeEntry finalizes a running entry in place. Remarks overwrite only when
// non-empty.
func closeEntry(entry *models.Timesheet, now time.Time, remarks string) {
	minutes := durationMinutes(entry.StartTime, now)

	entry.EndTime = &now
	entry.DurationMinutes = minutes
	entry.HoursLogged = hoursFromMinutes(minutes)
	entry.IsRunning = false

	if remarks != "" {
		entry.Remarks = remarks
	}
}

// Start opens a running session for the employee on the given task.
func (s *TimesheetService) Start(employeeID uint, taskID uint, remarks string) (*models.Timesheet, error) {
	now := time.Now().UTC()

	var entry models.Timesheet

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var running models.Timesheet

		err := tx.Where("employee_id = ? AND is_running = ?", employeeID, true).First(&running).Error
		if err == nil {
			return apperr.Conflict("You already have a running task. Push it first.")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("Internal Server Error", err)
		}

		if _, err := startableTask(tx, employeeID, taskID); err != nil {
			return err
		}

		entry = models.Timesheet{
			EmployeeID: employeeID,
			TaskID:     taskID,
			WorkDate:   now.Format("2006-01-02"),
			StartTime:  now,
			Remarks:    remarks,
			IsRunning:  true,
		}

		if err := tx.Create(&entry).Error; err != nil {
			// Lost the race against a concurrent Start; the index caught it.
			if apperr.IsUniqueViolation(err) {
				return apperr.Conflict("You already have a running task. Push it first.")
			}
			return apperr.Internal("Internal Server Error", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Push stops the employee's running session and finalizes its duration.
func (s *TimesheetService) Push(employeeID uint, remarks string) (*models.Timesheet, error) {
	now := time.Now().UTC()

	var entry models.Timesheet

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).Where("employee_id = ? AND is_running = ?", employeeID, true).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("No running task found")
		}
		if err != nil {
			return apperr.Internal("Internal Server Error", err)
		}

		closeEntry(&entry, now, remarks)

		if err := tx.Save(&entry).Error; err != nil {
			return apperr.Internal("Internal Server Error", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Switch atomically pushes the current session (if any) and starts one on the
// new task. If the new task fails validation the whole transaction rolls
// back, so the old session stays running.
func (s *TimesheetService) Switch(employeeID uint, newTaskID uint, remarks string) (*models.Timesheet, error) {
	now := time.Now().UTC()

	var entry models.Timesheet

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var running models.Timesheet

		err := lockForUpdate(tx).Where("employee_id = ? AND is_running = ?", employeeID, true).First(&running).Error
		if err == nil {
			closeEntry(&running, now, "")

			if err := tx.Save(&running).Error; err != nil {
				return apperr.Internal("Internal Server Error", err)
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("Internal Server Error", err)
		}

		if _, err := startableTask(tx, employeeID, newTaskID); err != nil {
			return err
		}

		entry = models.Timesheet{
			EmployeeID: employeeID,
			TaskID:     newTaskID,
			WorkDate:   now.Format("2006-01-02"),
			StartTime:  now,
			Remarks:    remarks,
			IsRunning:  true,
		}

		if err := tx.Create(&entry).Error; err != nil {
			if apperr.IsUniqueViolation(err) {
				return apperr.Conflict("You already have a running task. Push it first.")
			}
			return apperr.Internal("Internal Server Error", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// CompleteTask marks a task COMPLETED. When the assigned employee completes
// their own task with a session still running on it, the session is closed in
// the same transaction, so a failure can never commit one without the other.
func (s *TimesheetService) CompleteTask(taskID uint, actor types.Actor) (*models.Task, error) {
	now := time.Now().UTC()

	var task models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.completeTaskTx(tx, &task, taskID, actor, now)
	})

	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TimesheetService) completeTaskTx(tx *gorm.DB, task *models.Task, taskID uint, actor types.Actor, now time.Time) error {
	err := lockForUpdate(tx).First(task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Task not found")
	}
	if err != nil {
		return apperr.Internal("Internal Server Error", err)
	}

	var project models.Project

	if err := tx.First(&project, task.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Project not found")
		}
		return apperr.Internal("Internal Server Error", err)
	}

	switch actor.Role {
	case types.RoleEmployee:
		if task.AssignedTo == nil || *task.AssignedTo != actor.ID {
			return apperr.Authorization("You can complete only your assigned task")
		}
	case types.RoleManager:
		if project.ManagerID == nil || *project.ManagerID != actor.ID {
			return apperr.Authorization("You can complete tasks only in your projects")
		}
	case types.RoleAdmin:
	default:
		return apperr.Authorization("Access denied: insufficient permissions")
	}

	if task.Status == types.TaskCompleted {
		return apperr.Validation("Task already completed")
	}

	if actor.Role == types.RoleEmployee {
		var running models.Timesheet

		err := lockForUpdate(tx).
			Where("employee_id = ? AND task_id = ? AND is_running = ?", actor.ID, task.ID, true).
			First(&running).Error

		if err == nil {
			closeEntry(&running, now, "")

			if err := tx.Save(&running).Error; err != nil {
				return apperr.Internal("Internal Server Error", err)
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("Internal Server Error", err)
		}
	}

	oldStatus := task.Status
	task.Status = types.TaskCompleted

	if err := tx.Save(task).Error; err != nil {
		return apperr.Internal("Internal Server Error", err)
	}

	history := models.TaskStatusHistory{
		TaskID:    task.ID,
		OldStatus: oldStatus,
		NewStatus: types.TaskCompleted,
		ChangedBy: actor.ID,
		ChangedAt: now,
	}

	if err := tx.Create(&history).Error; err != nil {
		return apperr.Internal("Internal Server Error", err)
	}

	return nil
}

// ListMine returns the employee's timesheets, newest first.
func (s *TimesheetService) ListMine(employeeID uint, offset, limit int) ([]models.Timesheet, int64, error) {
	var total int64

	query := s.db.Model(&models.Timesheet{}).Where("employee_id = ?", employeeID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("Internal Server Error", err)
	}

	var entries []models.Timesheet

	err := query.Preload("Task").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, apperr.Internal("Internal Server Error", err)
	}

	return entries, total, nil
}

// startableTask verifies the task can accept a new session from the employee.
func startableTask(tx *gorm.DB, employeeID uint, taskID uint) (*models.Task, error) {
	var task models.Task

	err := tx.Preload("Project").First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Task not found")
	}
	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	if task.Status == types.TaskCompleted {
		return nil, apperr.Validation("Task is already completed. You cannot work on it.")
	}

	if task.AssignedTo == nil || *task.AssignedTo != employeeID {
		return nil, apperr.Authorization("You can start only tasks assigned to you")
	}

	if !task.Project.IsActive || task.Project.Status == types.ProjectCompleted {
		return nil, apperr.Validation("Project is not active")
	}

	return &task, nil
}
