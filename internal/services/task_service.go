package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/chronicle-dev/chronicle/internal/apperr"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/types"
)

// TaskService enforces the task status machine and ownership rules.
type TaskService struct {
	db *gorm.DB
}

func NewTaskService(database *gorm.DB) *TaskService {
	return &TaskService{db: database}
}

// allowedTransitions is the forward-only status machine for normal updates.
// COMPLETED leaves only through Reopen.
var allowedTransitions = map[string][]string{
	types.TaskTodo:       {types.TaskInProgress},
	types.TaskInProgress: {types.TaskCompleted},
	types.TaskCompleted:  {},
}

type TaskInput struct {
	Title          string
	Description    string
	AssignedTo     uint
	EstimatedHours float64
	DueDate        *string
}

// Create adds a task under the project. The actor must be ADMIN or the
// project's own manager; the project must be active and the assignee an
// active EMPLOYEE.
func (s *TaskService) Create(actor types.Actor, projectID uint, input TaskInput) (*models.Task, error) {
	var project models.Project

	err := s.db.First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Project not found")
	}
	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	if actor.Role == types.RoleManager && (project.ManagerID == nil || *project.ManagerID != actor.ID) {
		return nil, apperr.Authorization("You are not assigned manager of this project")
	}

	if !project.IsActive || project.Status == types.ProjectCompleted {
		return nil, apperr.Validation("Project is not active")
	}

	if err := s.validateAssignee(input.AssignedTo); err != nil {
		return nil, err
	}

	assignedTo := input.AssignedTo
	task := models.Task{
		ProjectID:      project.ID,
		Title:          input.Title,
		Description:    input.Description,
		AssignedTo:     &assignedTo,
		EstimatedHours: input.EstimatedHours,
		Status:         types.TaskTodo,
		DueDate:        input.DueDate,
		IsActive:       true,
		CreatedBy:      actor.ID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return &task, nil
}

// List returns tasks visible to the actor: all for ADMIN, own projects for
// MANAGER, own assignments for EMPLOYEE.
func (s *TaskService) List(actor types.Actor, offset, limit int) ([]models.Task, int64, error) {
	query := s.db.Model(&models.Task{})

	switch actor.Role {
	case types.RoleEmployee:
		query = query.Where("tasks.assigned_to = ?", actor.ID)
	case types.RoleManager:
		query = query.Joins("JOIN projects ON projects.id = tasks.project_id").
			Where("projects.manager_id = ?", actor.ID)
	case types.RoleAdmin:
	default:
		return nil, 0, apperr.Authorization("Access denied: insufficient permissions")
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("Internal Server Error", err)
	}

	var tasks []models.Task

	err := query.Preload("Project").Preload("Assignee").
		Order("tasks.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, apperr.Internal("Internal Server Error", err)
	}

	return tasks, total, nil
}

// ListForManager returns every task under the manager's projects.
func (s *TaskService) ListForManager(managerID uint, offset, limit int) ([]models.Task, int64, error) {
	return s.List(types.Actor{ID: managerID, Role: types.RoleManager}, offset, limit)
}

// UpdateStatus moves a task along the forward-only machine. A same-state
// update succeeds without touching the row or the history.
func (s *TaskService) UpdateStatus(actor types.Actor, taskID uint, newStatus string) (*models.Task, error) {
	task, err := s.loadTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if actor.Role == types.RoleEmployee && (task.AssignedTo == nil || *task.AssignedTo != actor.ID) {
		return nil, apperr.Authorization("You can update only your assigned tasks")
	}

	if actor.Role == types.RoleManager && (task.Project.ManagerID == nil || *task.Project.ManagerID != actor.ID) {
		return nil, apperr.Authorization("You can update tasks only in your projects")
	}

	current := task.Status

	if current == newStatus {
		return task, nil
	}

	if !contains(allowedTransitions[current], newStatus) {
		return nil, apperr.Validation(fmt.Sprintf("Invalid status transition from %s to %s", current, newStatus))
	}

	if err := s.transition(task, newStatus, actor.ID); err != nil {
		return nil, err
	}

	return task, nil
}

// Reassign moves the task to another employee. Blocked while anyone has a
// running session on it; reassigning a COMPLETED task reopens it.
func (s *TaskService) Reassign(actor types.Actor, taskID uint, assignedTo uint) (*models.Task, error) {
	task, err := s.loadTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	var running int64

	err = s.db.Model(&models.Timesheet{}).
		Where("task_id = ? AND is_running = ?", task.ID, true).
		Count(&running).Error
	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	if running > 0 {
		return nil, apperr.Conflict("Task is currently running. Please push/stop the task first.")
	}

	if actor.Role == types.RoleManager && (task.Project.ManagerID == nil || *task.Project.ManagerID != actor.ID) {
		return nil, apperr.Authorization("You can reassign only tasks in your projects")
	}

	if err := s.validateAssignee(assignedTo); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		assignee := assignedTo
		task.AssignedTo = &assignee

		// Handing a finished task to someone reopens it.
		if task.Status == types.TaskCompleted {
			oldStatus := task.Status
			task.Status = types.TaskInProgress

			history := models.TaskStatusHistory{
				TaskID:    task.ID,
				OldStatus: oldStatus,
				NewStatus: task.Status,
				ChangedBy: actor.ID,
			}

			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}

		return tx.Save(task).Error
	})

	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return task, nil
}

// Reopen moves a COMPLETED task back to TODO or IN_PROGRESS.
func (s *TaskService) Reopen(actor types.Actor, taskID uint, newStatus string) (*models.Task, error) {
	task, err := s.loadTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if actor.Role == types.RoleManager && (task.Project.ManagerID == nil || *task.Project.ManagerID != actor.ID) {
		return nil, apperr.Authorization("You can reopen only tasks in your projects")
	}

	if task.Status != types.TaskCompleted {
		return nil, apperr.Validation("Only COMPLETED tasks can be reopened")
	}

	if newStatus != types.TaskTodo && newStatus != types.TaskInProgress {
		return nil, apperr.Validation("status must be TODO or IN_PROGRESS")
	}

	if err := s.transition(task, newStatus, actor.ID); err != nil {
		return nil, err
	}

	return task, nil
}

// transition saves the status change and its history row atomically.
func (s *TaskService) transition(task *models.Task, newStatus string, changedBy uint) error {
	oldStatus := task.Status
	task.Status = newStatus

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		history := models.TaskStatusHistory{
			TaskID:    task.ID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			ChangedBy: changedBy,
		}

		return tx.Create(&history).Error
	})

	if err != nil {
		task.Status = oldStatus
		return apperr.Internal("Internal Server Error", err)
	}

	return nil
}

func (s *TaskService) loadTaskWithProject(taskID uint) (*models.Task, error) {
	var task models.Task

	err := s.db.Preload("Project").First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Task not found")
	}
	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return &task, nil
}

func (s *TaskService) validateAssignee(userID uint) error {
	var employee models.User

	err := s.db.First(&employee, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Employee not found")
	}
	if err != nil {
		return apperr.Internal("Internal Server Error", err)
	}

	if employee.Role != types.RoleEmployee {
		return apperr.Validation("assignedTo must be an EMPLOYEE")
	}

	if !employee.IsActive {
		return apperr.Validation("Employee is inactive")
	}

	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
