package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/chronicle-dev/chronicle/internal/apperr"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/types"
)

// ProjectService covers project creation, manager assignment and the
// ONGOING/COMPLETED lifecycle.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(database *gorm.DB) *ProjectService {
	return &ProjectService{db: database}
}

type ProjectInput struct {
	Name        string
	Description string
	ManagerID   *uint
	Budget      float64
	StartDate   string
	EndDate     *string
}

func (s *ProjectService) Create(actor types.Actor, input ProjectInput) (*models.Project, error) {
	if input.ManagerID != nil {
		if err := s.validateManager(*input.ManagerID); err != nil {
			return nil, err
		}
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		ManagerID:   input.ManagerID,
		Budget:      input.Budget,
		Status:      types.ProjectOngoing,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
		CreatedBy:   actor.ID,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return &project, nil
}

// List returns all projects for ADMIN, owned projects for MANAGER.
func (s *ProjectService) List(actor types.Actor, offset, limit int) ([]models.Project, int64, error) {
	query := s.db.Model(&models.Project{})

	if actor.Role == types.RoleManager {
		query = query.Where("manager_id = ?", actor.ID)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("Internal Server Error", err)
	}

	var projects []models.Project

	err := query.Preload("Manager").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, apperr.Internal("Internal Server Error", err)
	}

	return projects, total, nil
}

func (s *ProjectService) AssignManager(projectID uint, managerID uint) (*models.Project, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := s.validateManager(managerID); err != nil {
		return nil, err
	}

	manager := managerID
	project.ManagerID = &manager

	if err := s.db.Save(project).Error; err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return project, nil
}

// UpdateStatus sets the project status. Completing a project also
// deactivates it, which blocks new tasks and new sessions underneath it.
func (s *ProjectService) UpdateStatus(projectID uint, status string) (*models.Project, error) {
	if status != types.ProjectOngoing && status != types.ProjectCompleted {
		return nil, apperr.Validation("status must be ONGOING or COMPLETED")
	}

	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	project.Status = status

	if status == types.ProjectCompleted {
		project.IsActive = false
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return project, nil
}

func (s *ProjectService) loadProject(projectID uint) (*models.Project, error) {
	var project models.Project

	err := s.db.First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Project not found")
	}
	if err != nil {
		return nil, apperr.Internal("Internal Server Error", err)
	}

	return &project, nil
}

func (s *ProjectService) validateManager(managerID uint) error {
	var manager models.User

	err := s.db.First(&manager, managerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Manager not found")
	}
	if err != nil {
		return apperr.Internal("Internal Server Error", err)
	}

	if manager.Role != types.RoleManager {
		return apperr.Validation("managerId must be a MANAGER")
	}

	if !manager.IsActive {
		return apperr.Validation("Manager is inactive")
	}

	return nil
}
