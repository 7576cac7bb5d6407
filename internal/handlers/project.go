package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chronicle-dev/chronicle/db"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/services"
	"github.com/chronicle-dev/chronicle/internal/utils"
)

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=150"`
	Description string  `json:"description"`
	ManagerID   *uint   `json:"managerId"`
	Budget      float64 `json:"budget" binding:"gte=0"`
	StartDate   string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

type AssignManagerRequest struct {
	ManagerID uint `json:"managerId" binding:"required"`
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ONGOING COMPLETED"`
}

type ProjectResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ManagerID   *uint           `json:"manager_id"`
	Budget      float64         `json:"budget"`
	Status      string          `json:"status"`
	StartDate   string          `json:"start_date"`
	EndDate     *string         `json:"end_date"`
	IsActive    bool            `json:"is_active"`
	CreatedBy   uint            `json:"created_by"`
	Manager     *ManagerSummary `json:"manager,omitempty"`
}

type ManagerSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func CreateProject(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	project, err := services.NewProjectService(db.DB).Create(currentUser.Actor(), services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Project created successfully",
		"project": projectResponse(project),
	})
}

func ListProjects(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	page := utils.GetPagination(ctx)

	projects, total, err := services.NewProjectService(db.DB).List(currentUser.Actor(), page.Offset, page.Limit)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	responses := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		responses = append(responses, projectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"pagination": utils.BuildPagination(page, total),
		"projects":   responses,
	})
}

func AssignManager(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req AssignManagerRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "managerId is required"})
		return
	}

	project, err := services.NewProjectService(db.DB).AssignManager(projectID, req.ManagerID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Manager assigned successfully",
		"project": projectResponse(project),
	})
}

func UpdateProjectStatus(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateProjectStatusRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status must be ONGOING or COMPLETED"})
		return
	}

	project, err := services.NewProjectService(db.DB).UpdateStatus(projectID, req.Status)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project status updated",
		"project": projectResponse(project),
	})
}

func projectResponse(project *models.Project) ProjectResponse {
	response := ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		ManagerID:   project.ManagerID,
		Budget:      project.Budget,
		Status:      project.Status,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		IsActive:    project.IsActive,
		CreatedBy:   project.CreatedBy,
	}

	if project.Manager != nil {
		response.Manager = &ManagerSummary{
			ID:    project.Manager.ID,
			Name:  project.Manager.Name,
			Email: project.Manager.Email,
		}
	}

	return response
}
