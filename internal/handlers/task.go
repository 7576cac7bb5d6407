package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chronicle-dev/chronicle/db"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/services"
	"github.com/chronicle-dev/chronicle/internal/utils"
)

type CreateTaskRequest struct {
	Title          string  `json:"title" binding:"required,min=3,max=150"`
	Description    string  `json:"description"`
	AssignedTo     uint    `json:"assignedTo" binding:"required"`
	EstimatedHours float64 `json:"estimatedHours" binding:"required,gt=0"`
	DueDate        *string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=TODO IN_PROGRESS COMPLETED"`
}

type ReassignTaskRequest struct {
	AssignedTo uint `json:"assignedTo" binding:"required"`
}

type ReopenTaskRequest struct {
	Status string `json:"status" binding:"required,oneof=TODO IN_PROGRESS"`
}

type TaskResponse struct {
	ID             uint             `json:"id"`
	ProjectID      uint             `json:"project_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	AssignedTo     *uint            `json:"assigned_to"`
	EstimatedHours float64          `json:"estimated_hours"`
	Status         string           `json:"status"`
	DueDate        *string          `json:"due_date"`
	IsActive       bool             `json:"is_active"`
	Project        *ProjectSummary  `json:"project,omitempty"`
	Assignee       *AssigneeSummary `json:"assignee,omitempty"`
}

type ProjectSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	ManagerID *uint  `json:"manager_id"`
}

type AssigneeSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func CreateTask(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	task, err := services.NewTaskService(db.DB).Create(currentUser.Actor(), projectID, services.TaskInput{
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		EstimatedHours: req.EstimatedHours,
		DueDate:        req.DueDate,
	})

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task created successfully",
		"task":    taskResponse(task),
	})
}

func ListTasks(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	page := utils.GetPagination(ctx)

	tasks, total, err := services.NewTaskService(db.DB).List(currentUser.Actor(), page.Offset, page.Limit)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"pagination": utils.BuildPagination(page, total),
		"tasks":      taskResponses(tasks),
	})
}

func ListManagerTasks(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	page := utils.GetPagination(ctx)

	tasks, total, err := services.NewTaskService(db.DB).ListForManager(currentUser.ID, page.Offset, page.Limit)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"pagination": utils.BuildPagination(page, total),
		"tasks":      taskResponses(tasks),
	})
}

func UpdateTaskStatus(ctx *gin.Context) {
	taskID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status must be TODO, IN_PROGRESS or COMPLETED"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	task, err := services.NewTaskService(db.DB).UpdateStatus(currentUser.Actor(), taskID, req.Status)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task status updated successfully",
		"task":    taskResponse(task),
	})
}

func ReassignTask(ctx *gin.Context) {
	taskID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req ReassignTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "assignedTo is required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	task, err := services.NewTaskService(db.DB).Reassign(currentUser.Actor(), taskID, req.AssignedTo)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task reassigned successfully",
		"task":    taskResponse(task),
	})
}

func ReopenTask(ctx *gin.Context) {
	taskID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req ReopenTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status must be TODO or IN_PROGRESS"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	task, err := services.NewTaskService(db.DB).Reopen(currentUser.Actor(), taskID, req.Status)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task reopened successfully",
		"task":    taskResponse(task),
	})
}

// CompleteTask routes to the session engine: completion may close a running
// session in the same transaction.
func CompleteTask(ctx *gin.Context) {
	taskID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	task, err := services.NewTimesheetService(db.DB).CompleteTask(taskID, currentUser.Actor())

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task completed successfully",
		"task":    taskResponse(task),
	})
}

func taskResponse(task *models.Task) TaskResponse {
	response := TaskResponse{
		ID:             task.ID,
		ProjectID:      task.ProjectID,
		Title:          task.Title,
		Description:    task.Description,
		AssignedTo:     task.AssignedTo,
		EstimatedHours: task.EstimatedHours,
		Status:         task.Status,
		DueDate:        task.DueDate,
		IsActive:       task.IsActive,
	}

	if task.Project.ID != 0 {
		response.Project = &ProjectSummary{
			ID:        task.Project.ID,
			Name:      task.Project.Name,
			Status:    task.Project.Status,
			ManagerID: task.Project.ManagerID,
		}
	}

	if task.Assignee != nil {
		response.Assignee = &AssigneeSummary{
			ID:    task.Assignee.ID,
			Name:  task.Assignee.Name,
			Email: task.Assignee.Email,
		}
	}

	return response
}

func taskResponses(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		responses = append(responses, taskResponse(&tasks[i]))
	}

	return responses
}
