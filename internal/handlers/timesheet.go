package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chronicle-dev/chronicle/db"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/services"
	"github.com/chronicle-dev/chronicle/internal/utils"
)

type StartTaskRequest struct {
	TaskID  uint   `json:"taskId" binding:"required"`
	Remarks string `json:"remarks"`
}

type PushTaskRequest struct {
	Remarks string `json:"remarks"`
}

type SwitchTaskRequest struct {
	NewTaskID uint   `json:"newTaskId" binding:"required"`
	Remarks   string `json:"remarks"`
}

type TimesheetResponse struct {
	ID              uint         `json:"id"`
	EmployeeID      uint         `json:"employee_id"`
	TaskID          uint         `json:"task_id"`
	WorkDate        string       `json:"work_date"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         *time.Time   `json:"end_time"`
	DurationMinutes int          `json:"duration_minutes"`
	HoursLogged     float64      `json:"hours_logged"`
	Remarks         string       `json:"remarks"`
	IsRunning       bool         `json:"is_running"`
	Task            *TaskSummary `json:"task,omitempty"`
}

type TaskSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	ProjectID uint   `json:"project_id"`
}

func StartTask(ctx *gin.Context) {
	var req StartTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "taskId is required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	entry, err := services.NewTimesheetService(db.DB).Start(currentUser.ID, req.TaskID, req.Remarks)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Task started",
		"timesheet": timesheetResponse(entry),
	})
}

func PushTask(ctx *gin.Context) {
	var req PushTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	entry, err := services.NewTimesheetService(db.DB).Push(currentUser.ID, req.Remarks)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Task pushed (stopped)",
		"timesheet": timesheetResponse(entry),
	})
}

func SwitchTask(ctx *gin.Context) {
	var req SwitchTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "newTaskId is required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	entry, err := services.NewTimesheetService(db.DB).Switch(currentUser.ID, req.NewTaskID, req.Remarks)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Task switched successfully",
		"newTimesheet": timesheetResponse(entry),
	})
}

func ListMyTimesheets(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	page := utils.GetPagination(ctx)

	entries, total, err := services.NewTimesheetService(db.DB).ListMine(currentUser.ID, page.Offset, page.Limit)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	responses := make([]TimesheetResponse, 0, len(entries))

	for i := range entries {
		responses = append(responses, timesheetResponse(&entries[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"pagination": utils.BuildPagination(page, total),
		"timesheets": responses,
	})
}

func MyTaskSummary(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	rows, err := services.NewReportService(db.DB).EmployeeTaskSummary(currentUser.ID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"employee_id": currentUser.ID,
		"tasks":       rows,
	})
}

func timesheetResponse(entry *models.Timesheet) TimesheetResponse {
	response := TimesheetResponse{
		ID:              entry.ID,
		EmployeeID:      entry.EmployeeID,
		TaskID:          entry.TaskID,
		WorkDate:        entry.WorkDate,
		StartTime:       entry.StartTime,
		EndTime:         entry.EndTime,
		DurationMinutes: entry.DurationMinutes,
		HoursLogged:     entry.HoursLogged,
		Remarks:         entry.Remarks,
		IsRunning:       entry.IsRunning,
	}

	if entry.Task.ID != 0 {
		response.Task = &TaskSummary{
			ID:        entry.Task.ID,
			Title:     entry.Task.Title,
			ProjectID: entry.Task.ProjectID,
		}
	}

	return response
}
