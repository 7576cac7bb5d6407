package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chronicle-dev/chronicle/db"
	"github.com/chronicle-dev/chronicle/internal/services"
	"github.com/chronicle-dev/chronicle/internal/utils"
)

func ProjectCostReport(ctx *gin.Context) {
	projectID, ok := parseIDQuery(ctx, "projectId")
	if !ok {
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	report, err := services.NewReportService(db.DB).ProjectCost(currentUser.Actor(), projectID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

func EmployeeHoursReport(ctx *gin.Context) {
	employeeID, ok := parseIDQuery(ctx, "employeeId")
	if !ok {
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	report, err := services.NewReportService(db.DB).EmployeeHours(
		currentUser.Actor(),
		employeeID,
		ctx.Query("from"),
		ctx.Query("to"),
	)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

func TaskSummaryReport(ctx *gin.Context) {
	projectID, ok := parseIDQuery(ctx, "projectId")
	if !ok {
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	rows, err := services.NewReportService(db.DB).TaskSummary(currentUser.Actor(), projectID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "project_id": projectID, "tasks": rows})
}

func MonthlySummaryReport(ctx *gin.Context) {
	month := ctx.Query("month")

	if month == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "month is required (YYYY-MM)"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	report, err := services.NewReportService(db.DB).MonthlySummary(currentUser.Actor(), month)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

func parseIDQuery(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Query(name)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": name + " is required"})
		return 0, false
	}

	return uint(id), true
}
