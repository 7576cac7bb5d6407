package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/chronicle-dev/chronicle/internal/handlers"
	"github.com/chronicle-dev/chronicle/internal/middleware"
	"github.com/chronicle-dev/chronicle/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	admin := middleware.RequireRoles(types.RoleAdmin)
	adminOrManager := middleware.RequireRoles(types.RoleAdmin, types.RoleManager)
	anyRole := middleware.RequireRoles(types.RoleAdmin, types.RoleManager, types.RoleEmployee)
	manager := middleware.RequireRoles(types.RoleManager)
	employee := middleware.RequireRoles(types.RoleEmployee)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.POST("/bootstrap-admin", handlers.BootstrapAdmin)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.POST("", admin, handlers.CreateUser)
			users.GET("", admin, handlers.ListUsers)
			users.GET("/manager/employees", manager, handlers.ListManagedEmployees)
			users.PATCH("/:id/active", admin, handlers.UpdateUserActiveStatus)
			users.PATCH("/:id/hourly-rate", admin, handlers.UpdateHourlyRate)
			users.PATCH("/:id/role", admin, handlers.UpdateUserRole)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", admin, handlers.CreateProject)
			projects.GET("", adminOrManager, handlers.ListProjects)
			projects.PATCH("/:id/assign-manager", admin, handlers.AssignManager)
			projects.PATCH("/:id/status", admin, handlers.UpdateProjectStatus)

			projects.POST("/:id/tasks", adminOrManager, handlers.CreateTask)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.GET("", anyRole, handlers.ListTasks)
			tasks.PATCH("/:id/status", anyRole, handlers.UpdateTaskStatus)
			tasks.PATCH("/:id/reassign", adminOrManager, handlers.ReassignTask)
			tasks.PATCH("/:id/reopen", adminOrManager, handlers.ReopenTask)
			tasks.PATCH("/:id/complete", anyRole, handlers.CompleteTask)
		}

		api.GET("/manager/tasks", middleware.AuthMiddleware(), manager, handlers.ListManagerTasks)

		timesheets := api.Group("/timesheets", middleware.AuthMiddleware(), employee)
		{
			timesheets.POST("/start", handlers.StartTask)
			timesheets.POST("/push", handlers.PushTask)
			timesheets.POST("/switch", handlers.SwitchTask)
			timesheets.GET("/me", handlers.ListMyTimesheets)
			timesheets.GET("/my-task-summary", handlers.MyTaskSummary)
		}

		reports := api.Group("/reports", middleware.AuthMiddleware())
		{
			reports.GET("/project-cost", adminOrManager, handlers.ProjectCostReport)
			reports.GET("/employee-hours", anyRole, handlers.EmployeeHoursReport)
			reports.GET("/task-summary", adminOrManager, handlers.TaskSummaryReport)
			reports.GET("/monthly-summary", anyRole, handlers.MonthlySummaryReport)
		}
	}

	return r
}
