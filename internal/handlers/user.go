package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chronicle-dev/chronicle/db"
	"github.com/chronicle-dev/chronicle/internal/models"
	"github.com/chronicle-dev/chronicle/internal/types"
	"github.com/chronicle-dev/chronicle/internal/utils"
)

type CreateUserRequest struct {
	Name     string     `json:"name" binding:"required,min=3,max=120"`
	Email    string     `json:"email" binding:"required,email,max=150"`
	Password string     `json:"password" binding:"required,min=6,max=50"`
	Role     types.Role `json:"role" binding:"required,oneof=MANAGER EMPLOYEE"`
}

type UpdateActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type UpdateHourlyRateRequest struct {
	HourlyRate *float64 `json:"hourlyRate" binding:"required,gte=0"`
}

type UpdateRoleRequest struct {
	Role types.Role `json:"role" binding:"required,oneof=MANAGER EMPLOYEE"`
}

// CreateUser lets an ADMIN create managers and employees. The admin account
// itself only comes from bootstrap.
func CreateUser(ctx *gin.Context) {
	var req CreateUserRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User

	err := db.DB.Where("email = ?", req.Email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         req.Role,
		IsActive:     true,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user":    userResponse(&user),
	})
}

func ListUsers(ctx *gin.Context) {
	page := utils.GetPagination(ctx)

	var total int64

	if err := db.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		log.Printf("Failed to count users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	var users []models.User

	err := db.DB.Order("id DESC").Offset(page.Offset).Limit(page.Limit).Find(&users).Error
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	responses := make([]types.UserResponse, 0, len(users))

	for i := range users {
		responses = append(responses, userResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"pagination": utils.BuildPagination(page, total),
		"users":      responses,
	})
}

func UpdateUserActiveStatus(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateActiveRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "isActive is required"})
		return
	}

	user, ok := findUser(ctx, userID)
	if !ok {
		return
	}

	if user.Role == types.RoleAdmin && !*req.IsActive {
		ctx.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Cannot deactivate ADMIN user"})
		return
	}

	user.IsActive = *req.IsActive

	if err := db.DB.Save(user).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": message, "user": userResponse(user)})
}

func UpdateHourlyRate(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateHourlyRateRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "hourlyRate is required and must be >= 0"})
		return
	}

	user, ok := findUser(ctx, userID)
	if !ok {
		return
	}

	if user.Role != types.RoleEmployee {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Hourly rate can be assigned only to EMPLOYEE"})
		return
	}

	user.HourlyRate = *req.HourlyRate

	if err := db.DB.Save(user).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Hourly rate updated successfully", "user": userResponse(user)})
}

// UpdateUserRole changes MANAGER <-> EMPLOYEE. Admin roles are immutable; a
// manager with projects cannot be demoted, an inactive employee cannot be
// promoted.
func UpdateUserRole(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "role must be EMPLOYEE or MANAGER"})
		return
	}

	user, ok := findUser(ctx, userID)
	if !ok {
		return
	}

	if user.Role == types.RoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Cannot change ADMIN role"})
		return
	}

	if user.Role == types.RoleManager && req.Role == types.RoleEmployee {
		var projectCount int64

		err := db.DB.Model(&models.Project{}).Where("manager_id = ?", user.ID).Count(&projectCount).Error
		if err != nil {
			log.Printf("Failed to count managed projects: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}

		if projectCount > 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Manager has assigned projects. Reassign the projects first."})
			return
		}
	}

	if user.Role == types.RoleEmployee && req.Role == types.RoleManager && !user.IsActive {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Inactive user cannot be promoted to Manager"})
		return
	}

	user.Role = req.Role

	if err := db.DB.Save(user).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User role updated to " + string(user.Role),
		"user":    userResponse(user),
	})
}

// ListManagedEmployees returns the employees assigned to tasks under the
// requesting manager's projects.
func ListManagedEmployees(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var employees []types.UserResponse

	err = db.DB.Raw(`
		SELECT DISTINCT u.id, u.name, u.email, u.role, u.hourly_rate, u.is_active
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		JOIN users u ON u.id = t.assigned_to
		WHERE p.manager_id = ? AND u.role = 'EMPLOYEE'
		ORDER BY u.id DESC`, currentUser.ID).Scan(&employees).Error
	if err != nil {
		log.Printf("Failed to list managed employees: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"manager_id": currentUser.ID,
		"employees":  employees,
	})
}

func findUser(ctx *gin.Context, userID uint) (*models.User, bool) {
	var user models.User

	err := db.DB.First(&user, userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return nil, false
	}

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return nil, false
	}

	return &user, true
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid " + name + " parameter"})
		return 0, false
	}

	return uint(id), true
}
