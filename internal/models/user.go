package models

import (
	"gorm.io/gorm"

	"github.com/chronicle-dev/chronicle/internal/types"
)

type User struct {
	gorm.Model

	Name         string     `gorm:"not null"`
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         types.Role `gorm:"not null;check:role IN ('ADMIN','MANAGER','EMPLOYEE')"`
	HourlyRate   float64    `gorm:"not null;default:0;check:hourly_rate >= 0"`
	IsActive     bool       `gorm:"not null;default:true"`

	// Relationships
	ManagedProjects []Project   `gorm:"foreignKey:ManagerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	AssignedTasks   []Task      `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Timesheets      []Timesheet `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
