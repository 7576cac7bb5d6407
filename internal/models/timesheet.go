package models

import (
	"time"

	"gorm.io/gorm"
)

// Timesheet is one work session of an employee against a task. A row with
// IsRunning=true is an open session; the partial unique index created in
// db.MigrateDatabase guarantees at most one open session per employee.
type Timesheet struct {
	gorm.Model

	EmployeeID      uint      `gorm:"not null;index"`
	TaskID          uint      `gorm:"not null;index"`
	WorkDate        string    `gorm:"type:date;not null;index"`
	StartTime       time.Time `gorm:"not null"`
	EndTime         *time.Time
	DurationMinutes int     `gorm:"not null;default:0;check:duration_minutes >= 0"`
	HoursLogged     float64 `gorm:"not null;default:0;check:hours_logged >= 0"`
	Remarks         string
	IsRunning       bool `gorm:"not null;default:false"`

	// Relationships
	Employee User `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Task     Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
