package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model

	ProjectID      uint   `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Description    string
	AssignedTo     *uint   `gorm:"index"`
	EstimatedHours float64 `gorm:"not null;check:estimated_hours > 0"`
	Status         string  `gorm:"not null;default:TODO"` // TODO, IN_PROGRESS, COMPLETED
	DueDate        *string `gorm:"type:date"`
	IsActive       bool    `gorm:"not null;default:true"`
	CreatedBy      uint    `gorm:"not null"`

	// Relationships
	Project       Project             `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee      *User               `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Timesheets    []Timesheet         `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	StatusHistory []TaskStatusHistory `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
