package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	ManagerID   *uint   `gorm:"index"`
	Budget      float64 `gorm:"not null;default:0;check:budget >= 0"`
	Status      string  `gorm:"not null;default:ONGOING"` // ONGOING, COMPLETED
	StartDate   string  `gorm:"type:date;not null"`
	EndDate     *string `gorm:"type:date"`
	IsActive    bool    `gorm:"not null;default:true"`
	CreatedBy   uint    `gorm:"not null"`

	// Relationships
	Manager *User  `gorm:"foreignKey:ManagerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Tasks   []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
