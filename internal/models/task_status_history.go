package models

import "time"

// TaskStatusHistory is an append-only audit trail: one row per task status
// transition, whatever operation caused it.
type TaskStatusHistory struct {
	ID        uint   `gorm:"primarykey"`
	TaskID    uint   `gorm:"not null;index"`
	OldStatus string `gorm:"not null"`
	NewStatus string `gorm:"not null"`
	ChangedBy uint
	ChangedAt time.Time `gorm:"not null;autoCreateTime"`

	// Relationships
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
