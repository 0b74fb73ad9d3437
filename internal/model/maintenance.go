package model

import "time"

// MaintenanceTask is a scheduled service action for an appliance.
type MaintenanceTask struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ApplianceID string    `gorm:"size:36;index;not null" json:"appliance_id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Notes       string    `gorm:"size:2048" json:"notes,omitempty"`
	DueDate     time.Time `gorm:"not null;index" json:"-"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
