package model

import "time"

// AlertType identifies what an alert is about.
type AlertType string

const (
	AlertWarrantyExpiringSoon AlertType = "WARRANTY_EXPIRING_SOON"
	AlertWarrantyExpired      AlertType = "WARRANTY_EXPIRED"
	AlertMaintenanceUpcoming  AlertType = "MAINTENANCE_UPCOMING"
)

// Alert is a notification surfaced to the user about an appliance's
// warranty or maintenance state.
type Alert struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Type        AlertType `gorm:"size:64;not null;index" json:"type"`
	ApplianceID string    `gorm:"size:36;index" json:"appliance_id,omitempty"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Message     string    `gorm:"size:1024;not null" json:"message"`
	DueDate     time.Time `gorm:"not null" json:"-"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
