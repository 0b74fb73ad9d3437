package model

import (
	"time"

	"warranty-tracker-backend/internal/warranty"
)

// Category is the closed set of appliance categories.
type Category string

const (
	CategoryTV             Category = "TV"
	CategoryRefrigerator   Category = "Refrigerator"
	CategoryAC             Category = "AC"
	CategoryWashingMachine Category = "WashingMachine"
	CategoryKitchen        Category = "Kitchen"
	CategoryComputer       Category = "Computer"
	CategoryMobile         Category = "Mobile"
	CategoryOther          Category = "Other"
)

// Valid reports whether c is one of the recognized categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTV, CategoryRefrigerator, CategoryAC, CategoryWashingMachine,
		CategoryKitchen, CategoryComputer, CategoryMobile, CategoryOther:
		return true
	}
	return false
}

// Appliance is one tracked physical device.
//
// WarrantyExpiry is derived from PurchaseDate and WarrantyDurationMonths and
// is recomputed on every write that touches either input. Status is derived
// from WarrantyExpiry at read time and is never persisted.
type Appliance struct {
	ID                     string          `gorm:"primaryKey;size:36" json:"id"`
	Name                   string          `gorm:"size:256;not null" json:"name"`
	Category               Category        `gorm:"size:32;not null;index" json:"category"`
	Brand                  string          `gorm:"size:128" json:"brand"`
	Model                  string          `gorm:"size:128" json:"model"`
	SerialNumber           string          `gorm:"size:128" json:"serial_number,omitempty"`
	PurchaseDate           time.Time       `gorm:"not null" json:"-"`
	WarrantyDurationMonths int             `gorm:"not null" json:"warranty_duration_months"`
	WarrantyExpiry         time.Time       `gorm:"not null;index" json:"-"`
	SupplierName           string          `gorm:"size:128" json:"supplier_name,omitempty"`
	SupplierPhone          string          `gorm:"size:64" json:"supplier_phone,omitempty"`
	SupplierEmail          string          `gorm:"size:128" json:"supplier_email,omitempty"`
	PurchasePrice          *float64        `json:"purchase_price,omitempty"`
	ReceiptFileURL         string          `gorm:"size:512" json:"receipt_file_url,omitempty"`
	Notes                  string          `gorm:"size:2048" json:"notes,omitempty"`
	Status                 warranty.Status `gorm:"-" json:"status"`
	CreatedAt              time.Time       `gorm:"not null" json:"created_at"`
}
