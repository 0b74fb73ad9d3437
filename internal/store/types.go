package store

import (
	"time"

	"warranty-tracker-backend/internal/model"
)

// ApplianceInput carries the caller-supplied fields for creating an
// appliance. Derived fields (id, expiry, status, created_at) are assigned
// by the store.
type ApplianceInput struct {
	Name                   string
	Category               model.Category
	Brand                  string
	Model                  string
	SerialNumber           string
	PurchaseDate           time.Time
	WarrantyDurationMonths int
	SupplierName           string
	SupplierPhone          string
	SupplierEmail          string
	PurchasePrice          *float64
	ReceiptFileURL         string
	Notes                  string
}

// ApplianceUpdate is a partial update. Nil fields are left untouched. If
// PurchaseDate or WarrantyDurationMonths is set, the warranty expiry is
// recomputed from the merged record.
type ApplianceUpdate struct {
	Name                   *string
	Category               *model.Category
	Brand                  *string
	Model                  *string
	SerialNumber           *string
	PurchaseDate           *time.Time
	WarrantyDurationMonths *int
	SupplierName           *string
	SupplierPhone          *string
	SupplierEmail          *string
	PurchasePrice          *float64
	ReceiptFileURL         *string
	Notes                  *string
}

// MaintenanceInput carries the caller-supplied fields for scheduling a
// maintenance task.
type MaintenanceInput struct {
	ApplianceID string
	Title       string
	Notes       string
	DueDate     time.Time
}

// FilterAll bypasses a filter dimension.
const FilterAll = "all"

// ApplianceFilter narrows a listing. Empty or "all" values bypass their
// dimension; Query is a case-insensitive substring match on name, brand
// and model.
type ApplianceFilter struct {
	Category string
	Status   string
	Query    string
}
