package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warranty-tracker-backend/internal/model"
	"warranty-tracker-backend/internal/warranty"
)

// Store defines the interface for all persistence operations.
type Store interface {
	CreateAppliance(ctx context.Context, in ApplianceInput) (model.Appliance, error)
	UpdateAppliance(ctx context.Context, id string, upd ApplianceUpdate) (model.Appliance, error)
	DeleteAppliance(ctx context.Context, id string) error
	GetApplianceByID(ctx context.Context, id string) (model.Appliance, error)
	ListAppliances(ctx context.Context) ([]model.Appliance, error)

	CreateAlert(ctx context.Context, alert model.Alert) (model.Alert, error)
	ListAlerts(ctx context.Context) ([]model.Alert, error)
	UnreadAlertCount(ctx context.Context) (int64, error)
	HasUnreadAlert(ctx context.Context, applianceID string, alertType model.AlertType) (bool, error)
	MarkAlertRead(ctx context.Context, id string) error
	MarkAllAlertsRead(ctx context.Context) error

	CreateMaintenanceTask(ctx context.Context, in MaintenanceInput) (model.MaintenanceTask, error)
	ListUpcomingMaintenance(ctx context.Context) ([]model.MaintenanceTask, error)
	ListMaintenanceForAppliance(ctx context.Context, applianceID string) ([]model.MaintenanceTask, error)
	CompleteMaintenanceTask(ctx context.Context, id string) (model.MaintenanceTask, error)

	SavePushSubscription(ctx context.Context, sub model.PushSubscription) error
	GetPushSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
	ListPushSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store using the wall clock.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

// NewGormStoreWithClock lets callers pin the clock used for derived fields
// and timestamps.
func NewGormStoreWithClock(db *gorm.DB, now func() time.Time) Store {
	return &gormStore{db: db, now: now}
}

// CreateAppliance validates the input, assigns id and derived fields, and
// appends the record.
func (s *gormStore) CreateAppliance(ctx context.Context, in ApplianceInput) (model.Appliance, error) {
	if err := validateApplianceInput(in); err != nil {
		return model.Appliance{}, err
	}

	now := s.now().UTC()
	purchase := dateOnly(in.PurchaseDate)
	a := model.Appliance{
		ID:                     uuid.NewString(),
		Name:                   in.Name,
		Category:               in.Category,
		Brand:                  in.Brand,
		Model:                  in.Model,
		SerialNumber:           in.SerialNumber,
		PurchaseDate:           purchase,
		WarrantyDurationMonths: in.WarrantyDurationMonths,
		WarrantyExpiry:         warranty.ComputeExpiry(purchase, in.WarrantyDurationMonths),
		SupplierName:           in.SupplierName,
		SupplierPhone:          in.SupplierPhone,
		SupplierEmail:          in.SupplierEmail,
		PurchasePrice:          in.PurchasePrice,
		ReceiptFileURL:         in.ReceiptFileURL,
		Notes:                  in.Notes,
		CreatedAt:              now,
	}

	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Appliance{}, fmt.Errorf("create appliance: %w", err)
	}
	a.Status = warranty.ComputeStatus(a.WarrantyExpiry, now)
	return a, nil
}

// UpdateAppliance merges the partial update into the stored record and
// recomputes the warranty expiry when purchase date or duration changed.
func (s *gormStore) UpdateAppliance(ctx context.Context, id string, upd ApplianceUpdate) (model.Appliance, error) {
	var a model.Appliance
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Appliance{}, ErrNotFound
		}
		return model.Appliance{}, fmt.Errorf("load appliance %s: %w", id, err)
	}

	applyUpdate(&a, upd)
	if upd.PurchaseDate != nil || upd.WarrantyDurationMonths != nil {
		a.PurchaseDate = dateOnly(a.PurchaseDate)
		a.WarrantyExpiry = warranty.ComputeExpiry(a.PurchaseDate, a.WarrantyDurationMonths)
	}
	if err := validateAppliance(a); err != nil {
		return model.Appliance{}, err
	}

	if err := s.db.WithContext(ctx).Save(&a).Error; err != nil {
		return model.Appliance{}, fmt.Errorf("update appliance %s: %w", id, err)
	}
	a.Status = warranty.ComputeStatus(a.WarrantyExpiry, s.now().UTC())
	return a, nil
}

// DeleteAppliance removes the record and its maintenance tasks.
func (s *gormStore) DeleteAppliance(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Appliance{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete appliance %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("appliance_id = ?", id).Delete(&model.MaintenanceTask{}).Error; err != nil {
			return fmt.Errorf("delete maintenance tasks for %s: %w", id, err)
		}
		return nil
	})
}

// GetApplianceByID returns the record with its status derived against the
// current clock.
func (s *gormStore) GetApplianceByID(ctx context.Context, id string) (model.Appliance, error) {
	var a model.Appliance
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Appliance{}, ErrNotFound
		}
		return model.Appliance{}, fmt.Errorf("load appliance %s: %w", id, err)
	}
	a.Status = warranty.ComputeStatus(a.WarrantyExpiry, s.now().UTC())
	return a, nil
}

// ListAppliances returns all records in insertion order with derived status.
func (s *gormStore) ListAppliances(ctx context.Context) ([]model.Appliance, error) {
	var appliances []model.Appliance
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&appliances).Error; err != nil {
		return nil, fmt.Errorf("list appliances: %w", err)
	}
	now := s.now().UTC()
	for i := range appliances {
		appliances[i].Status = warranty.ComputeStatus(appliances[i].WarrantyExpiry, now)
	}
	return appliances, nil
}

// CreateAlert records an alert, assigning id and created_at when absent.
func (s *gormStore) CreateAlert(ctx context.Context, alert model.Alert) (model.Alert, error) {
	if alert.Title == "" {
		return model.Alert{}, fmt.Errorf("%w: alert title is required", ErrValidation)
	}
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = s.now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return model.Alert{}, fmt.Errorf("create alert: %w", err)
	}
	return alert, nil
}

// ListAlerts returns all alerts, newest first.
func (s *gormStore) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	var alerts []model.Alert
	if err := s.db.WithContext(ctx).Order("created_at DESC, id").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// UnreadAlertCount is the derived count of alerts with read=false.
func (s *gormStore) UnreadAlertCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Alert{}).Where("read = ?", false).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count unread alerts: %w", err)
	}
	return count, nil
}

// HasUnreadAlert reports whether an unread alert of the given type already
// exists for the appliance. The alert service uses it to avoid duplicates.
func (s *gormStore) HasUnreadAlert(ctx context.Context, applianceID string, alertType model.AlertType) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Alert{}).
		Where("appliance_id = ? AND type = ? AND read = ?", applianceID, alertType, false).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check unread alerts for %s: %w", applianceID, err)
	}
	return count > 0, nil
}

// MarkAlertRead sets read=true for the matching alert.
func (s *gormStore) MarkAlertRead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&model.Alert{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("mark alert %s read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAlertsRead sets read=true for every unread alert.
func (s *gormStore) MarkAllAlertsRead(ctx context.Context) error {
	err := s.db.WithContext(ctx).Model(&model.Alert{}).Where("read = ?", false).Update("read", true).Error
	if err != nil {
		return fmt.Errorf("mark all alerts read: %w", err)
	}
	return nil
}

// CreateMaintenanceTask schedules a task for an existing appliance.
func (s *gormStore) CreateMaintenanceTask(ctx context.Context, in MaintenanceInput) (model.MaintenanceTask, error) {
	if in.Title == "" {
		return model.MaintenanceTask{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.DueDate.IsZero() {
		return model.MaintenanceTask{}, fmt.Errorf("%w: due date is required", ErrValidation)
	}
	if _, err := s.GetApplianceByID(ctx, in.ApplianceID); err != nil {
		return model.MaintenanceTask{}, err
	}

	task := model.MaintenanceTask{
		ID:          uuid.NewString(),
		ApplianceID: in.ApplianceID,
		Title:       in.Title,
		Notes:       in.Notes,
		DueDate:     dateOnly(in.DueDate),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return model.MaintenanceTask{}, fmt.Errorf("create maintenance task: %w", err)
	}
	return task, nil
}

// ListUpcomingMaintenance returns incomplete tasks ordered by due date.
func (s *gormStore) ListUpcomingMaintenance(ctx context.Context) ([]model.MaintenanceTask, error) {
	var tasks []model.MaintenanceTask
	err := s.db.WithContext(ctx).Where("completed = ?", false).Order("due_date, id").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming maintenance: %w", err)
	}
	return tasks, nil
}

// ListMaintenanceForAppliance returns every task for one appliance.
func (s *gormStore) ListMaintenanceForAppliance(ctx context.Context, applianceID string) ([]model.MaintenanceTask, error) {
	var tasks []model.MaintenanceTask
	err := s.db.WithContext(ctx).Where("appliance_id = ?", applianceID).Order("due_date, id").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list maintenance for %s: %w", applianceID, err)
	}
	return tasks, nil
}

// CompleteMaintenanceTask marks a task done and returns it.
func (s *gormStore) CompleteMaintenanceTask(ctx context.Context, id string) (model.MaintenanceTask, error) {
	var task model.MaintenanceTask
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.MaintenanceTask{}, ErrNotFound
		}
		return model.MaintenanceTask{}, fmt.Errorf("load maintenance task %s: %w", id, err)
	}
	task.Completed = true
	if err := s.db.WithContext(ctx).Save(&task).Error; err != nil {
		return model.MaintenanceTask{}, fmt.Errorf("complete maintenance task %s: %w", id, err)
	}
	return task, nil
}

// SavePushSubscription creates or refreshes a subscription keyed by endpoint.
func (s *gormStore) SavePushSubscription(ctx context.Context, sub model.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now().UTC()
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(&sub).Error
	if err != nil {
		return fmt.Errorf("save push subscription: %w", err)
	}
	return nil
}

// GetPushSubscription returns the subscription for an endpoint.
func (s *gormStore) GetPushSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.PushSubscription{}, ErrNotFound
		}
		return model.PushSubscription{}, fmt.Errorf("load push subscription: %w", err)
	}
	return sub, nil
}

// DeletePushSubscription removes a subscription. Deleting an unknown
// endpoint is not an error; expired subscriptions are cleaned up lazily.
func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

// ListPushSubscriptions returns all subscriptions.
func (s *gormStore) ListPushSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	return subs, nil
}

func applyUpdate(a *model.Appliance, upd ApplianceUpdate) {
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Category != nil {
		a.Category = *upd.Category
	}
	if upd.Brand != nil {
		a.Brand = *upd.Brand
	}
	if upd.Model != nil {
		a.Model = *upd.Model
	}
	if upd.SerialNumber != nil {
		a.SerialNumber = *upd.SerialNumber
	}
	if upd.PurchaseDate != nil {
		a.PurchaseDate = *upd.PurchaseDate
	}
	if upd.WarrantyDurationMonths != nil {
		a.WarrantyDurationMonths = *upd.WarrantyDurationMonths
	}
	if upd.SupplierName != nil {
		a.SupplierName = *upd.SupplierName
	}
	if upd.SupplierPhone != nil {
		a.SupplierPhone = *upd.SupplierPhone
	}
	if upd.SupplierEmail != nil {
		a.SupplierEmail = *upd.SupplierEmail
	}
	if upd.PurchasePrice != nil {
		a.PurchasePrice = upd.PurchasePrice
	}
	if upd.ReceiptFileURL != nil {
		a.ReceiptFileURL = *upd.ReceiptFileURL
	}
	if upd.Notes != nil {
		a.Notes = *upd.Notes
	}
}

func validateApplianceInput(in ApplianceInput) error {
	return validateApplianceFields(in.Name, in.Category, in.PurchaseDate, in.WarrantyDurationMonths, in.PurchasePrice)
}

func validateAppliance(a model.Appliance) error {
	return validateApplianceFields(a.Name, a.Category, a.PurchaseDate, a.WarrantyDurationMonths, a.PurchasePrice)
}

func validateApplianceFields(name string, category model.Category, purchaseDate time.Time, months int, price *float64) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: unrecognized category %q", ErrValidation, category)
	}
	if purchaseDate.IsZero() {
		return fmt.Errorf("%w: purchase date is required", ErrValidation)
	}
	if months < 0 {
		return fmt.Errorf("%w: warranty duration must not be negative", ErrValidation)
	}
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: purchase price must not be negative", ErrValidation)
	}
	return nil
}

// dateOnly strips the time component, keeping a date at midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
