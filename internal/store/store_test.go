package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warranty-tracker-backend/internal/model"
	"warranty-tracker-backend/internal/warranty"
)

// newTestStore opens a private in-memory SQLite database. A single
// connection keeps the database alive for the duration of the test.
func newTestStore(t *testing.T, now func() time.Time) Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Appliance{},
		&model.Alert{},
		&model.MaintenanceTask{},
		&model.PushSubscription{},
	))

	return NewGormStoreWithClock(db, now)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func validInput() ApplianceInput {
	return ApplianceInput{
		Name:                   "LG Refrigerator 260L",
		Category:               model.CategoryRefrigerator,
		Brand:                  "LG",
		Model:                  "GL-I292RPZL",
		PurchaseDate:           time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		WarrantyDurationMonths: 12,
	}
}

func TestCreateApplianceAndGetByID(t *testing.T) {
	now := time.Date(2024, time.December, 20, 10, 0, 0, 0, time.UTC)
	s := newTestStore(t, fixedClock(now))
	ctx := context.Background()

	created, err := s.CreateAppliance(ctx, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2025-01-01", created.WarrantyExpiry.Format("2006-01-02"))
	assert.Equal(t, warranty.StatusExpiring, created.Status)
	assert.Equal(t, now, created.CreatedAt)

	got, err := s.GetApplianceByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "LG Refrigerator 260L", got.Name)
	assert.Equal(t, model.CategoryRefrigerator, got.Category)
	assert.Equal(t, 12, got.WarrantyDurationMonths)
	assert.Equal(t, "2024-01-01", got.PurchaseDate.Format("2006-01-02"))
	assert.Equal(t, "2025-01-01", got.WarrantyExpiry.Format("2006-01-02"))
	assert.Equal(t, warranty.StatusExpiring, got.Status)
}

func TestCreateApplianceValidation(t *testing.T) {
	s := newTestStore(t, time.Now)
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*ApplianceInput)
	}{
		{"empty name", func(in *ApplianceInput) { in.Name = "" }},
		{"unrecognized category", func(in *ApplianceInput) { in.Category = "Dishwasher" }},
		{"missing purchase date", func(in *ApplianceInput) { in.PurchaseDate = time.Time{} }},
		{"negative duration", func(in *ApplianceInput) { in.WarrantyDurationMonths = -1 }},
		{"negative price", func(in *ApplianceInput) {
			price := -10.0
			in.PurchasePrice = &price
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := s.CreateAppliance(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// Nothing was persisted by the failed attempts.
	appliances, err := s.ListAppliances(ctx)
	require.NoError(t, err)
	assert.Empty(t, appliances)
}

func TestUpdateApplianceRecomputesDerivedFields(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, fixedClock(now))
	ctx := context.Background()

	created, err := s.CreateAppliance(ctx, validInput())
	require.NoError(t, err)

	months := 24
	updated, err := s.UpdateAppliance(ctx, created.ID, ApplianceUpdate{WarrantyDurationMonths: &months})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", updated.WarrantyExpiry.Format("2006-01-02"))
	assert.Equal(t, warranty.StatusActive, updated.Status)

	// Fields absent from the payload are unchanged.
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Brand, updated.Brand)
	assert.Equal(t, "2024-01-01", updated.PurchaseDate.Format("2006-01-02"))
}

func TestUpdateApplianceWithoutDateInputsKeepsExpiry(t *testing.T) {
	s := newTestStore(t, fixedClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	created, err := s.CreateAppliance(ctx, validInput())
	require.NoError(t, err)

	name := "LG Refrigerator 260L (kitchen)"
	updated, err := s.UpdateAppliance(ctx, created.ID, ApplianceUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "2025-01-01", updated.WarrantyExpiry.Format("2006-01-02"))
}

func TestUpdateApplianceNotFound(t *testing.T) {
	s := newTestStore(t, time.Now)

	name := "whatever"
	_, err := s.UpdateAppliance(context.Background(), "missing-id", ApplianceUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateApplianceRejectsInvalidMerge(t *testing.T) {
	s := newTestStore(t, time.Now)
	ctx := context.Background()

	created, err := s.CreateAppliance(ctx, validInput())
	require.NoError(t, err)

	months := -6
	_, err = s.UpdateAppliance(ctx, created.ID, ApplianceUpdate{WarrantyDurationMonths: &months})
	assert.ErrorIs(t, err, ErrValidation)

	// The stored record is untouched.
	got, err := s.GetApplianceByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.WarrantyDurationMonths)
}

func TestDeleteAppliance(t *testing.T) {
	s := newTestStore(t, time.Now)
	ctx := context.Background()

	created, err := s.CreateAppliance(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, s.DeleteAppliance(ctx, created.ID))

	_, err = s.GetApplianceByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	appliances, err := s.ListAppliances(ctx)
	require.NoError(t, err)
	assert.Empty(t, appliances)

	// Deleting again signals not-found and leaves the collection alone.
	assert.ErrorIs(t, s.DeleteAppliance(ctx, created.ID), ErrNotFound)
}

func TestDeleteApplianceRemovesMaintenanceTasks(t *testing.T) {
	s := newTestStore(t, time.Now)
	ctx := context.Background()

	created, err := s.CreateAppliance(ctx, validInput())
	require.NoError(t, err)

	_, err = s.CreateMaintenanceTask(ctx, MaintenanceInput{
		ApplianceID: created.ID,
		Title:       "Clean condenser coils",
		DueDate:     time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAppliance(ctx, created.ID))

	tasks, err := s.ListUpcomingMaintenance(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListAppliancesInsertionOrder(t *testing.T) {
	current := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, func() time.Time { return current })
	ctx := context.Background()

	names := []string{"Refrigerator", "TV", "Washing machine"}
	for _, name := range names {
		in := validInput()
		in.Name = name
		_, err := s.CreateAppliance(ctx, in)
		require.NoError(t, err)
		current = current.Add(time.Second)
	}

	appliances, err := s.ListAppliances(ctx)
	require.NoError(t, err)
	require.Len(t, appliances, 3)
	for i, name := range names {
		assert.Equal(t, name, appliances[i].Name)
	}
}

// The status returned by reads tracks the clock even when no write touches
// the record.
func TestStatusIsDerivedAtReadTime(t *testing.T) {
	current := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, func() time.Time { return current })
	ctx := context.Background()

	created, err := s.CreateAppliance(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, warranty.StatusActive, created.Status)

	current = time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC) // 22 days before expiry
	got, err := s.GetApplianceByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, warranty.StatusExpiring, got.Status)

	current = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC) // past expiry
	got, err = s.GetApplianceByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, warranty.StatusExpired, got.Status)
}

func TestAlertReadTracking(t *testing.T) {
	s := newTestStore(t, time.Now)
	ctx := context.Background()

	first, err := s.CreateAlert(ctx, model.Alert{
		Type:    model.AlertWarrantyExpiringSoon,
		Title:   "Warranty Expiring Soon",
		Message: "LG Refrigerator warranty expires in 15 days",
		DueDate: time.Now().AddDate(0, 0, 15),
	})
	require.NoError(t, err)

	_, err = s.CreateAlert(ctx, model.Alert{
		Type:    model.AlertMaintenanceUpcoming,
		Title:   "Maintenance Due",
		Message: "Samsung TV panel cleaning scheduled for next week",
		DueDate: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	count, err := s.UnreadAlertCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, s.MarkAlertRead(ctx, first.ID))
	count, err = s.UnreadAlertCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, s.MarkAlertRead(ctx, "missing-id"), ErrNotFound)

	require.NoError(t, s.MarkAllAlertsRead(ctx))
	count, err = s.UnreadAlertCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestHasUnreadAlert(t *testing.T) {
	s := newTestStore(t, time.Now)
	ctx := context.Background()

	alert, err := s.CreateAlert(ctx, model.Alert{
		Type:        model.AlertWarrantyExpired,
		ApplianceID: "appliance-1",
		Title:       "Warranty Expired",
		Message:     "TV warranty expired",
		DueDate:     time.Now(),
	})
	require.NoError(t, err)

	exists, err := s.HasUnreadAlert(ctx, "appliance-1", model.AlertWarrantyExpired)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.HasUnreadAlert(ctx, "appliance-1", model.AlertWarrantyExpiringSoon)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.MarkAlertRead(ctx, alert.ID))
	exists, err = s.HasUnreadAlert(ctx, "appliance-1", model.AlertWarrantyExpired)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMaintenanceTaskLifecycle(t *testing.T) {
	s := newTestStore(t, time.Now)
	ctx := context.Background()

	_, err := s.CreateMaintenanceTask(ctx, MaintenanceInput{
		ApplianceID: "missing-appliance",
		Title:       "Filter change",
		DueDate:     time.Now(),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := s.CreateAppliance(ctx, validInput())
	require.NoError(t, err)

	task, err := s.CreateMaintenanceTask(ctx, MaintenanceInput{
		ApplianceID: created.ID,
		Title:       "Clean condenser coils",
		DueDate:     time.Now().AddDate(0, 0, 5),
	})
	require.NoError(t, err)
	assert.False(t, task.Completed)

	upcoming, err := s.ListUpcomingMaintenance(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, task.ID, upcoming[0].ID)

	completed, err := s.CompleteMaintenanceTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)

	upcoming, err = s.ListUpcomingMaintenance(ctx)
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	_, err = s.CompleteMaintenanceTask(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPushSubscriptionRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Now)
	ctx := context.Background()

	sub := model.PushSubscription{
		Endpoint: "https://example.com/push/abc",
		P256DH:   "p256dh-key",
		Auth:     "auth-secret",
	}
	require.NoError(t, s.SavePushSubscription(ctx, sub))

	got, err := s.GetPushSubscription(ctx, sub.Endpoint)
	require.NoError(t, err)
	assert.Equal(t, sub.P256DH, got.P256DH)

	// Saving again refreshes the keys in place.
	sub.Auth = "rotated-secret"
	require.NoError(t, s.SavePushSubscription(ctx, sub))
	subs, err := s.ListPushSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "rotated-secret", subs[0].Auth)

	require.NoError(t, s.DeletePushSubscription(ctx, sub.Endpoint))
	_, err = s.GetPushSubscription(ctx, sub.Endpoint)
	assert.ErrorIs(t, err, ErrNotFound)
}
