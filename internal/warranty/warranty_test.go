package warranty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeExpiry(t *testing.T) {
	testCases := []struct {
		name     string
		purchase time.Time
		months   int
		expected time.Time
	}{
		{"twelve months", date(2024, time.January, 1), 12, date(2025, time.January, 1)},
		{"zero months", date(2024, time.June, 15), 0, date(2024, time.June, 15)},
		{"clamps to leap february", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"clamps to non-leap february", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"clamps thirty-day month", date(2024, time.August, 31), 1, date(2024, time.September, 30)},
		{"crosses year boundary", date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{"multi-year", date(2022, time.March, 10), 36, date(2025, time.March, 10)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeExpiry(tc.purchase, tc.months))
		})
	}
}

func TestDaysUntil(t *testing.T) {
	now := date(2024, time.December, 20)

	assert.Equal(t, 12, DaysUntil(date(2025, time.January, 1), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, -1, DaysUntil(now.AddDate(0, 0, -1), now))

	// Partial days round up: expiring later today is still 0 days away.
	assert.Equal(t, 0, DaysUntil(now, now.Add(10*time.Hour)))
	assert.Equal(t, 1, DaysUntil(now.AddDate(0, 0, 1), now.Add(10*time.Hour)))
}

func TestComputeStatusBoundaries(t *testing.T) {
	now := date(2024, time.June, 1)

	testCases := []struct {
		name     string
		expiry   time.Time
		expected Status
	}{
		{"thirty-one days out is active", now.AddDate(0, 0, 31), StatusActive},
		{"thirty days out is expiring", now.AddDate(0, 0, 30), StatusExpiring},
		{"expires today is expiring", now, StatusExpiring},
		{"one day past is expired", now.AddDate(0, 0, -1), StatusExpired},
		{"far future is active", now.AddDate(2, 0, 0), StatusActive},
		{"long expired", now.AddDate(-1, 0, 0), StatusExpired},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeStatus(tc.expiry, now))
		})
	}
}

func TestComputeStatusDeterministic(t *testing.T) {
	expiry := date(2025, time.January, 1)
	now := date(2024, time.December, 20)

	first := ComputeStatus(expiry, now)
	second := ComputeStatus(expiry, now)
	assert.Equal(t, first, second)
	assert.Equal(t, StatusExpiring, first)
}

// The documented end-to-end example: purchased 2024-01-01 with 12 months of
// coverage, evaluated on 2024-12-20.
func TestWarrantyLifecycleExample(t *testing.T) {
	expiry := ComputeExpiry(date(2024, time.January, 1), 12)
	assert.Equal(t, date(2025, time.January, 1), expiry)

	now := date(2024, time.December, 20)
	assert.Equal(t, 12, DaysUntil(expiry, now))
	assert.Equal(t, StatusExpiring, ComputeStatus(expiry, now))
}
