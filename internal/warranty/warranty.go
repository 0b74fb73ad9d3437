package warranty

import "time"

// Status classifies an appliance's warranty coverage relative to a point in time.
type Status string

const (
	StatusActive   Status = "Active"
	StatusExpiring Status = "Expiring"
	StatusExpired  Status = "Expired"
)

// ExpiringWindowDays is the number of days before expiry during which a
// warranty counts as Expiring. The boundary is inclusive: exactly 30 days
// out is Expiring, 31 is Active.
const ExpiringWindowDays = 30

// ComputeExpiry adds durationMonths calendar months to purchaseDate.
// Month overflow clamps to the last valid day of the target month, so
// 2024-01-31 plus one month is 2024-02-29. The result is a date at
// midnight UTC.
func ComputeExpiry(purchaseDate time.Time, durationMonths int) time.Time {
	y, m, d := purchaseDate.Date()
	target := time.Date(y, m+time.Month(durationMonths), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the number of days from now until expiry, rounded up.
// A warranty expiring later today yields 0; one day past expiry yields -1.
func DaysUntil(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// ComputeStatus classifies expiry against now. It never reads the wall
// clock; callers supply now explicitly.
func ComputeStatus(expiry, now time.Time) Status {
	days := DaysUntil(expiry, now)
	switch {
	case days < 0:
		return StatusExpired
	case days <= ExpiringWindowDays:
		return StatusExpiring
	default:
		return StatusActive
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
