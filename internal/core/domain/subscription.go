package domain

import "time"

// DateLayout is the calendar-date format used for subscription and birth dates.
const DateLayout = "2006-01-02"

// ExpiringWindowDays is how far ahead the dashboard looks for expiring subscriptions.
const ExpiringWindowDays = 7

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// CalendarDay truncates t to its calendar date, expressed as UTC midnight.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return CalendarDay(t).Format(DateLayout)
}

// RemainingDays returns the whole days between today and subscriptionEnd.
// ok is false when the end date is absent, unparsable or already in the past;
// such a subscription is treated as expired.
func RemainingDays(subscriptionEnd string, today time.Time) (days int, ok bool) {
	if subscriptionEnd == "" {
		return 0, false
	}
	end, err := ParseDate(subscriptionEnd)
	if err != nil {
		return 0, false
	}
	days = int(end.Sub(CalendarDay(today)).Hours() / 24)
	if days < 0 {
		return 0, false
	}
	return days, true
}

// DashboardStats aggregates subscription state across all users.
type DashboardStats struct {
	TotalUsers    int `json:"total_users"`
	ActiveUsers   int `json:"active_users"`
	ExpiringUsers int `json:"expiring_users"`
	ExpiredUsers  int `json:"expired_users"`
}

// ComputeDashboard classifies subscription end dates against today.
// Users without a parsable end date only count towards the total.
func ComputeDashboard(subscriptionEnds []string, today time.Time) DashboardStats {
	day := CalendarDay(today)
	horizon := day.AddDate(0, 0, ExpiringWindowDays)

	stats := DashboardStats{TotalUsers: len(subscriptionEnds)}
	for _, s := range subscriptionEnds {
		end, err := ParseDate(s)
		if err != nil {
			continue
		}
		switch {
		case end.Before(day):
			stats.ExpiredUsers++
		default:
			stats.ActiveUsers++
			if !end.After(horizon) {
				stats.ExpiringUsers++
			}
		}
	}
	return stats
}
