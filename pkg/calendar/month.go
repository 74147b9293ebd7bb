// Package calendar holds the month and week bucketing helpers shared by the
// analytics views. All dates are interpreted in UTC.
package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/pario-ai/reqlens/pkg/models"
)

// ErrInvalidMonth is returned when a month string is not YYYY-MM.
var ErrInvalidMonth = errors.New("invalid month")

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Month identifies a calendar month.
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// MonthOption is a selectable month with data.
type MonthOption struct {
	Value          string `json:"value"`
	Label          string `json:"label"`
	IsCurrentMonth bool   `json:"is_current_month"`
}

// MonthCoverage reports how many days of a month have data.
type MonthCoverage struct {
	DaysWithData   int  `json:"days_with_data"`
	TotalDays      int  `json:"total_days"`
	IsCurrentMonth bool `json:"is_current_month"`
}

// IsValidMonthFormat reports whether s is YYYY-MM with a year in 2000-3000
// and a month in 01-12.
func IsValidMonthFormat(s string) bool {
	if !monthPattern.MatchString(s) {
		return false
	}
	year, _ := strconv.Atoi(s[:4])
	month, _ := strconv.Atoi(s[5:])
	return year >= 2000 && year <= 3000 && month >= 1 && month <= 12
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	if !IsValidMonthFormat(s) {
		return Month{}, fmt.Errorf("%w: %q, expected YYYY-MM", ErrInvalidMonth, s)
	}
	year, _ := strconv.Atoi(s[:4])
	month, _ := strconv.Atoi(s[5:])
	return Month{Year: year, Month: month}, nil
}

// MonthOf returns the UTC month containing t.
func MonthOf(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: int(t.Month())}
}

// CurrentMonth returns the month containing now.
func CurrentMonth(now time.Time) Month {
	return MonthOf(now)
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%d-%02d", m.Year, m.Month)
}

// Previous returns the month before m.
func (m Month) Previous() Month {
	if m.Month == 1 {
		return Month{Year: m.Year - 1, Month: 12}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Label returns a human-readable label such as "September 2025".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", time.Month(m.Month), m.Year)
}

// Contains reports whether t falls within m (UTC).
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// DaysInMonth returns the number of days in m.
func DaysInMonth(m Month) int {
	// Day 0 of the following month normalises to the last day of m.
	return time.Date(m.Year, time.Month(m.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthsInRecords returns the distinct months present, most recent first.
func MonthsInRecords(records []models.UsageRecord) []Month {
	seen := make(map[Month]bool)
	var months []Month
	for _, r := range records {
		if r.Timestamp.IsZero() {
			continue
		}
		m := MonthOf(r.Timestamp)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[j].Before(months[i]) })
	return months
}

// AvailableMonths returns a selectable option for each month with data.
func AvailableMonths(records []models.UsageRecord, now time.Time) []MonthOption {
	current := CurrentMonth(now)
	months := MonthsInRecords(records)
	opts := make([]MonthOption, 0, len(months))
	for _, m := range months {
		opts = append(opts, MonthOption{
			Value:          m.String(),
			Label:          m.Label(),
			IsCurrentMonth: m == current,
		})
	}
	return opts
}

// FilterByMonth returns the records falling in m. The input is not modified.
func FilterByMonth(records []models.UsageRecord, m Month) []models.UsageRecord {
	out := make([]models.UsageRecord, 0, len(records))
	for _, r := range records {
		if m.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}

// DaysWithData counts the distinct days of m with at least one record.
func DaysWithData(records []models.UsageRecord, m Month) int {
	days := make(map[int]struct{})
	for _, r := range records {
		if m.Contains(r.Timestamp) {
			days[r.Timestamp.UTC().Day()] = struct{}{}
		}
	}
	return len(days)
}

// Coverage reports day coverage for m. Empty input yields the zero value.
func Coverage(records []models.UsageRecord, m Month, now time.Time) MonthCoverage {
	if len(records) == 0 {
		return MonthCoverage{}
	}
	return MonthCoverage{
		DaysWithData:   DaysWithData(records, m),
		TotalDays:      DaysInMonth(m),
		IsCurrentMonth: m == CurrentMonth(now),
	}
}
