package calendar

import "time"

// Week identifies an ISO-8601 week.
type Week struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// ISOWeekOf returns the ISO-8601 week of t in UTC. Weeks start on Monday and
// week 1 is the week containing the year's first Thursday.
func ISOWeekOf(t time.Time) Week {
	year, week := t.UTC().ISOWeek()
	return Week{Year: year, Week: week}
}

// ISOWeekRange returns the Monday and Sunday bounding the given ISO week.
func ISOWeekRange(year, week int) (start, end time.Time) {
	// January 4th is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	start = jan4.AddDate(0, 0, -offset+(week-1)*7)
	return start, start.AddDate(0, 0, 6)
}
