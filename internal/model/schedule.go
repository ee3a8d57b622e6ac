package model

import (
	"fmt"
	"time"
)

const (
	scheduleDateLayout = "Mon 1/2"
	scheduleTimeLayout = "3:04PM"
)

// ScheduleLayouts are the accepted encodings of start_date / end_date,
// tried in order.
var ScheduleLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 Z0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ScheduleItem is one start/end interval of a venue's schedule.
type ScheduleItem struct {
	Start time.Time `db:"start_ts" json:"start_date"`
	End   time.Time `db:"end_ts"   json:"end_date"`
}

// ParseScheduleTime parses a schedule date string. An empty string yields the zero time.
func ParseScheduleTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range ScheduleLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable schedule date %q", value)
}

// NewScheduleItem builds a ScheduleItem from its raw date strings.
func NewScheduleItem(start, end string) (ScheduleItem, error) {
	s, err := ParseScheduleTime(start)
	if err != nil {
		return ScheduleItem{}, err
	}
	e, err := ParseScheduleTime(end)
	if err != nil {
		return ScheduleItem{}, err
	}
	return ScheduleItem{Start: s, End: e}, nil
}

// Format renders the item as "Mon 3/4 7:00PM to 9:00PM" in loc. The end date
// is only repeated when it falls on a different day. A nil loc keeps the
// parsed offsets.
func (s ScheduleItem) Format(loc *time.Location) string {
	if s.Start.IsZero() || s.End.IsZero() {
		return ""
	}
	start, end := s.Start, s.End
	if loc != nil {
		start, end = start.In(loc), end.In(loc)
	}

	startDate := start.Format(scheduleDateLayout)
	line := startDate + " " + start.Format(scheduleTimeLayout) + " to "
	if endDate := end.Format(scheduleDateLayout); endDate != startDate {
		line += endDate + " "
	}
	return line + end.Format(scheduleTimeLayout)
}
