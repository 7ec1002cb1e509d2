package model

import (
	"strconv"
	"time"
)

// Category tags offered by the UI. The set is open: any string is accepted,
// unknown tags simply render without a dedicated marker.
const (
	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryShopping = "shopping"
	CategoryOther    = "other"
)

// Task is a single item in a user's list. JSON tags are the storage
// contract: the whole list is embedded in its owning User record and
// rewritten wholesale on every mutation.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Important bool   `json:"important"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
	Deadline  string `json:"deadline,omitempty"`
	Notified  bool   `json:"notified"`
}

// deadlineLayouts accepts the datetime-local shape the original UI wrote
// plus the usual RFC 3339 variants.
var deadlineLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDeadline parses a stored deadline string in the local time zone.
// The second return is false for empty or unparseable values.
func ParseDeadline(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range deadlineLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, value); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DeadlineTime parses the task's deadline; false when absent or malformed.
func (t Task) DeadlineTime() (time.Time, bool) {
	return ParseDeadline(t.Deadline)
}

// NewID derives a task or account ID from a creation timestamp. IDs are
// decimal millisecond strings, so they sort by creation time.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// Stats summarizes a full task list. Derived from the unfiltered list,
// never the filtered view.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// CountStats derives totals from a task list.
func CountStats(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
