package engine

import (
	"slices"
	"strings"
	"time"

	"daily-organizer/internal/model"
)

// SortKey selects the task ordering.
type SortKey string

const (
	SortByDueDate   SortKey = "due_date"
	SortByPriority  SortKey = "priority"
	SortByCreatedAt SortKey = "created_at"
)

// ParseSortKey maps user input to a key. Short aliases ("due", "created")
// are accepted.
func ParseSortKey(raw string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "due_date", "due", "deadline":
		return SortByDueDate, true
	case "priority", "prio":
		return SortByPriority, true
	case "created_at", "created", "new", "newest":
		return SortByCreatedAt, true
	}
	return "", false
}

// PriorityRank is high=3, medium=2, low=1 and 0 for anything else.
func PriorityRank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 3
	case model.PriorityMedium:
		return 2
	case model.PriorityLow:
		return 1
	default:
		return 0
	}
}

// SortTasks returns a stably sorted copy of tasks. An unknown key keeps the
// input order.
func SortTasks(tasks []model.Task, key SortKey) []model.Task {
	out := slices.Clone(tasks)
	switch key {
	case SortByDueDate:
		slices.SortStableFunc(out, compareDue)
	case SortByPriority:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return PriorityRank(b.Priority) - PriorityRank(a.Priority)
		})
	case SortByCreatedAt:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return createdOrEpoch(b).Compare(createdOrEpoch(a))
		})
	}
	return out
}

// compareDue puts dated tasks first, earliest due first.
func compareDue(a, b model.Task) int {
	switch {
	case a.DueAt == nil && b.DueAt == nil:
		return 0
	case a.DueAt == nil:
		return 1
	case b.DueAt == nil:
		return -1
	default:
		return a.DueAt.Compare(*b.DueAt)
	}
}

func createdOrEpoch(t model.Task) time.Time {
	if t.CreatedAt.IsZero() {
		return time.Unix(0, 0)
	}
	return t.CreatedAt
}

// SortEvents returns a copy of events ordered by start, earliest first.
func SortEvents(events []model.Event) []model.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b model.Event) int {
		return a.StartAt.Compare(b.StartAt)
	})
	return out
}
