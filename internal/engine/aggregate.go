package engine

import (
	"strings"
	"time"

	"daily-organizer/internal/model"
)

// Uncategorized names the group for records without a category.
const Uncategorized = "Uncategorized"

// CategoryGroup is the tasks sharing one category display name. Icon and
// Color come from the first task seen with that name.
type CategoryGroup struct {
	Name  string
	Icon  *string
	Color *string
	Tasks []model.Task
}

// Buckets partitions one task snapshot. Every slice is freshly allocated;
// the input is never modified.
type Buckets struct {
	Total int

	Pending      []model.Task
	InProgress   []model.Task
	Completed    []model.Task
	Unrecognized []model.Task

	// Overdue and the priority buckets are subsets of Pending.
	Overdue []model.Task
	DueSoon []model.Task
	High    []model.Task
	Medium  []model.Task
	Low     []model.Task

	Categories []CategoryGroup
}

// Counts is the numeric summary of Buckets.
type Counts struct {
	Total        int
	Pending      int
	InProgress   int
	Completed    int
	Unrecognized int
	Overdue      int
	DueSoon      int
}

// Aggregate buckets tasks by status, priority and category relative to now.
// Bucket order follows input order, so sort first when order matters.
func Aggregate(tasks []model.Task, now time.Time) Buckets {
	b := Buckets{Total: len(tasks)}
	index := make(map[string]int)

	for _, task := range tasks {
		switch task.Status {
		case model.StatusPending:
			b.Pending = append(b.Pending, task)
			b.addPending(task, now)
		case model.StatusInProgress:
			b.InProgress = append(b.InProgress, task)
		case model.StatusCompleted:
			b.Completed = append(b.Completed, task)
		default:
			b.Unrecognized = append(b.Unrecognized, task)
		}

		name, icon, color := categoryOf(task)
		i, ok := index[name]
		if !ok {
			i = len(b.Categories)
			index[name] = i
			b.Categories = append(b.Categories, CategoryGroup{Name: name, Icon: icon, Color: color})
		}
		b.Categories[i].Tasks = append(b.Categories[i].Tasks, task)
	}
	return b
}

func (b *Buckets) addPending(task model.Task, now time.Time) {
	switch Classify(task.DueAt, now) {
	case Overdue:
		b.Overdue = append(b.Overdue, task)
	case DueSoon:
		b.DueSoon = append(b.DueSoon, task)
	}
	switch task.Priority {
	case model.PriorityHigh:
		b.High = append(b.High, task)
	case model.PriorityMedium:
		b.Medium = append(b.Medium, task)
	case model.PriorityLow:
		b.Low = append(b.Low, task)
	}
}

func categoryOf(task model.Task) (name string, icon, color *string) {
	if task.Category == nil {
		return Uncategorized, nil, nil
	}
	name = strings.TrimSpace(task.Category.Name)
	if name == "" {
		return Uncategorized, nil, nil
	}
	return name, task.Category.Icon, task.Category.Color
}

// Counts summarizes the buckets.
func (b Buckets) Counts() Counts {
	return Counts{
		Total:        b.Total,
		Pending:      len(b.Pending),
		InProgress:   len(b.InProgress),
		Completed:    len(b.Completed),
		Unrecognized: len(b.Unrecognized),
		Overdue:      len(b.Overdue),
		DueSoon:      len(b.DueSoon),
	}
}

// Open returns pending and in-progress tasks, pending first.
func (b Buckets) Open() []model.Task {
	out := make([]model.Task, 0, len(b.Pending)+len(b.InProgress))
	out = append(out, b.Pending...)
	return append(out, b.InProgress...)
}

// ClassifiedEvent pairs an event with its status relative to now.
type ClassifiedEvent struct {
	Event  model.Event
	Status DateStatus
}

// ClassifyEvents orders events by start and tags each one.
func ClassifyEvents(events []model.Event, now time.Time) []ClassifiedEvent {
	sorted := SortEvents(events)
	out := make([]ClassifiedEvent, 0, len(sorted))
	for _, ev := range sorted {
		start := ev.StartAt
		out = append(out, ClassifiedEvent{Event: ev, Status: Classify(&start, now)})
	}
	return out
}
