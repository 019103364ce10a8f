package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-organizer/internal/model"
)

func str(s string) *string { return &s }

func fixtureTasks() []model.Task {
	work := &model.Category{ID: 1, Name: "Work", Icon: str("💼"), Color: str("#336699")}
	health := &model.Category{ID: 2, Name: "Health"}
	past := refNow.Add(-time.Minute)
	soon := refNow.Add(2 * time.Hour)
	later := refNow.AddDate(0, 0, 5)
	done := refNow.Add(-time.Hour)

	return []model.Task{
		{ID: 1, Status: model.StatusPending, Priority: model.PriorityHigh, DueAt: &past, Category: work},
		{ID: 2, Status: model.StatusPending, Priority: model.PriorityLow, DueAt: &soon},
		{ID: 3, Status: model.StatusInProgress, Priority: model.PriorityHigh, DueAt: &past, Category: health},
		{ID: 4, Status: model.StatusCompleted, Priority: model.PriorityMedium, CompletedAt: &done, Category: work},
		{ID: 5, Status: "archived", Priority: model.PriorityHigh, Category: health},
		{ID: 6, Status: model.StatusPending, Priority: "someday", DueAt: &later, Category: &model.Category{Name: "  "}},
		{ID: 7, Status: model.StatusPending, Priority: model.PriorityMedium},
		{ID: 8, Status: "", Priority: model.PriorityNone},
	}
}

func TestAggregateStatusPartitions(t *testing.T) {
	b := Aggregate(fixtureTasks(), refNow)

	assert.Equal(t, []uint{1, 2, 6, 7}, ids(b.Pending))
	assert.Equal(t, []uint{3}, ids(b.InProgress))
	assert.Equal(t, []uint{4}, ids(b.Completed))
	assert.Equal(t, []uint{5, 8}, ids(b.Unrecognized))

	c := b.Counts()
	assert.Equal(t, 8, c.Total)
	assert.Equal(t, c.Total, c.Pending+c.InProgress+c.Completed+c.Unrecognized)
}

func TestAggregateOverdueOnlyPending(t *testing.T) {
	b := Aggregate(fixtureTasks(), refNow)
	assert.Equal(t, []uint{1}, ids(b.Overdue), "in-progress task 3 is past due but not pending")
	assert.Equal(t, []uint{2}, ids(b.DueSoon))
}

func TestAggregateOverdueExactInstant(t *testing.T) {
	due := refNow
	tasks := []model.Task{{ID: 1, Status: model.StatusPending, DueAt: &due}}
	assert.Empty(t, Aggregate(tasks, refNow).Overdue)
	assert.Equal(t, []uint{1}, ids(Aggregate(tasks, refNow.Add(time.Nanosecond)).Overdue))

	// earlier the same calendar day is already overdue
	morning := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	tasks = []model.Task{{ID: 2, Status: model.StatusPending, DueAt: &morning}}
	assert.Equal(t, []uint{2}, ids(Aggregate(tasks, refNow).Overdue))
}

func TestAggregatePriorityBuckets(t *testing.T) {
	b := Aggregate(fixtureTasks(), refNow)
	assert.Equal(t, []uint{1}, ids(b.High))
	assert.Equal(t, []uint{7}, ids(b.Medium))
	assert.Equal(t, []uint{2}, ids(b.Low))
}

func TestAggregateCategoryGroups(t *testing.T) {
	tasks := fixtureTasks()
	b := Aggregate(tasks, refNow)

	require.Len(t, b.Categories, 3)
	assert.Equal(t, "Work", b.Categories[0].Name)
	assert.Equal(t, "💼", *b.Categories[0].Icon)
	assert.Equal(t, "#336699", *b.Categories[0].Color)
	assert.Equal(t, []uint{1, 4}, ids(b.Categories[0].Tasks))
	assert.Equal(t, Uncategorized, b.Categories[1].Name)
	assert.Nil(t, b.Categories[1].Icon)
	assert.Equal(t, []uint{2, 6, 7, 8}, ids(b.Categories[1].Tasks))
	assert.Equal(t, "Health", b.Categories[2].Name)
	assert.Equal(t, []uint{3, 5}, ids(b.Categories[2].Tasks))

	seen := make(map[uint]int)
	for _, g := range b.Categories {
		for _, task := range g.Tasks {
			seen[task.ID]++
		}
	}
	require.Len(t, seen, len(tasks))
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %d", id)
	}
}

func TestAggregateRoundTrip(t *testing.T) {
	tasks := fixtureTasks()
	b := Aggregate(tasks, refNow)

	var flat []model.Task
	for _, bucket := range [][]model.Task{b.Pending, b.InProgress, b.Completed, b.Unrecognized} {
		flat = append(flat, bucket...)
	}
	assert.ElementsMatch(t, ids(tasks), ids(flat))
}

func TestAggregateEmpty(t *testing.T) {
	b := Aggregate(nil, refNow)
	assert.Equal(t, Counts{}, b.Counts())
	assert.Empty(t, b.Categories)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	tasks := fixtureTasks()
	before := ids(tasks)
	b := Aggregate(tasks, refNow)
	b.Pending[0].Title = "changed"
	assert.Equal(t, before, ids(tasks))
	assert.Empty(t, tasks[0].Title)
}

func TestBucketsOpen(t *testing.T) {
	b := Aggregate(fixtureTasks(), refNow)
	assert.Equal(t, []uint{1, 2, 6, 7, 3}, ids(b.Open()))
}

func TestClassifyEvents(t *testing.T) {
	events := []model.Event{
		{ID: 1, StartAt: refNow.AddDate(0, 0, 3)},
		{ID: 2, StartAt: refNow.Add(-time.Hour)},
		{ID: 3, StartAt: refNow.Add(time.Hour)},
	}
	got := ClassifyEvents(events, refNow)
	require.Len(t, got, 3)
	assert.Equal(t, uint(2), got[0].Event.ID)
	assert.Equal(t, Overdue, got[0].Status)
	assert.Equal(t, DueSoon, got[1].Status)
	assert.Equal(t, Upcoming, got[2].Status)
}
