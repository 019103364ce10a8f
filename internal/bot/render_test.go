package bot

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
	"daily-organizer/internal/service"
)

var refNow = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

func dashboardOf(tasks []model.Task, key engine.SortKey) *service.Dashboard {
	return &service.Dashboard{
		Now:     refNow,
		SortKey: key,
		Tasks:   engine.Aggregate(engine.SortTasks(tasks, key), refNow),
	}
}

func TestRenderTaskListGroupsOpenTasks(t *testing.T) {
	icon := "💼"
	work := &model.Category{Name: "work", Icon: &icon}
	late := refNow.Add(-time.Hour)
	soon := refNow.Add(time.Hour)
	tasks := []model.Task{
		{ID: 1, Title: "Plan", Status: model.StatusPending},
		{ID: 2, Title: "Ship <it>", Status: model.StatusPending, DueAt: &soon, Category: work},
		{ID: 3, Title: "Done", Status: model.StatusCompleted, Category: work},
		{ID: 4, Title: "Review", Status: model.StatusInProgress, DueAt: &late, Category: work},
		{ID: 5, Title: "Ghost", Status: "archived"},
	}

	text, buttons := renderTaskList(dashboardOf(tasks, engine.SortByDueDate))

	assert.True(t, strings.HasPrefix(text, "📋 <b>Open tasks</b> · by due date\n0 overdue · 1 due soon · 1 in progress"))
	workAt := strings.Index(text, "<b>💼 Work</b>")
	uncatAt := strings.Index(text, "<b>📁 Uncategorized</b>")
	require.NotEqual(t, -1, workAt)
	require.NotEqual(t, -1, uncatAt)
	assert.Less(t, workAt, uncatAt, "work holds the earliest due task")
	assert.Contains(t, text, "Ship &lt;it&gt;")
	assert.NotContains(t, text, "Done")
	assert.NotContains(t, text, "Ghost")
	assert.NotContains(t, text, "(💼 Work)", "group header replaces the inline category")

	require.Len(t, buttons, 3)
	assert.Equal(t, "complete:4", *buttons[0][0].CallbackData)
	assert.Equal(t, "delete:4", *buttons[0][1].CallbackData)
	assert.Equal(t, "complete:2", *buttons[1][0].CallbackData)
	assert.Equal(t, "complete:1", *buttons[2][0].CallbackData)
}

func TestRenderTaskListEmpty(t *testing.T) {
	text, buttons := renderTaskList(dashboardOf([]model.Task{{ID: 1, Status: model.StatusCompleted}}, engine.SortByPriority))
	assert.Nil(t, buttons)
	assert.Contains(t, text, "no open tasks")
}

func TestRenderEvents(t *testing.T) {
	events := []model.Event{
		{ID: 1, Title: "Standup", StartAt: refNow.Add(-2 * time.Hour)},
		{ID: 2, Title: "Dentist", StartAt: refNow.Add(time.Hour), Category: &model.Category{Name: "health"}},
		{ID: 3, Title: "Trip", StartAt: refNow.AddDate(0, 0, 2)},
	}
	text := renderEvents(engine.ClassifyEvents(events, refNow), refNow)
	assert.Contains(t, text, "<b>Mon, Mar 10</b>\n✔️ 12:30 #1 Standup\n⏳ 15:30 #2 Dentist <i>(🏷️ Health)</i>")
	assert.Contains(t, text, "<b>Wed, Mar 12</b>\n• 14:30 #3 Trip")

	assert.Contains(t, renderEvents(nil, refNow), "No upcoming events")
}

func TestRenderSupplements(t *testing.T) {
	assert.Contains(t, renderSupplements(nil), "No supplements")
	f := func(v float64) *float64 { return &v }
	forecasts := service.ForecastAll([]model.Supplement{
		{Name: "Iron"},
		{Name: "Zinc", TotalServings: f(2), ServingsPerDay: f(1)},
	}, civil.DateOf(refNow))
	text := renderSupplements(forecasts)
	assert.Less(t, strings.Index(text, "Zinc"), strings.Index(text, "Iron"))
}

func TestParseDue(t *testing.T) {
	got, ok := parseDue("2025-03-12", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.March, 12, 23, 59, 0, 0, time.UTC), got)

	got, ok = parseDue("2025-03-12 18:00", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.March, 12, 18, 0, 0, 0, time.UTC), got)

	_, ok = parseDue("tomorrow", time.UTC)
	assert.False(t, ok)
}

func TestParseDueOnClockChangeDays(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	for _, day := range []string{"2025-03-30", "2025-10-26"} {
		got, ok := parseDue(day, berlin)
		require.True(t, ok, day)
		assert.Equal(t, day, got.Format("2006-01-02"), day)
		assert.Equal(t, "23:59", got.Format("15:04"), day)
	}
}

func TestParseEventArgs(t *testing.T) {
	start, title, ok := parseEventArgs("2025-03-12 18:00 Dinner with Sam", time.UTC)
	require.True(t, ok)
	assert.Equal(t, "Dinner with Sam", title)
	assert.Equal(t, 18, start.Hour())

	start, title, ok = parseEventArgs("2025-03-12 Conference", time.UTC)
	require.True(t, ok)
	assert.Equal(t, "Conference", title)
	assert.Equal(t, 0, start.Hour())

	_, _, ok = parseEventArgs("Dinner", time.UTC)
	assert.False(t, ok)
	_, _, ok = parseEventArgs("2025-03-12", time.UTC)
	assert.False(t, ok)
}

func TestParseSupplementArgs(t *testing.T) {
	name, total, perDay, ok := parseSupplementArgs("Vitamin D 60 1,5")
	require.True(t, ok)
	assert.Equal(t, "Vitamin D", name)
	assert.Equal(t, 60.0, *total)
	assert.Equal(t, 1.5, *perDay)

	name, total, perDay, ok = parseSupplementArgs("Iron - 1")
	require.True(t, ok)
	assert.Equal(t, "Iron", name)
	assert.Nil(t, total)
	assert.Equal(t, 1.0, *perDay)

	_, _, _, ok = parseSupplementArgs("Iron 60")
	assert.False(t, ok)
	_, _, _, ok = parseSupplementArgs("Iron lots 1")
	assert.False(t, ok)
}

func TestParseSupplementRemoval(t *testing.T) {
	name, ok := parseSupplementRemoval("Vitamin D remove")
	require.True(t, ok)
	assert.Equal(t, "Vitamin D", name)

	name, ok = parseSupplementRemoval("Iron REMOVE")
	require.True(t, ok)
	assert.Equal(t, "Iron", name)

	for _, raw := range []string{"remove", "Iron 60 1", ""} {
		_, ok := parseSupplementRemoval(raw)
		assert.False(t, ok, raw)
	}
}

func TestParseIDArg(t *testing.T) {
	id, ok := parseIDArg(" #12 ")
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)
	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, ok := parseIDArg(bad)
		assert.False(t, ok, bad)
	}
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "short", shortTitle(" short ", 10))
	assert.Equal(t, "abcd…", shortTitle("abcdefgh", 5))
	assert.Equal(t, "a b", shortTitle("a\nb", 5))
}

func TestInputMatchers(t *testing.T) {
	assert.True(t, isSkipInput(btnSkip))
	assert.True(t, isSkipInput(" SKIP "))
	assert.True(t, isConfirmInput(btnConfirm))
	assert.True(t, isCancelInput("Cancel"))
	assert.True(t, isCancelDialogInput(btnCancelDialog))
	assert.False(t, isCancelDialogInput("cancel"))
}
