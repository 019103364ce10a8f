package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
)

func TestFormatTaskLine(t *testing.T) {
	due := now.Add(-time.Hour)
	desc := "  bring <receipts>  "
	icon := "💼"
	task := model.Task{
		ID:          12,
		Title:       "Taxes & fees",
		Status:      model.StatusPending,
		Priority:    model.PriorityHigh,
		DueAt:       &due,
		Description: &desc,
		Category:    &model.Category{Name: "office work", Icon: &icon},
	}

	got := FormatTaskLine(task, now, FormatHTML)
	assert.Equal(t, "⚠️ #12 Taxes &amp; fees ‼️ <i>(💼 Office Work)</i>\n   ⏰ Overdue (Mar 10)\n   📝 bring &lt;receipts&gt;\n", got)

	plain := FormatTaskLine(task, now, FormatPlain)
	assert.Contains(t, plain, "Taxes & fees")
	assert.Contains(t, plain, "(💼 Office Work)")
}

func TestTaskIcon(t *testing.T) {
	soon := now.Add(time.Hour)
	later := now.AddDate(0, 0, 3)
	assert.Equal(t, iconDue, TaskIcon(model.Task{Status: model.StatusPending, DueAt: &soon}, now))
	assert.Equal(t, iconDefault, TaskIcon(model.Task{Status: model.StatusPending, DueAt: &later}, now))
	assert.Equal(t, iconDefault, TaskIcon(model.Task{Status: model.StatusPending}, now))
	assert.Equal(t, iconInProgress, TaskIcon(model.Task{Status: model.StatusInProgress, DueAt: &soon}, now))
}

func TestFormatForecastLine(t *testing.T) {
	today := civil.DateOf(now)
	f := func(v float64) *float64 { return &v }
	cases := []struct {
		name string
		item model.Supplement
		want string
	}{
		{"no data", model.Supplement{Name: "Iron"}, "⚪ Iron — no data\n"},
		{"empty", model.Supplement{Name: "Zinc", TotalServings: f(0), ServingsPerDay: f(1)}, "🔴 Zinc — out of stock\n"},
		{"one day", model.Supplement{Name: "B12", TotalServings: f(1), ServingsPerDay: f(1)}, "🔴 B12 — 1 day left, runs out 2025-03-11\n"},
		{"good", model.Supplement{Name: "D3", TotalServings: f(30), ServingsPerDay: f(1)}, "🟢 D3 — 30 days left, runs out 2025-04-09\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			forecasts := ForecastAll([]model.Supplement{tc.item}, today)
			require.Len(t, forecasts, 1)
			assert.Equal(t, tc.want, FormatForecastLine(forecasts[0], FormatPlain))
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, engine.Uncategorized, CategoryLabel(nil))
	assert.Equal(t, engine.Uncategorized, CategoryLabel(&model.Category{Name: " "}))
	assert.Equal(t, "🏷️ Health", CategoryLabel(&model.Category{Name: "health"}))
}

func TestDailySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	due := now.Add(2 * time.Hour)
	_, err := env.tasks.CreateTask(ctx, env.user, TaskInput{Title: "Pay rent", DueAt: &due})
	require.NoError(t, err)
	_, err = env.events.CreateEvent(ctx, env.user, EventInput{Title: "Dentist", StartAt: now.Add(30 * time.Minute)})
	require.NoError(t, err)
	f := func(v float64) *float64 { return &v }
	_, err = env.supplements.Set(ctx, env.user, "Magnesium", f(4), f(1))
	require.NoError(t, err)

	text, err := NewReminderService(env.dashboards).DailySummary(ctx, *env.user, now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "📋 <b>Daily report</b>"))
	assert.Contains(t, text, "Mon, Mar 10 2025")
	assert.Contains(t, text, "1 open · 0 overdue · 1 due soon · 0 done")
	assert.Contains(t, text, "⏳ #1 Pay rent\n   ⏰ Due today at 4:30 PM")
	assert.Contains(t, text, "• Mar 10 15:00 (soon) — Dentist")
	assert.Contains(t, text, "Diary streak: <b>0 days</b>")
	assert.Contains(t, text, "🟠 Magnesium — 4 days left")
}

func TestRenderSummaryEmpty(t *testing.T) {
	d := &Dashboard{Now: now, Tasks: engine.Aggregate(nil, now)}
	text := RenderSummary(d, FormatPlain)
	assert.Contains(t, text, "— nothing open")
	assert.Contains(t, text, "— no events")
	assert.NotContains(t, text, "Restock soon")
	assert.NotContains(t, text, "<b>")
}
