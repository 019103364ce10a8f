package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
)

// Format selects the markup of rendered summaries.
type Format int

const (
	FormatHTML Format = iota
	FormatPlain
)

const (
	iconDefault    = "🟢"
	iconDue        = "⏳"
	iconOverdue    = "⚠️"
	iconInProgress = "🔧"
	iconCategory   = "🏷️"
)

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	dashboards *DashboardService
}

func NewReminderService(dashboards *DashboardService) *ReminderService {
	return &ReminderService{dashboards: dashboards}
}

// DailySummary renders the user's dashboard at now as Telegram HTML.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	d, err := s.dashboards.Build(ctx, user, now, engine.SortByDueDate)
	if err != nil {
		return "", err
	}
	return RenderSummary(d, FormatHTML), nil
}

type markup struct {
	format Format
}

func (m markup) bold(s string) string {
	if m.format == FormatHTML {
		return "<b>" + s + "</b>"
	}
	return s
}

func (m markup) italic(s string) string {
	if m.format == FormatHTML {
		return "<i>" + s + "</i>"
	}
	return s
}

func (m markup) text(s string) string {
	if m.format == FormatHTML {
		return html.EscapeString(s)
	}
	return s
}

// RenderSummary formats a dashboard: open tasks, agenda, diary streak and
// supplements that need restocking.
func RenderSummary(d *Dashboard, format Format) string {
	m := markup{format: format}
	var builder strings.Builder

	builder.WriteString("📋 " + m.bold("Daily report") + "\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", d.Now.Format("Mon, Jan 2 2006")))
	c := d.Tasks.Counts()
	builder.WriteString(fmt.Sprintf("%d open · %d overdue · %d due soon · %d done\n\n",
		c.Pending+c.InProgress, c.Overdue, c.DueSoon, c.Completed))

	builder.WriteString("🔥 " + m.bold("Open tasks") + "\n")
	open := d.Tasks.Open()
	if len(open) == 0 {
		builder.WriteString("— nothing open\n")
	}
	for _, task := range open {
		builder.WriteString(FormatTaskLine(task, d.Now, format))
	}

	builder.WriteString("\n📅 " + m.bold("Agenda") + "\n")
	if len(d.Events) == 0 {
		builder.WriteString("— no events\n")
	}
	for _, ev := range d.Events {
		builder.WriteString(formatEventLine(ev, d.Now, m))
	}

	builder.WriteString(fmt.Sprintf("\n📓 Diary streak: %s\n", m.bold(pluralDays(d.DiaryStreak))))

	var restock []SupplementForecast
	for _, f := range d.Supplements {
		if f.Tier == engine.TierCritical || f.Tier == engine.TierWarning || f.Tier == engine.TierLow {
			restock = append(restock, f)
		}
	}
	if len(restock) > 0 {
		builder.WriteString("\n💊 " + m.bold("Restock soon") + "\n")
		for _, f := range restock {
			builder.WriteString(FormatForecastLine(f, format))
		}
	}

	return strings.TrimSpace(builder.String())
}

// TaskIcon picks the marker for a task from its status and due date.
func TaskIcon(task model.Task, now time.Time) string {
	if task.Status == model.StatusInProgress {
		return iconInProgress
	}
	switch engine.Classify(task.DueAt, now) {
	case engine.Overdue:
		return iconOverdue
	case engine.DueSoon:
		return iconDue
	default:
		return iconDefault
	}
}

// FormatTaskLine renders one task with its due label and category.
func FormatTaskLine(task model.Task, now time.Time, format Format) string {
	m := markup{format: format}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s #%d %s", TaskIcon(task, now), task.ID, m.text(strings.TrimSpace(task.Title))))
	if task.Priority == model.PriorityHigh {
		sb.WriteString(" ‼️")
	}
	if task.Category != nil {
		if name := strings.TrimSpace(task.Category.Name); name != "" {
			sb.WriteString(" " + m.italic("("+m.text(CategoryLabel(task.Category))+")"))
		}
	}
	if label := engine.Label(task.DueAt, now); label != "" {
		sb.WriteString("\n   ⏰ " + m.text(label))
	}
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		sb.WriteString("\n   📝 " + m.text(strings.TrimSpace(*task.Description)))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func formatEventLine(ev engine.ClassifiedEvent, now time.Time, m markup) string {
	start := ev.Event.StartAt.In(now.Location())
	when := start.Format("Jan 2 15:04")
	switch ev.Status {
	case engine.Overdue:
		when += " (past)"
	case engine.DueSoon:
		when += " (soon)"
	}
	line := fmt.Sprintf("• %s — %s", when, m.text(ev.Event.Title))
	if ev.Event.Category != nil && strings.TrimSpace(ev.Event.Category.Name) != "" {
		line += " " + m.italic("("+m.text(CategoryLabel(ev.Event.Category))+")")
	}
	return line + "\n"
}

// FormatForecastLine renders one supplement projection.
func FormatForecastLine(f SupplementForecast, format Format) string {
	m := markup{format: format}
	name := m.text(strings.TrimSpace(f.Supplement.Name))
	if f.Tier == engine.TierNoData {
		return fmt.Sprintf("%s %s — no data\n", TierIcon(f.Tier), name)
	}
	if *f.DaysLeft <= 0 {
		return fmt.Sprintf("%s %s — out of stock\n", TierIcon(f.Tier), name)
	}
	return fmt.Sprintf("%s %s — %s left, runs out %s\n",
		TierIcon(f.Tier), name, pluralDays(*f.DaysLeft), f.RunOutDate.String())
}

// TierIcon maps an urgency tier to a traffic-light marker.
func TierIcon(t engine.Tier) string {
	switch t {
	case engine.TierCritical:
		return "🔴"
	case engine.TierWarning:
		return "🟠"
	case engine.TierLow:
		return "🟡"
	case engine.TierGood:
		return "🟢"
	default:
		return "⚪"
	}
}

// CategoryLabel is the category name in title case, prefixed by its icon.
func CategoryLabel(c *model.Category) string {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return engine.Uncategorized
	}
	icon := iconCategory
	if c.Icon != nil && strings.TrimSpace(*c.Icon) != "" {
		icon = strings.TrimSpace(*c.Icon)
	}
	// Casers keep state, so each call gets its own.
	return icon + " " + cases.Title(language.Und, cases.NoLower).String(strings.TrimSpace(c.Name))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
