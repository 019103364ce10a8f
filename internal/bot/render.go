package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
	"daily-organizer/internal/service"
)

var sortLabels = map[engine.SortKey]string{
	engine.SortByDueDate:   "due date",
	engine.SortByPriority:  "priority",
	engine.SortByCreatedAt: "newest first",
}

// renderTaskList shows open tasks grouped by category with one button row
// per task.
func renderTaskList(d *service.Dashboard) (string, [][]tgbotapi.InlineKeyboardButton) {
	open := engine.SortTasks(d.Tasks.Open(), d.SortKey)
	if len(open) == 0 {
		return "You have no open tasks. Add one with /newtask.", nil
	}

	c := d.Tasks.Counts()
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Open tasks</b> · by %s\n", sortLabels[d.SortKey]))
	builder.WriteString(fmt.Sprintf("%d overdue · %d due soon · %d in progress\n\n", c.Overdue, c.DueSoon, c.InProgress))

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, group := range engine.Aggregate(open, d.Now).Categories {
		builder.WriteString("<b>" + escape(groupLabel(group)) + "</b>\n")
		for _, task := range group.Tasks {
			builder.WriteString(service.FormatTaskLine(taskWithoutCategory(task), d.Now, service.FormatHTML))
			buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", task.ID, shortTitle(task.Title, 24)), fmt.Sprintf("%s%d", cbCompletePrefix, task.ID)),
				tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, task.ID)),
			))
		}
		builder.WriteByte('\n')
	}
	return strings.TrimSpace(builder.String()), buttons
}

// the group header already names the category
func taskWithoutCategory(task model.Task) model.Task {
	task.Category = nil
	return task
}

func groupLabel(g engine.CategoryGroup) string {
	if g.Name == engine.Uncategorized {
		return "📁 " + engine.Uncategorized
	}
	return service.CategoryLabel(&model.Category{Name: g.Name, Icon: g.Icon, Color: g.Color})
}

func renderEvents(events []engine.ClassifiedEvent, now time.Time) string {
	if len(events) == 0 {
		return "📅 No upcoming events. Add one with /newevent."
	}
	var builder strings.Builder
	builder.WriteString("📅 <b>Agenda</b>\n")
	var lastDay string
	for _, ev := range events {
		start := ev.Event.StartAt.In(now.Location())
		day := start.Format("Mon, Jan 2")
		if day != lastDay {
			builder.WriteString("\n<b>" + day + "</b>\n")
			lastDay = day
		}
		marker := "•"
		switch ev.Status {
		case engine.Overdue:
			marker = "✔️"
		case engine.DueSoon:
			marker = "⏳"
		}
		builder.WriteString(fmt.Sprintf("%s %s #%d %s", marker, start.Format("15:04"), ev.Event.ID, escape(ev.Event.Title)))
		if ev.Event.Category != nil && strings.TrimSpace(ev.Event.Category.Name) != "" {
			builder.WriteString(" <i>(" + escape(service.CategoryLabel(ev.Event.Category)) + ")</i>")
		}
		builder.WriteByte('\n')
	}
	return strings.TrimSpace(builder.String())
}

func renderSupplements(forecasts []service.SupplementForecast) string {
	if len(forecasts) == 0 {
		return "💊 No supplements tracked. Add one with /supplement."
	}
	var builder strings.Builder
	builder.WriteString("💊 <b>Supplements</b>\n")
	for _, f := range forecasts {
		builder.WriteString(service.FormatForecastLine(f, service.FormatHTML))
	}
	return strings.TrimSpace(builder.String())
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
