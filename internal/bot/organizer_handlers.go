package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
	"daily-organizer/internal/service"
)

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.svc.Reminders.DailySummary(ctx, *user, b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the report: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleReportsToggle(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(msg.CommandArguments())) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		state := "off"
		if user.ReportsEnabled {
			state = "on"
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Scheduled reports are %s. Use /reports on or /reports off.", state))
	}
	if err := b.svc.Users.SetReportsEnabled(ctx, user, enabled); err != nil {
		return err
	}
	if enabled {
		return b.sendText(msg.Chat.ID, "🔔 Scheduled reports switched on.")
	}
	return b.sendText(msg.Chat.ID, "🔕 Scheduled reports switched off.")
}

func (b *Bot) handleTimezone(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Your timezone is %s. Change it with /timezone Europe/Berlin", escape(user.Location(b.loc).String())))
	}
	if _, err := time.LoadLocation(name); err != nil {
		return b.sendText(msg.Chat.ID, "Unknown timezone. Use an IANA name such as <code>Europe/Berlin</code>.")
	}
	if err := b.svc.Users.SetTimezone(ctx, user, name); err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🌍 Timezone set to %s.", escape(name)))
}

func (b *Bot) handleCategories(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	categories, err := b.svc.Categories.List(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load categories: %s", escape(err.Error())))
	}
	if len(categories) == 0 {
		return b.sendText(msg.Chat.ID, "No categories yet. They are created with your tasks.")
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for i := range categories {
		line := "• " + escape(service.CategoryLabel(&categories[i]))
		if c := categories[i].Color; c != nil {
			line += " <code>" + escape(*c) + "</code>"
		}
		builder.WriteString(line + "\n")
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleCategoryStyle(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 0 {
		return b.sendText(msg.Chat.ID, "Usage: /category Work 💼 #336699")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	var icon, color string
	if len(fields) > 1 {
		icon = fields[1]
	}
	if len(fields) > 2 {
		color = fields[2]
	}
	category, err := b.svc.Categories.SetStyle(ctx, user, fields[0], icon, color)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not update the category: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, "Updated "+escape(service.CategoryLabel(category)))
}

func (b *Bot) handleEvents(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	now := b.userNow(user)
	events, err := b.svc.Events.Agenda(ctx, user, now)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load events: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, renderEvents(engine.ClassifyEvents(events, now), now))
}

func (b *Bot) handleNewEvent(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	start, title, ok := parseEventArgs(msg.CommandArguments(), b.userNow(user).Location())
	if !ok {
		return b.sendText(msg.Chat.ID, "Usage: /newevent 2025-11-30 18:00 Dinner with Sam")
	}
	event, err := b.svc.Events.CreateEvent(ctx, user, service.EventInput{Title: title, StartAt: start})
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save the event: %s", escape(err.Error())))
	}
	b.log.Infow("event created", "event_id", event.ID, "user_id", user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📅 «%s» on %s.", escape(event.Title), start.Format("Mon, Jan 2 15:04")))
}

func (b *Bot) handleDeleteEvent(ctx context.Context, msg *tgbotapi.Message) error {
	eventID, ok := parseIDArg(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Usage: /deleteevent 12 (ids are shown in /events)")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	if err := b.svc.Events.DeleteEvent(ctx, user, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Event not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not delete the event: %s", escape(err.Error())))
	}
	b.log.Infow("event deleted", "event_id", eventID, "user_id", user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Event #%d deleted.", eventID))
}

func (b *Bot) handleDiary(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	today := civil.DateOf(b.userNow(user))
	if strings.TrimSpace(msg.CommandArguments()) == "" {
		return b.showDiaryEntry(ctx, msg.Chat.ID, user, today)
	}
	if _, err := b.svc.Diary.Write(ctx, user, today, msg.CommandArguments()); err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			return b.sendText(msg.Chat.ID, "Usage: /diary Today I learned…")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save the entry: %s", escape(err.Error())))
	}
	streak, err := b.svc.Diary.Streak(ctx, user, today)
	if err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📓 Saved for %s. Streak: <b>%d</b>.", today.String(), streak))
}

func (b *Bot) showDiaryEntry(ctx context.Context, chatID int64, user *model.User, day civil.Date) error {
	entry, err := b.svc.Diary.Entry(ctx, user, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b.sendText(chatID, "📓 Nothing written today. Usage: /diary Today I learned…")
	}
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load the diary: %s", escape(err.Error())))
	}
	return b.sendText(chatID, fmt.Sprintf("📓 <b>%s</b>\n%s", day.String(), escape(entry.Body)))
}

func (b *Bot) handleStreak(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	streak, err := b.svc.Diary.Streak(ctx, user, civil.DateOf(b.userNow(user)))
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load the diary: %s", escape(err.Error())))
	}
	if streak == 0 {
		return b.sendText(msg.Chat.ID, "📓 No entry today yet. Write one with /diary.")
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🔥 Diary streak: <b>%d</b> day(s) in a row.", streak))
}

func (b *Bot) handleSupplements(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	forecasts, err := b.svc.Supplements.Forecasts(ctx, user, civil.DateOf(b.userNow(user)))
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load supplements: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, renderSupplements(forecasts))
}

func (b *Bot) handleSupplement(ctx context.Context, msg *tgbotapi.Message) error {
	if name, ok := parseSupplementRemoval(msg.CommandArguments()); ok {
		return b.removeSupplement(ctx, msg, name)
	}
	name, total, perDay, ok := parseSupplementArgs(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Usage: /supplement Vitamin D 60 1 (use - for an unknown number)")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	item, err := b.svc.Supplements.Set(ctx, user, name, total, perDay)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save: %s", escape(err.Error())))
	}
	forecast := service.ForecastAll([]model.Supplement{*item}, civil.DateOf(b.userNow(user)))[0]
	return b.sendText(msg.Chat.ID, "💊 Saved.\n"+service.FormatForecastLine(forecast, service.FormatHTML))
}

func (b *Bot) removeSupplement(ctx context.Context, msg *tgbotapi.Message, name string) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	if err := b.svc.Supplements.Remove(ctx, user, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, fmt.Sprintf("No supplement called %s.", escape(name)))
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not remove: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("💊 %s is no longer tracked.", escape(name)))
}

// parseDue reads a due date typed by the user. A bare date means the end of
// that day.
func parseDue(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if day, err := civil.ParseDate(raw); err == nil {
		if loc == nil {
			loc = time.Local
		}
		return time.Date(day.Year, day.Month, day.Day, 23, 59, 0, 0, loc), true
	}
	return engine.ParseTimestamp(raw, loc)
}

// parseEventArgs splits "2025-11-30 18:00 Title" or "2025-11-30 Title".
func parseEventArgs(raw string, loc *time.Location) (time.Time, string, bool) {
	fields := strings.Fields(raw)
	if len(fields) >= 3 {
		if t, ok := engine.ParseTimestamp(fields[0]+" "+fields[1], loc); ok {
			return t, strings.Join(fields[2:], " "), true
		}
	}
	if len(fields) >= 2 {
		if t, ok := engine.ParseTimestamp(fields[0], loc); ok {
			return t, strings.Join(fields[1:], " "), true
		}
	}
	return time.Time{}, "", false
}

// parseSupplementArgs splits "<name...> <total> <per day>". Either number may
// be "-" for unknown.
func parseSupplementArgs(raw string) (name string, total, perDay *float64, ok bool) {
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return "", nil, nil, false
	}
	n := len(fields)
	total, okTotal := parseAmount(fields[n-2])
	perDay, okRate := parseAmount(fields[n-1])
	if !okTotal || !okRate {
		return "", nil, nil, false
	}
	return strings.Join(fields[:n-2], " "), total, perDay, true
}

// parseSupplementRemoval matches "<name...> remove".
func parseSupplementRemoval(raw string) (string, bool) {
	fields := strings.Fields(raw)
	if len(fields) < 2 || !strings.EqualFold(fields[len(fields)-1], "remove") {
		return "", false
	}
	return strings.Join(fields[:len(fields)-1], " "), true
}

func parseAmount(raw string) (*float64, bool) {
	if raw == "-" {
		return nil, true
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}
