package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"daily-organizer/internal/model"
	"daily-organizer/internal/repository"
	"daily-organizer/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stageCategory
	stagePriority
	stageDue
)

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

type confirmationAction int

const (
	actionComplete confirmationAction = iota
	actionDelete
)

type confirmationRequest struct {
	taskID uint
	action confirmationAction
}

// Services bundles what the bot needs from the service layer.
type Services struct {
	Users       *repository.UserRepository
	Categories  *service.CategoryService
	Tasks       *service.TaskService
	Events      *service.EventService
	Diary       *service.DiaryService
	Supplements *service.SupplementService
	Dashboards  *service.DashboardService
	Reminders   *service.ReminderService
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api *tgbotapi.BotAPI
	svc Services
	log *zap.SugaredLogger
	loc *time.Location
	// now is the only clock the bot reads; every handler samples it once.
	now func() time.Time

	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	mu            sync.Mutex
}

func New(token string, svc Services, loc *time.Location, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Infow("bot authorized", "account", api.Self.UserName)

	if loc == nil {
		loc = time.Local
	}
	return &Bot{
		api:           api,
		svc:           svc,
		log:           log,
		loc:           loc,
		now:           time.Now,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Errorw("handle callback", "error", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Errorw("handle message", "error", err, "from", update.Message.From.ID)
			}
		}
	}

	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled. Start again whenever you like.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		b.log.Infow("command", "from", msg.From.ID, "command", msg.Command(), "args", msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, pending)
	}

	if state := b.getConversation(msg.From.ID); state != nil {
		b.log.Debugw("conversation step", "stage", state.stage, "from", msg.From.ID)
		return b.handleConversation(ctx, msg, state)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Send /newtask to add a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "report":
		return b.handleReport(ctx, msg)
	case "reports":
		return b.handleReportsToggle(ctx, msg)
	case "timezone":
		return b.handleTimezone(ctx, msg)
	case "newtask":
		return b.startNewTaskConversation(ctx, msg)
	case "tasks":
		return b.handleListTasks(ctx, msg)
	case "progress":
		return b.handleProgress(ctx, msg)
	case "complete":
		return b.handleComplete(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "categories":
		return b.handleCategories(ctx, msg)
	case "category":
		return b.handleCategoryStyle(ctx, msg)
	case "events":
		return b.handleEvents(ctx, msg)
	case "newevent":
		return b.handleNewEvent(ctx, msg)
	case "deleteevent":
		return b.handleDeleteEvent(ctx, msg)
	case "diary":
		return b.handleDiary(ctx, msg)
	case "streak":
		return b.handleStreak(ctx, msg)
	case "supplements":
		return b.handleSupplements(ctx, msg)
	case "supplement":
		return b.handleSupplement(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /newtask — add a task step by step\n" +
	"• /tasks [due|priority|created] — open tasks by category\n" +
	"• /progress &lt;id&gt; — mark a task as in progress\n" +
	"• /complete &lt;id&gt; — mark a task as done\n" +
	"• /delete &lt;id&gt; — delete a task\n" +
	"• /categories — list categories\n" +
	"• /category &lt;name&gt; [icon] [color] — style a category\n" +
	"• /events — upcoming events\n" +
	"• /newevent &lt;YYYY-MM-DD HH:MM&gt; &lt;title&gt; — add an event\n" +
	"• /deleteevent &lt;id&gt; — delete an event\n" +
	"• /diary [text] — write or show today's diary entry\n" +
	"• /streak — diary streak\n" +
	"• /supplements — supplement stock forecast\n" +
	"• /supplement &lt;name&gt; &lt;servings&gt; &lt;per day&gt; — update stock (use - for unknown)\n" +
	"• /supplement &lt;name&gt; remove — stop tracking a supplement\n" +
	"• /report — send the daily report now\n" +
	"• /reports on|off — scheduled reports\n" +
	"• /timezone &lt;Area/City&gt; — your timezone\n" +
	"• /cancel — cancel current input"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "friend"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep your tasks, events, diary and supplements in one place.</b>\n\n%s",
		escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

// SendDailyReports sends a summary to every user with reports enabled.
// All summaries share one reference time.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.svc.Users.ListReportRecipients(ctx)
	if err != nil {
		return err
	}
	now := b.now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.svc.Reminders.DailySummary(ctx, user, now)
		if err != nil {
			b.log.Errorw("build summary", "telegram_id", user.TelegramID, "error", err)
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			b.log.Errorw("send summary", "telegram_id", user.TelegramID, "error", err)
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.svc.Users.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

// userNow is the current instant in the user's timezone.
func (b *Bot) userNow(user *model.User) time.Time {
	return b.now().In(user.Location(b.loc))
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	if err := b.sendWithReplyMarkup(chatID, text, tgbotapi.NewRemoveKeyboard(true)); err != nil {
		return err
	}
	return b.sendWithReplyMarkup(chatID, "🔹 Main menu", mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func escape(s string) string {
	return html.EscapeString(s)
}
