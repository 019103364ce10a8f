package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
	"daily-organizer/internal/service"
)

const (
	cbCompletePrefix = "complete:"
	cbDeletePrefix   = "delete:"
)

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.log.Infow("start new task conversation", "from", msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task.\n<b>Step 1:</b> what should it be called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The title cannot be empty.", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ Add a short description (or press «Skip»).", skipKeyboard())
	case stageDescription:
		if !isSkipInput(text) {
			state.input.Description = text
		}
		state.stage = stageCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 Pick a category or type your own (or «Skip»).", categoryKeyboard())
	case stageCategory:
		if !isSkipInput(text) {
			state.input.Category = text
		}
		state.stage = stagePriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "❗ Priority?", priorityKeyboard())
	case stagePriority:
		if !isSkipInput(text) {
			priority, err := service.ParsePriority(text)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Choose high, medium, low or «Skip».", priorityKeyboard())
			}
			state.input.Priority = priority
		}
		state.stage = stageDue
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ Due date as <code>2025-11-30</code> or <code>2025-11-30 18:00</code> (or «Skip»).", skipKeyboard())
	case stageDue:
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return err
		}
		if !isSkipInput(text) {
			due, ok := parseDue(text, b.userNow(user).Location())
			if !ok {
				return b.sendWithReplyMarkup(msg.Chat.ID, "I cannot read that date. Use <code>2025-11-30</code> or «Skip».", skipKeyboard())
			}
			state.input.DueAt = &due
		}
		b.clearConversation(msg.From.ID)
		return b.finishTaskCreation(ctx, user, state.input, msg.Chat.ID)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Dialog reset. Try /newtask again.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, user *model.User, input service.TaskInput, chatID int64) error {
	task, err := b.svc.Tasks.CreateTask(ctx, user, input)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not save the task: %s", escape(err.Error())))
	}

	b.log.Infow("task created", "task_id", task.ID, "user_id", user.ID, "priority", task.Priority)

	now := b.userNow(user)
	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(service.FormatTaskLine(*task, now, service.FormatHTML))

	if err := b.sendWithReplyMarkup(chatID, strings.TrimSpace(summary.String()), tgbotapi.NewRemoveKeyboard(true)); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, user, engine.SortByDueDate)
}

func (b *Bot) handleListTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	key := engine.SortByDueDate
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		parsed, ok := engine.ParseSortKey(args)
		if !ok {
			return b.sendText(msg.Chat.ID, "Sort by <code>due</code>, <code>priority</code> or <code>created</code>.")
		}
		key = parsed
	}
	return b.sendTaskList(ctx, msg.Chat.ID, user, key)
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64, user *model.User, key engine.SortKey) error {
	d, err := b.svc.Dashboards.Build(ctx, *user, b.now(), key)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load tasks: %s", escape(err.Error())))
	}
	text, buttons := renderTaskList(d)
	if len(buttons) == 0 {
		return b.sendText(chatID, text)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, ok := parseIDArg(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Give the task ID: /progress 12")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	task, err := b.svc.Tasks.StartTask(ctx, user, taskID, b.now())
	if err != nil {
		return b.replyTaskError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🔧 «%s» is in progress.", escape(task.Title)))
}

func (b *Bot) handleComplete(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, ok := parseIDArg(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Give the task ID: /complete 12")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	task, err := b.svc.Tasks.CompleteTask(ctx, user, taskID, b.now())
	if err != nil {
		return b.replyTaskError(msg.Chat.ID, err)
	}
	b.log.Infow("task completed", "task_id", task.ID, "user_id", user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ «%s» done.", escape(task.Title)))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, ok := parseIDArg(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Give the task ID: /delete 12")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	task, err := b.svc.Tasks.GetTask(ctx, user, taskID)
	if err != nil {
		return b.replyTaskError(msg.Chat.ID, err)
	}
	if err := b.svc.Tasks.DeleteTask(ctx, user, taskID); err != nil {
		return b.replyTaskError(msg.Chat.ID, err)
	}
	b.log.Infow("task deleted", "task_id", taskID, "user_id", user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 «%s» deleted.", escape(task.Title)))
}

func (b *Bot) replyTaskError(chatID int64, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b.sendText(chatID, "Task not found.")
	}
	return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warnw("callback ack", "error", err)
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		taskID, ok := parseIDArg(strings.TrimPrefix(data, cbCompletePrefix))
		if !ok {
			return nil
		}
		return b.askConfirmation(ctx, cb.Message.Chat.ID, cb.From, confirmationRequest{taskID: taskID, action: actionComplete})
	case strings.HasPrefix(data, cbDeletePrefix):
		taskID, ok := parseIDArg(strings.TrimPrefix(data, cbDeletePrefix))
		if !ok {
			return nil
		}
		return b.askConfirmation(ctx, cb.Message.Chat.ID, cb.From, confirmationRequest{taskID: taskID, action: actionDelete})
	default:
		return nil
	}
}

func (b *Bot) askConfirmation(ctx context.Context, chatID int64, from *tgbotapi.User, req confirmationRequest) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	task, err := b.svc.Tasks.GetTask(ctx, user, req.taskID)
	if err != nil {
		return b.replyTaskError(chatID, err)
	}

	var text string
	switch req.action {
	case actionComplete:
		if task.Status == model.StatusCompleted {
			return b.sendText(chatID, "That task is already done.")
		}
		text = fmt.Sprintf("Mark «%s» (#%d) as done?", escape(task.Title), task.ID)
	case actionDelete:
		text = fmt.Sprintf("Delete «%s» (#%d)?", escape(task.Title), task.ID)
	}
	b.setConfirmation(from.ID, req)
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.applyConfirmation(ctx, msg.Chat.ID, msg.From, req)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "🔹 Main menu")
	default:
		prompt := "Confirm or cancel completing the task."
		if req.action == actionDelete {
			prompt = "Confirm or cancel deleting the task."
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, prompt, confirmKeyboard())
	}
}

func (b *Bot) applyConfirmation(ctx context.Context, chatID int64, from *tgbotapi.User, req confirmationRequest) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	var info string
	switch req.action {
	case actionDelete:
		task, err := b.svc.Tasks.GetTask(ctx, user, req.taskID)
		if err == nil {
			err = b.svc.Tasks.DeleteTask(ctx, user, req.taskID)
		}
		if err != nil {
			return b.sendTaskError(chatID, err)
		}
		b.log.Infow("task deleted", "task_id", task.ID, "user_id", user.ID)
		info = fmt.Sprintf("🗑 «%s» deleted.", escape(task.Title))
	default:
		task, err := b.svc.Tasks.CompleteTask(ctx, user, req.taskID, b.now())
		if err != nil {
			return b.sendTaskError(chatID, err)
		}
		b.log.Infow("task completed", "task_id", task.ID, "user_id", user.ID)
		info = fmt.Sprintf("✅ «%s» done.", escape(task.Title))
	}

	if err := b.sendTextWithRemove(chatID, info); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, user, engine.SortByDueDate)
}

func (b *Bot) sendTaskError(chatID int64, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b.sendTextWithRemove(chatID, "Task not found or already deleted.")
	}
	return b.sendTextWithRemove(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startNewTaskConversation(ctx, msg)
	case strings.ToLower(menuLabelTasks):
		return true, b.handleListTasks(ctx, msg)
	case strings.ToLower(menuLabelToday):
		return true, b.handleReport(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.sendText(msg.Chat.ID, helpText)
	default:
		return false, nil
	}
}

func parseIDArg(raw string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#")), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}
