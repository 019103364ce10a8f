package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnSkip          = "⏭️ Skip"
	btnConfirm       = "✅ Confirm"
	btnCancel        = "↩️ Cancel"
	btnCancelDialog  = "⏪ Stop input"
	menuLabelNewTask = "➕ New task"
	menuLabelTasks   = "📋 Tasks"
	menuLabelToday   = "🗓 Today"
	menuLabelHelp    = "ℹ️ Help"
)

func newKeyboard(oneTime bool, rows ...[]tgbotapi.KeyboardButton) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = oneTime
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return newKeyboard(false,
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return newKeyboard(true, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnConfirm),
		tgbotapi.NewKeyboardButton(btnCancel),
	))
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return newKeyboard(true, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return newKeyboard(true,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return newKeyboard(true,
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("high"),
			tgbotapi.NewKeyboardButton("medium"),
			tgbotapi.NewKeyboardButton("low"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
}

func categoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return newKeyboard(true,
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Study"),
			tgbotapi.NewKeyboardButton("Work"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Shopping"),
			tgbotapi.NewKeyboardButton("Health"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
}

func normalizedInput(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

func isSkipInput(text string) bool {
	value := normalizedInput(text)
	return value == "" || value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isConfirmInput(text string) bool {
	value := normalizedInput(text)
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := normalizedInput(text)
	return value == strings.ToLower(btnCancel) || value == "cancel" || value == "no"
}

func isCancelDialogInput(text string) bool {
	value := normalizedInput(text)
	return value == strings.ToLower(btnCancelDialog) || value == "stop"
}
