package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"productivity-tracker/internal/model"
)

const (
	cbDonePrefix = "done:"
	cbPagePrefix = "page:"
)

const (
	btnSkip             = "⏭️ Skip"
	btnCancel           = "⏪ Cancel"
	menuLabelNewTask    = "➕ New task"
	menuLabelNewNote    = "🗒 New note"
	menuLabelTasks      = "📋 Tasks"
	menuLabelCategories = "📂 Categories"
	menuLabelReport     = "📊 Report"
	menuLabelHelp       = "ℹ️ Help"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelNewNote),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelTasks),
			tgbotapi.NewKeyboardButton(menuLabelCategories),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelReport),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// categoryKeyboard offers one button per category, two per row, labelled "#id name".
func categoryKeyboard(categories []model.Category) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, c := range categories {
		row = append(row, tgbotapi.NewKeyboardButton(fmt.Sprintf("#%d %s", c.ID, c.Name)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnSkip),
		tgbotapi.NewKeyboardButton(btnCancel),
	))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// pageButtons returns previous/next buttons around a 1-based page.
func pageButtons(page, total int) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if page > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ "+strconv.Itoa(page-1), cbPagePrefix+strconv.Itoa(page-1)))
	}
	if page < total {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(page+1)+" ▶️", cbPagePrefix+strconv.Itoa(page+1)))
	}
	return row
}
