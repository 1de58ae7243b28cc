package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"productivity-tracker/internal/service"
)

type dialogStage int

const (
	stageTaskTitle dialogStage = iota
	stageTaskDescription
	stageTaskCategory
	stageTaskDue
	stageNoteTitle
	stageNoteContent
	stageNoteCategory
)

// dialog is the in-progress input of one user. It expires with the session.
type dialog struct {
	stage dialogStage
	task  service.TaskInput
	note  service.NoteInput
}

func (b *Bot) startTaskDialog(ctx context.Context, msg *tgbotapi.Message) error {
	b.sessions.Add(msg.From.ID, &dialog{stage: stageTaskTitle})
	b.log.Debug().Int64("user", msg.From.ID).Msg("task dialog started")
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task.\n<b>Step 1:</b> what should it be called?", cancelKeyboard())
}

func (b *Bot) startNoteDialog(ctx context.Context, msg *tgbotapi.Message) error {
	b.sessions.Add(msg.From.ID, &dialog{stage: stageNoteTitle})
	b.log.Debug().Int64("user", msg.From.ID).Msg("note dialog started")
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New note.\n<b>Step 1:</b> give it a title.", cancelKeyboard())
}

func (b *Bot) cancelDialog(msg *tgbotapi.Message) error {
	if b.sessions.Remove(msg.From.ID) {
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}
	return b.sendText(msg.Chat.ID, "Nothing to cancel.")
}

func (b *Bot) continueDialog(ctx context.Context, msg *tgbotapi.Message, d *dialog) error {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch d.stage {
	case stageTaskTitle:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The title cannot be empty.", cancelKeyboard())
		}
		d.task.Title = text
		d.stage = stageTaskDescription
		return b.sendWithReplyMarkup(chatID, "✏️ Add a short description (or skip).", skipKeyboard())
	case stageTaskDescription:
		if !isSkipInput(text) {
			d.task.Description = text
		}
		d.stage = stageTaskCategory
		return b.askCategory(ctx, chatID)
	case stageTaskCategory:
		id, err := parseCategoryChoice(text)
		if err != nil {
			return b.sendText(chatID, "Pick a category from the keyboard, send its id or skip.")
		}
		d.task.CategoryID = id
		d.stage = stageTaskDue
		return b.sendWithReplyMarkup(chatID, "⏰ When is it due? Use <code>2025-11-30</code> or <code>2025-11-30 18:00</code>.", cancelKeyboard())
	case stageTaskDue:
		due, err := parseDue(text, b.loc)
		if err != nil {
			return b.sendWithReplyMarkup(chatID, "I cannot read that date. Use <code>2025-11-30</code> or <code>2025-11-30 18:00</code>.", cancelKeyboard())
		}
		d.task.DueDate = &due
		completed := false
		d.task.Completed = &completed
		return b.finishTask(ctx, msg, d.task)
	case stageNoteTitle:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The title cannot be empty.", cancelKeyboard())
		}
		d.note.Title = text
		d.stage = stageNoteContent
		return b.sendWithReplyMarkup(chatID, "✏️ Now the note text.", cancelKeyboard())
	case stageNoteContent:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The note text cannot be empty.", cancelKeyboard())
		}
		d.note.Content = &text
		d.stage = stageNoteCategory
		return b.askCategory(ctx, chatID)
	case stageNoteCategory:
		id, err := parseCategoryChoice(text)
		if err != nil {
			return b.sendText(chatID, "Pick a category from the keyboard, send its id or skip.")
		}
		d.note.CategoryID = id
		return b.finishNote(ctx, msg, d.note)
	default:
		b.sessions.Remove(msg.From.ID)
		return b.sendText(chatID, "The dialog was reset. Start again with /newtask or /newnote.")
	}
}

func (b *Bot) askCategory(ctx context.Context, chatID int64) error {
	categories, err := b.svc.Categories.List(ctx)
	if err != nil {
		return b.sendError(chatID, err)
	}
	return b.sendWithReplyMarkup(chatID, "🏷 Choose a category (or skip).", categoryKeyboard(categories))
}

// finishTask ends the dialog whatever the outcome; a failed save is reported and must be restarted.
func (b *Bot) finishTask(ctx context.Context, msg *tgbotapi.Message, input service.TaskInput) error {
	b.sessions.Remove(msg.From.ID)

	task, err := b.svc.Tasks.Create(ctx, input)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	b.log.Info().Uint("task", task.ID).Msg("task created")

	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n\n")
	summary.WriteString(formatTask(*task, b.now().In(b.loc)))
	return b.sendText(msg.Chat.ID, strings.TrimSpace(summary.String()))
}

func (b *Bot) finishNote(ctx context.Context, msg *tgbotapi.Message, input service.NoteInput) error {
	b.sessions.Remove(msg.From.ID)

	note, err := b.svc.Notes.Create(ctx, input)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	b.log.Info().Uint("note", note.ID).Msg("note created")
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ <b>Note saved</b>\n\n%s", strings.TrimSpace(formatNote(*note))))
}
