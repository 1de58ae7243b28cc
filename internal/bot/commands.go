package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"productivity-tracker/internal/repository"
	"productivity-tracker/internal/service"
)

const tasksPageSize = 10

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /categories — list categories\n" +
	"• /newcategory &lt;name&gt; — add a category\n" +
	"• /renamecategory &lt;id&gt; &lt;name&gt; — rename a category\n" +
	"• /delcategory &lt;id&gt; — delete an empty category\n" +
	"• /cattasks &lt;id&gt; — tasks of a category, newest first\n" +
	"• /catnotes &lt;id&gt; — notes of a category, newest first\n" +
	"• /tasks [page] — list tasks\n" +
	"• /newtask — add a task step by step\n" +
	"• /done &lt;id&gt; — mark a task completed\n" +
	"• /deltask &lt;id&gt; — delete a task\n" +
	"• /notes — list notes\n" +
	"• /newnote — add a note step by step\n" +
	"• /delnote &lt;id&gt; — delete a note\n" +
	"• /report — due tasks digest\n" +
	"• /cancel — abort the current input"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.sendText(chatID, helpText)
	case "categories":
		return b.handleCategories(ctx, chatID)
	case "newcategory":
		return b.handleNewCategory(ctx, chatID, args)
	case "renamecategory":
		return b.handleRenameCategory(ctx, chatID, args)
	case "delcategory":
		return b.handleDeleteCategory(ctx, chatID, args)
	case "cattasks":
		return b.handleCategoryTasks(ctx, chatID, args)
	case "catnotes":
		return b.handleCategoryNotes(ctx, chatID, args)
	case "tasks":
		page, err := parsePage(args)
		if err != nil {
			return b.sendText(chatID, "Page must be a positive number: /tasks 2")
		}
		return b.sendTaskPage(ctx, chatID, page)
	case "newtask":
		return b.startTaskDialog(ctx, msg)
	case "done":
		return b.handleDone(ctx, chatID, args)
	case "deltask":
		return b.handleDeleteTask(ctx, chatID, args)
	case "notes":
		return b.handleNotes(ctx, chatID)
	case "newnote":
		return b.startNoteDialog(ctx, msg)
	case "delnote":
		return b.handleDeleteNote(ctx, chatID, args)
	case "report":
		return b.handleReport(ctx, chatID)
	case "cancel":
		return b.cancelDialog(msg)
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep your tasks and notes filed by category.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleCategories(ctx context.Context, chatID int64) error {
	categories, err := b.svc.Categories.List(ctx)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if len(categories) == 0 {
		return b.sendText(chatID, "No categories yet. Add one with /newcategory &lt;name&gt;.")
	}
	return b.sendText(chatID, formatCategories(categories))
}

func (b *Bot) handleNewCategory(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return b.sendText(chatID, "Give the category a name: /newcategory Work")
	}
	category, err := b.svc.Categories.Create(ctx, service.CategoryInput{Name: args})
	if err != nil {
		return b.sendError(chatID, err)
	}
	b.log.Info().Uint("category", category.ID).Msg("category created")
	return b.sendText(chatID, fmt.Sprintf("📂 Category %s created.", categoryLabel(category.ID, category.Name)))
}

func (b *Bot) handleRenameCategory(ctx context.Context, chatID int64, args string) error {
	id, name, err := parseRenameArgs(args)
	if err != nil {
		return b.sendText(chatID, "Usage: /renamecategory 3 New name")
	}
	current, err := b.svc.Categories.Get(ctx, id)
	if err != nil {
		return b.sendError(chatID, err)
	}
	category, err := b.svc.Categories.Update(ctx, id, service.CategoryInput{Name: name, UserID: current.UserID})
	if err != nil {
		return b.sendError(chatID, err)
	}
	return b.sendText(chatID, fmt.Sprintf("✏️ Category renamed to %s.", categoryLabel(category.ID, category.Name)))
}

func (b *Bot) handleDeleteCategory(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Usage: /delcategory 3")
	}
	if err := b.svc.Categories.Delete(ctx, id); err != nil {
		return b.sendError(chatID, err)
	}
	b.log.Info().Uint("category", id).Msg("category deleted")
	return b.sendText(chatID, fmt.Sprintf("🗑 Category #%d deleted.", id))
}

func (b *Bot) handleCategoryTasks(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Usage: /cattasks 3")
	}
	tasks, err := b.svc.Categories.ListTasks(ctx, id)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if len(tasks) == 0 {
		return b.sendText(chatID, fmt.Sprintf("Category #%d has no tasks.", id))
	}
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Tasks in #%d</b>\n\n", id))
	now := b.now().In(b.loc)
	for _, task := range tasks {
		builder.WriteString(formatTask(task, now))
	}
	return b.sendText(chatID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleCategoryNotes(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Usage: /catnotes 3")
	}
	notes, err := b.svc.Categories.ListNotes(ctx, id)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if len(notes) == 0 {
		return b.sendText(chatID, fmt.Sprintf("Category #%d has no notes.", id))
	}
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗒 <b>Notes in #%d</b>\n\n", id))
	for _, note := range notes {
		builder.WriteString(formatNote(note))
	}
	return b.sendText(chatID, strings.TrimSpace(builder.String()))
}

// sendTaskPage lists one page of tasks with a completion button per open task.
// page is 1-based.
func (b *Bot) sendTaskPage(ctx context.Context, chatID int64, page int) error {
	result, err := b.svc.Tasks.ListPage(ctx, repository.PageRequest{Page: page - 1, Size: tasksPageSize})
	if err != nil {
		return b.sendError(chatID, err)
	}
	if result.Total == 0 {
		return b.sendText(chatID, "No tasks yet. Add one with /newtask.")
	}
	if len(result.Items) == 0 {
		return b.sendText(chatID, fmt.Sprintf("There are only %d page(s) of tasks.", result.TotalPages()))
	}

	now := b.now().In(b.loc)
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Tasks</b> · page %d/%d\n\n", page, result.TotalPages()))
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, task := range result.Items {
		builder.WriteString(formatTask(task, now))
		if !task.Completed {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", task.ID, shortTitle(task.Title, 24)), fmt.Sprintf("%s%d", cbDonePrefix, task.ID)),
			))
		}
	}
	if nav := pageButtons(page, result.TotalPages()); len(nav) > 0 {
		rows = append(rows, nav)
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ParseMode = tgbotapi.ModeHTML
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) handleDone(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Give the task id: /done 12")
	}
	return b.completeTask(ctx, chatID, id)
}

func (b *Bot) completeTask(ctx context.Context, chatID int64, id uint) error {
	task, err := b.svc.Tasks.Complete(ctx, id)
	if err != nil {
		return b.sendError(chatID, err)
	}
	b.log.Info().Uint("task", task.ID).Msg("task completed")
	return b.sendText(chatID, fmt.Sprintf("✅ Task «%s» completed.", escape(task.Title)))
}

func (b *Bot) handleDeleteTask(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Give the task id: /deltask 12")
	}
	if err := b.svc.Tasks.Delete(ctx, id); err != nil {
		return b.sendError(chatID, err)
	}
	b.log.Info().Uint("task", id).Msg("task deleted")
	return b.sendText(chatID, fmt.Sprintf("🗑 Task #%d deleted.", id))
}

func (b *Bot) handleNotes(ctx context.Context, chatID int64) error {
	notes, err := b.svc.Notes.List(ctx)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if len(notes) == 0 {
		return b.sendText(chatID, "No notes yet. Add one with /newnote.")
	}
	var builder strings.Builder
	builder.WriteString("🗒 <b>Notes</b>\n\n")
	for _, note := range notes {
		builder.WriteString(formatNote(note))
	}
	return b.sendText(chatID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleDeleteNote(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Give the note id: /delnote 4")
	}
	if err := b.svc.Notes.Delete(ctx, id); err != nil {
		return b.sendError(chatID, err)
	}
	b.log.Info().Uint("note", id).Msg("note deleted")
	return b.sendText(chatID, fmt.Sprintf("🗑 Note #%d deleted.", id))
}

func (b *Bot) handleReport(ctx context.Context, chatID int64) error {
	if err := b.SendReport(ctx, chatID); err != nil {
		return b.sendError(chatID, err)
	}
	return nil
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelNewTask:
		return true, b.startTaskDialog(ctx, msg)
	case menuLabelNewNote:
		return true, b.startNoteDialog(ctx, msg)
	case menuLabelTasks:
		return true, b.sendTaskPage(ctx, msg.Chat.ID, 1)
	case menuLabelCategories:
		return true, b.handleCategories(ctx, msg.Chat.ID)
	case menuLabelReport:
		return true, b.handleReport(ctx, msg.Chat.ID)
	case menuLabelHelp:
		return true, b.sendText(msg.Chat.ID, helpText)
	default:
		return false, nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn().Err(err).Msg("callback ack")
	}

	chatID := cb.Message.Chat.ID
	switch {
	case strings.HasPrefix(cb.Data, cbDonePrefix):
		id, err := parseID(strings.TrimPrefix(cb.Data, cbDonePrefix))
		if err != nil {
			return nil
		}
		return b.completeTask(ctx, chatID, id)
	case strings.HasPrefix(cb.Data, cbPagePrefix):
		page, err := parsePage(strings.TrimPrefix(cb.Data, cbPagePrefix))
		if err != nil {
			return nil
		}
		return b.sendTaskPage(ctx, chatID, page)
	default:
		return nil
	}
}
