package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/service"
)

const (
	iconOpen    = "🟢"
	iconDue     = "⏳"
	iconOverdue = "⚠️"
	iconDone    = "✔️"
)

var dueLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

func escape(s string) string {
	return html.EscapeString(s)
}

func parseID(args string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(value), nil
}

// parseRenameArgs splits "<id> <name>".
func parseRenameArgs(args string) (uint, string, error) {
	fields := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(fields) != 2 {
		return 0, "", errors.New("expected an id and a name")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return 0, "", err
	}
	name := strings.TrimSpace(fields[1])
	if name == "" {
		return 0, "", errors.New("expected a name")
	}
	return id, name, nil
}

// parsePage reads an optional 1-based page number.
func parsePage(args string) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(args)
	if err != nil || page < 1 {
		return 0, errors.New("page must be a positive number")
	}
	return page, nil
}

// parseDue reads a date or date-time in loc. A bare date means the end of that day.
func parseDue(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, text, loc)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(23*time.Hour + 59*time.Minute)
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", text)
}

// parseCategoryChoice accepts "#12 Name", "12" or a skip. A nil id means no category.
func parseCategoryChoice(text string) (*uint, error) {
	if isSkipInput(text) {
		return nil, nil
	}
	raw := strings.TrimPrefix(strings.TrimSpace(text), "#")
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		raw = raw[:i]
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == "skip" || value == strings.ToLower(btnSkip)
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "cancel" || value == strings.ToLower(btnCancel)
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	return strings.TrimSpace(string(runes[:maxLen-1])) + "…"
}

func categoryLabel(id uint, name string) string {
	return fmt.Sprintf("<b>#%d</b> %s", id, escape(strings.TrimSpace(name)))
}

func formatCategories(categories []model.Category) string {
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for _, c := range categories {
		builder.WriteString("• " + categoryLabel(c.ID, c.Name) + "\n")
	}
	return strings.TrimSpace(builder.String())
}

func formatTask(task model.Task, now time.Time) string {
	var b strings.Builder

	due := task.DueDate.In(now.Location())
	icon := iconOpen
	switch {
	case task.Completed:
		icon = iconDone
	case now.After(due):
		icon = iconOverdue
	case due.Sub(now) <= 48*time.Hour:
		icon = iconDue
	}
	b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s\n", icon, task.ID, escape(strings.TrimSpace(task.Title))))

	if !task.Completed && now.After(due) {
		b.WriteString(fmt.Sprintf("   ⏰ Due: %s · <b>overdue</b>\n", due.Format("2006-01-02 15:04")))
	} else {
		b.WriteString(fmt.Sprintf("   ⏰ Due: %s\n", due.Format("2006-01-02 15:04")))
	}
	if task.Category != nil {
		b.WriteString(fmt.Sprintf("   🏷️ %s\n", escape(task.Category.Name)))
	}
	if task.Description != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(task.Description)))
	}
	b.WriteByte('\n')
	return b.String()
}

func formatNote(note model.Note) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗒 <b>#%d</b> %s\n", note.ID, escape(strings.TrimSpace(note.Title))))
	if note.Category != nil {
		b.WriteString(fmt.Sprintf("   🏷️ %s\n", escape(note.Category.Name)))
	}
	b.WriteString(fmt.Sprintf("   %s\n\n", escape(shortTitle(note.Content, 200))))
	return b.String()
}

// userMessage renders a manager error. known is false for errors the user cannot act on.
func userMessage(err error) (text string, known bool) {
	var inUse *service.CategoryInUseError
	switch {
	case errors.As(err, &inUse):
		return fmt.Sprintf("🚫 Category #%d still has linked %s. Move or delete them first.", inUse.ID, linkedKinds(inUse)), true
	case errors.Is(err, service.ErrNotFound):
		return "🔍 " + escape(capitalize(err.Error())) + ".", true
	case errors.Is(err, service.ErrConflict):
		return "⚠️ " + escape(capitalize(err.Error())) + ".", true
	case errors.Is(err, service.ErrValidation):
		return "✏️ Invalid input: " + escape(err.Error()) + ".", true
	default:
		return "Something went wrong. Please try again later.", false
	}
}

func linkedKinds(err *service.CategoryInUseError) string {
	switch {
	case err.Tasks && err.Notes:
		return "tasks and notes"
	case err.Tasks:
		return "tasks"
	case err.Notes:
		return "notes"
	default:
		return "tasks or notes"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
