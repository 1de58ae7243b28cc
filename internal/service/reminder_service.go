package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
)

const uncategorized = "Uncategorized"

// DueGroup holds the open tasks of one category.
type DueGroup struct {
	Category string
	Tasks    []model.Task
}

// Digest is the set of open tasks due within the reminder horizon.
type Digest struct {
	GeneratedAt time.Time
	Overdue     int
	Upcoming    int
	Groups      []DueGroup
}

func (d Digest) Empty() bool {
	return d.Overdue+d.Upcoming == 0
}

// ReminderService builds human-readable summaries for scheduled notifications.
type ReminderService struct {
	store   repository.Store
	horizon time.Duration
}

func NewReminderService(store repository.Store, horizon time.Duration) *ReminderService {
	if horizon <= 0 {
		horizon = 48 * time.Hour
	}
	return &ReminderService{store: store, horizon: horizon}
}

// Collect gathers incomplete tasks due before now plus the horizon, grouped by category.
func (s *ReminderService) Collect(ctx context.Context, now time.Time) (Digest, error) {
	tasks, err := s.store.Tasks().FindOpenDueBefore(ctx, now.Add(s.horizon))
	if err != nil {
		return Digest{}, err
	}

	digest := Digest{GeneratedAt: now}
	byName := make(map[string]*DueGroup)
	for _, task := range tasks {
		if task.DueDate.Before(now) {
			digest.Overdue++
		} else {
			digest.Upcoming++
		}
		name := uncategorized
		if task.Category != nil && strings.TrimSpace(task.Category.Name) != "" {
			name = strings.TrimSpace(task.Category.Name)
		}
		group, ok := byName[name]
		if !ok {
			group = &DueGroup{Category: name}
			byName[name] = group
		}
		group.Tasks = append(group.Tasks, task)
	}

	for _, group := range byName {
		digest.Groups = append(digest.Groups, *group)
	}
	sort.SliceStable(digest.Groups, func(i, j int) bool {
		a, b := digest.Groups[i].Category, digest.Groups[j].Category
		if a == uncategorized || b == uncategorized {
			return b == uncategorized && a != uncategorized
		}
		return strings.ToLower(a) < strings.ToLower(b)
	})
	return digest, nil
}

// DueSummary renders the digest as Telegram HTML.
func (s *ReminderService) DueSummary(ctx context.Context, now time.Time) (string, error) {
	digest, err := s.Collect(ctx, now)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Due tasks</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("2006-01-02")))

	if digest.Empty() {
		builder.WriteString("— nothing due, well done\n")
		return strings.TrimSpace(builder.String()), nil
	}

	for _, group := range digest.Groups {
		builder.WriteString(fmt.Sprintf("🏷️ <b>%s</b>\n", html.EscapeString(group.Category)))
		for _, task := range group.Tasks {
			builder.WriteString(formatDueTask(task, now))
		}
		builder.WriteByte('\n')
	}
	builder.WriteString(fmt.Sprintf("⚠️ overdue: %d · ⏳ upcoming: %d", digest.Overdue, digest.Upcoming))
	return strings.TrimSpace(builder.String()), nil
}

func formatDueTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	due := task.DueDate.In(now.Location())
	icon := "⏳"
	if now.After(due) {
		icon = "⚠️"
	}
	sb.WriteString(fmt.Sprintf("%s #%d %s", icon, task.ID, html.EscapeString(strings.TrimSpace(task.Title))))

	if now.After(due) {
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s — <b>overdue</b>", due.Format("2006-01-02 15:04")))
	} else {
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s", due.Format("2006-01-02 15:04")))
	}
	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(task.Description))))
	}

	sb.WriteByte('\n')
	return sb.String()
}
