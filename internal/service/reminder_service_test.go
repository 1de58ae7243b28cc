package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderService_Collect(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	work := f.category(t, "Work")
	home := f.category(t, "Home")

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	mk := func(title string, due time.Time, categoryID *uint, completed bool) {
		_, err := f.tasks.Create(ctx, TaskInput{Title: title, DueDate: &due, Completed: ptr(completed), CategoryID: categoryID})
		require.NoError(t, err)
	}
	mk("overdue report", now.Add(-2*time.Hour), &work.ID, false)
	mk("groceries", now.Add(3*time.Hour), &home.ID, false)
	mk("loose", now.Add(time.Hour), nil, false)
	mk("finished", now.Add(-time.Hour), &work.ID, true)
	mk("next month", now.AddDate(0, 1, 0), &work.ID, false)

	reminders := NewReminderService(f.store, 24*time.Hour)
	digest, err := reminders.Collect(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 1, digest.Overdue)
	assert.Equal(t, 2, digest.Upcoming)
	require.Len(t, digest.Groups, 3)
	assert.Equal(t, "Home", digest.Groups[0].Category)
	assert.Equal(t, "Work", digest.Groups[1].Category)
	assert.Equal(t, uncategorized, digest.Groups[2].Category)
}

func TestReminderService_DueSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	reminders := NewReminderService(f.store, 0)
	text, err := reminders.DueSummary(ctx, now)
	require.NoError(t, err)
	assert.Contains(t, text, "nothing due")

	due := now.Add(-time.Hour)
	_, err = f.tasks.Create(ctx, TaskInput{Title: "<b>pay</b>", DueDate: &due, Completed: ptr(false)})
	require.NoError(t, err)

	text, err = reminders.DueSummary(ctx, now)
	require.NoError(t, err)
	assert.Contains(t, text, "&lt;b&gt;pay&lt;/b&gt;")
	assert.Contains(t, text, "overdue: 1")
}
