package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productivity-tracker/internal/repository"
)

func TestTaskService_CreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	work := f.category(t, "Work")

	input := taskInput("Report", &work.ID)
	input.Description = "quarterly numbers"

	created, err := f.tasks.Create(ctx, input)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, f.clock.Equal(created.CreatedAt))
	require.NotNil(t, created.Category)
	assert.Equal(t, "Work", created.Category.Name)

	found, err := f.tasks.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Report", found.Title)
	assert.Equal(t, "quarterly numbers", found.Description)
	assert.False(t, found.Completed)
	assert.True(t, input.DueDate.Equal(found.DueDate))
	assert.Equal(t, work.ID, *found.CategoryID)
}

func TestTaskService_CreateUncategorized(t *testing.T) {
	f := newFixture(t)

	task, err := f.tasks.Create(context.Background(), taskInput("Loose end", nil))
	require.NoError(t, err)
	assert.Nil(t, task.CategoryID)
	assert.Nil(t, task.Category)
}

func TestTaskService_CreateValidation(t *testing.T) {
	due := time.Now()
	tests := []struct {
		name  string
		input TaskInput
		field string
	}{
		{"missing title", TaskInput{Completed: ptr(false), DueDate: &due}, "title"},
		{"blank title", TaskInput{Title: "  ", Completed: ptr(false), DueDate: &due}, "title"},
		{"missing completed", TaskInput{Title: "x", DueDate: &due}, "completed"},
		{"missing due date", TaskInput{Title: "x", Completed: ptr(true)}, "dueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			_, err := f.tasks.Create(ctx, tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			all, err := f.tasks.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestTaskService_CreateWithUnknownCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.tasks.Create(ctx, taskInput("Report", ptr(uint(99))))
	require.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "category 99 not found")

	all, err := f.tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	work := f.category(t, "Work")
	home := f.category(t, "Home")
	task := f.task(t, "Report", &work.ID)

	input := taskInput("Final report", &home.ID)
	input.Completed = ptr(true)
	updated, err := f.tasks.Update(ctx, task.ID, input)
	require.NoError(t, err)

	assert.Equal(t, task.ID, updated.ID)
	assert.True(t, task.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, "Final report", updated.Title)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "Home", updated.Category.Name)

	cleared, err := f.tasks.Update(ctx, task.ID, taskInput("Final report", nil))
	require.NoError(t, err)
	assert.Nil(t, cleared.CategoryID)
}

func TestTaskService_UpdateFailuresLeaveStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	work := f.category(t, "Work")
	task := f.task(t, "Report", &work.ID)

	_, err := f.tasks.Update(ctx, task.ID+10, taskInput("Other", nil))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.tasks.Update(ctx, task.ID, taskInput("Other", ptr(uint(77))))
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := f.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Report", found.Title)
	assert.Equal(t, work.ID, *found.CategoryID)
}

func TestTaskService_Complete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.task(t, "Report", nil)

	done, err := f.tasks.Complete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	_, err = f.tasks.Complete(ctx, task.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.task(t, "Report", nil)

	require.NoError(t, f.tasks.Delete(ctx, task.ID))
	_, err := f.tasks.Get(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.tasks.Delete(ctx, task.ID), ErrNotFound)
}

func TestTaskService_ListPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, title := range []string{"a", "b", "c"} {
		f.task(t, title, nil)
	}

	page, err := f.tasks.ListPage(ctx, repository.PageRequest{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].Title)
	assert.Equal(t, "b", page.Items[1].Title)
}
