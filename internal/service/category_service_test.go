package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
	"productivity-tracker/internal/repository/repotest"
)

type fixture struct {
	store      *repository.GormStore
	categories *CategoryService
	tasks      *TaskService
	notes      *NoteService
	users      *UserService
	clock      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repotest.NewStore(t)
	f := &fixture{
		store:      store,
		categories: NewCategoryService(store),
		tasks:      NewTaskService(store),
		notes:      NewNoteService(store),
		users:      NewUserService(store),
		clock:      time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
	}
	tick := func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	f.tasks.now = tick
	f.notes.now = tick
	return f
}

func (f *fixture) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) task(t *testing.T, title string, categoryID *uint) *model.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), taskInput(title, categoryID))
	require.NoError(t, err)
	return task
}

func (f *fixture) note(t *testing.T, title string, categoryID *uint) *model.Note {
	t.Helper()
	note, err := f.notes.Create(context.Background(), NoteInput{Title: title, Content: ptr("body"), CategoryID: categoryID})
	require.NoError(t, err)
	return note
}

func taskInput(title string, categoryID *uint) TaskInput {
	due := time.Date(2025, 5, 1, 17, 0, 0, 0, time.UTC)
	return TaskInput{Title: title, Completed: ptr(false), DueDate: &due, CategoryID: categoryID}
}

func ptr[T any](v T) *T { return &v }

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c, err := f.categories.Create(ctx, CategoryInput{Name: "  Work "})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "Work", c.Name)

	found, err := f.categories.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, found.Name)
}

func TestCategoryService_CreateRequiresName(t *testing.T) {
	f := newFixture(t)

	_, err := f.categories.Create(context.Background(), CategoryInput{Name: "   "})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestCategoryService_DuplicateNameConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.category(t, "Work")

	_, err := f.categories.Create(ctx, CategoryInput{Name: "Work"})
	require.ErrorIs(t, err, ErrConflict)

	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Work", cerr.Value)

	all, err := f.categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	work := f.category(t, "Work")
	f.category(t, "Home")

	renamed, err := f.categories.Update(ctx, work.ID, CategoryInput{Name: "Office"})
	require.NoError(t, err)
	assert.Equal(t, work.ID, renamed.ID)
	assert.Equal(t, "Office", renamed.Name)

	_, err = f.categories.Update(ctx, work.ID, CategoryInput{Name: "Office"})
	assert.NoError(t, err, "keeping the same name is not a conflict")

	_, err = f.categories.Update(ctx, work.ID, CategoryInput{Name: "Home"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.categories.Update(ctx, work.ID+99, CategoryInput{Name: "Elsewhere"})
	assert.ErrorIs(t, err, ErrNotFound)

	names := []string{}
	all, err := f.categories.List(ctx)
	require.NoError(t, err)
	for _, c := range all {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Office", "Home"}, names)
}

func TestCategoryService_UserOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.users.Create(ctx, UserInput{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)

	owned, err := f.categories.Create(ctx, CategoryInput{Name: "Ann's", UserID: &user.ID})
	require.NoError(t, err)
	require.NotNil(t, owned.UserID)

	_, err = f.categories.Create(ctx, CategoryInput{Name: "Second", UserID: &user.ID})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.categories.Create(ctx, CategoryInput{Name: "Ghost", UserID: ptr(user.ID + 50)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.categories.Update(ctx, owned.ID, CategoryInput{Name: "Ann's own", UserID: &user.ID})
	assert.NoError(t, err)
}

func TestCategoryService_DeleteWithoutDependents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.category(t, "Empty")

	require.NoError(t, f.categories.Delete(ctx, c.ID))

	exists, err := f.store.Categories().ExistsByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCategoryService_DeleteUnknown(t *testing.T) {
	f := newFixture(t)

	err := f.categories.Delete(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)

	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "category", nerr.Entity)
	assert.Equal(t, uint(42), nerr.ID)
}

func TestCategoryService_DeleteGuard(t *testing.T) {
	tests := []struct {
		name      string
		withTask  bool
		withNote  bool
		wantTasks bool
		wantNotes bool
	}{
		{name: "task", withTask: true, wantTasks: true},
		{name: "note", withNote: true, wantNotes: true},
		{name: "both", withTask: true, withNote: true, wantTasks: true, wantNotes: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			c := f.category(t, "Busy")
			if tt.withTask {
				f.task(t, "Report", &c.ID)
			}
			if tt.withNote {
				f.note(t, "Idea", &c.ID)
			}

			for i := 0; i < 2; i++ {
				err := f.categories.Delete(ctx, c.ID)
				require.ErrorIs(t, err, ErrCategoryInUse)

				var inUse *CategoryInUseError
				require.ErrorAs(t, err, &inUse)
				assert.Equal(t, tt.wantTasks, inUse.Tasks)
				assert.Equal(t, tt.wantNotes, inUse.Notes)
			}

			exists, err := f.store.Categories().ExistsByID(ctx, c.ID)
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestCategoryService_DeleteScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	work := f.category(t, "Work")
	report := f.task(t, "Report", &work.ID)

	assert.ErrorIs(t, f.categories.Delete(ctx, work.ID), ErrCategoryInUse)

	require.NoError(t, f.tasks.Delete(ctx, report.ID))
	require.NoError(t, f.categories.Delete(ctx, work.ID))

	_, err := f.categories.Get(ctx, work.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_ListTasksNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	work := f.category(t, "Work")
	other := f.category(t, "Other")

	t1 := f.task(t, "t1", &work.ID)
	t2 := f.task(t, "t2", &work.ID)
	f.task(t, "elsewhere", &other.ID)
	t3 := f.task(t, "t3", &work.ID)
	require.True(t, t1.CreatedAt.Before(t2.CreatedAt))
	require.True(t, t2.CreatedAt.Before(t3.CreatedAt))

	tasks, err := f.categories.ListTasks(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []uint{t3.ID, t2.ID, t1.ID}, []uint{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestCategoryService_ListNotesNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ideas := f.category(t, "Ideas")

	n1 := f.note(t, "n1", &ideas.ID)
	n2 := f.note(t, "n2", &ideas.ID)
	f.note(t, "loose", nil)

	notes, err := f.categories.ListNotes(ctx, ideas.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, n2.ID, notes[0].ID)
	assert.Equal(t, n1.ID, notes[1].ID)
}

func TestCategoryService_ListDependentsOfUnknownCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.categories.ListTasks(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.categories.ListNotes(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_DeleteRacesTaskCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 20; i++ {
		c := f.category(t, fmt.Sprintf("Race %d", i))

		var (
			wg        sync.WaitGroup
			createErr error
			deleteErr error
		)
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, createErr = f.tasks.Create(ctx, taskInput("Report", &c.ID))
		}()
		go func() {
			defer wg.Done()
			<-start
			deleteErr = f.categories.Delete(ctx, c.ID)
		}()
		close(start)
		wg.Wait()

		require.True(t, (createErr == nil) != (deleteErr == nil),
			"round %d: create=%v delete=%v", i, createErr, deleteErr)

		exists, err := f.store.Categories().ExistsByID(ctx, c.ID)
		require.NoError(t, err)
		if createErr == nil {
			assert.ErrorIs(t, deleteErr, ErrCategoryInUse)
			assert.True(t, exists)
		} else {
			assert.ErrorIs(t, createErr, ErrNotFound)
			assert.False(t, exists)
		}
	}

	tasks, err := f.tasks.List(ctx)
	require.NoError(t, err)
	for _, task := range tasks {
		require.NotNil(t, task.Category, "task %d lost its category", task.ID)
	}
}

func TestCategoryService_ConcurrentCreateSameName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const workers = 8
	errs := make([]error, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.categories.Create(ctx, CategoryInput{Name: "Same"})
		}(i)
	}
	close(start)
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, created)

	all, err := f.categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
