package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
	"productivity-tracker/internal/repository/repotest"
)

func ptr[T any](v T) *T { return &v }

func TestRecords_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)

	category := &model.Category{Name: "Work"}
	require.NoError(t, store.Categories().Save(ctx, category))
	require.NotZero(t, category.ID)

	found, err := store.Categories().FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", found.Name)

	byName, err := store.Categories().FindByName(ctx, "Work")
	require.NoError(t, err)
	assert.Equal(t, category.ID, byName.ID)

	_, err = store.Categories().FindByID(ctx, category.ID+100)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := store.Categories().ExistsByID(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRecords_DeleteByID(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)

	user := &model.User{Name: "Ann", Email: "ann@example.com", Password: "secret"}
	require.NoError(t, store.Users().Save(ctx, user))

	require.NoError(t, store.Users().DeleteByID(ctx, user.ID))
	exists, err := store.Users().ExistsByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.Users().DeleteByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecords_FindPage(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Tasks().Save(ctx, &model.Task{Title: "t", DueDate: time.Now()}))
	}

	page, err := store.Tasks().FindPage(ctx, repository.PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages())
	require.Len(t, page.Items, 2)
	assert.Less(t, page.Items[0].ID, page.Items[1].ID)

	last, err := store.Tasks().FindPage(ctx, repository.PageRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
}

func TestCategoryRecords_Uniqueness(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)

	first := &model.Category{Name: "Home"}
	require.NoError(t, store.Categories().Save(ctx, first))

	exists, err := store.Categories().ExistsByName(ctx, "Home", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Categories().ExistsByName(ctx, "Home", first.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.Categories().Save(ctx, &model.Category{Name: "Home"})
	assert.Error(t, err)
}

func TestTaskRecords_ByCategoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)

	work := &model.Category{Name: "Work"}
	require.NoError(t, store.Categories().Save(ctx, work))

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		task := &model.Task{
			Title:      title,
			DueDate:    base.AddDate(0, 1, 0),
			CategoryID: ptr(work.ID),
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.Tasks().Save(ctx, task))
	}
	require.NoError(t, store.Tasks().Save(ctx, &model.Task{Title: "loose", DueDate: base}))

	tasks, err := store.Tasks().FindByCategoryID(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "first", tasks[2].Title)
	require.NotNil(t, tasks[0].Category)
	assert.Equal(t, "Work", tasks[0].Category.Name)

	exists, err := store.Tasks().ExistsByCategoryID(ctx, work.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTaskRecords_FindOpenDueBefore(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Tasks().Save(ctx, &model.Task{Title: "late", DueDate: now.Add(-time.Hour)}))
	require.NoError(t, store.Tasks().Save(ctx, &model.Task{Title: "soon", DueDate: now.Add(time.Hour)}))
	require.NoError(t, store.Tasks().Save(ctx, &model.Task{Title: "done", DueDate: now.Add(-time.Hour), Completed: true}))
	require.NoError(t, store.Tasks().Save(ctx, &model.Task{Title: "far", DueDate: now.Add(72 * time.Hour)}))

	tasks, err := store.Tasks().FindOpenDueBefore(ctx, now.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "late", tasks[0].Title)
	assert.Equal(t, "soon", tasks[1].Title)
}

func TestNoteRecords_ForeignKeyRestrictsCategoryDelete(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)

	ideas := &model.Category{Name: "Ideas"}
	require.NoError(t, store.Categories().Save(ctx, ideas))
	require.NoError(t, store.Notes().Save(ctx, &model.Note{Title: "n", Content: "c", CategoryID: ptr(ideas.ID)}))

	err := store.Categories().DeleteByID(ctx, ideas.ID)
	assert.Error(t, err)

	exists, err := store.Categories().ExistsByID(ctx, ideas.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Categories().Save(ctx, &model.Category{Name: "Temp"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := store.Categories().ExistsByName(ctx, "Temp", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPageRequest_Normalize(t *testing.T) {
	req := repository.PageRequest{Page: -1, Size: 1000}.Normalize()
	assert.Equal(t, 0, req.Page)
	assert.Equal(t, repository.MaxPageSize, req.Size)

	req = repository.PageRequest{Page: 3}.Normalize()
	assert.Equal(t, repository.DefaultPageSize, req.Size)
	assert.Equal(t, 3*repository.DefaultPageSize, req.Offset())
}
