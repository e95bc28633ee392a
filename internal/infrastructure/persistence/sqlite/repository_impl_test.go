package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/recurrence"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetask/internal/infrastructure/transaction"
)

func TestProjectRepositoryImpl_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	due := testNow.AddDate(0, 1, 0)
	note := "seasonal"
	p, err := project.NewProject("Garden", testNow, &due, &note, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Garden", got.Title())
	assert.True(t, got.StartDate().Equal(testNow))
	require.NotNil(t, got.DueDate())
	assert.True(t, got.DueDate().Equal(due))
	assert.Equal(t, "seasonal", *got.Note())
	assert.Equal(t, model.ProjectActive, got.Status())

	// upsert
	require.NoError(t, p.Archive(testNow.Add(time.Hour)))
	require.NoError(t, repo.Save(ctx, p))
	got, err = repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, model.ProjectArchived, got.Status())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "inbox plus the new project")

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].IsInbox())
}

func TestProjectRepositoryImpl_NotFound(t *testing.T) {
	repo := NewProjectRepository(setupTestDB(t))
	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, model.IsNotFound(err), "got %v", err)
}

func TestTaskRepositoryImpl_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	weekly, err := recurrence.NewWeekly(time.Monday, time.Thursday)
	require.NoError(t, err)
	due := testNow.Add(2 * time.Hour)
	start := testNow.Add(-time.Hour)
	section := model.SectionID("s1")
	note := "bring cash"

	tk, err := task.NewTask(task.Params{
		ProjectID:        model.InboxProjectID,
		Title:            "Pay rent",
		Priority:         model.PriorityP2,
		DueAt:            &due,
		StartAt:          &start,
		SectionID:        &section,
		TagIDs:           []model.TagID{"home", "money"},
		Note:             &note,
		Recurrence:       &task.Recurrence{Rule: weekly, Behavior: model.BehaviorRollover},
		BlockedByTaskIDs: []model.TaskID{"other"},
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tk))

	got, err := repo.FindByID(ctx, tk.ID())
	require.NoError(t, err)

	assert.Equal(t, tk.Title(), got.Title())
	assert.Equal(t, model.TaskTypeRecurring, got.Type())
	assert.Equal(t, model.PriorityP2, got.Priority())
	assert.True(t, got.DueAt().Equal(due))
	assert.True(t, got.StartAt().Equal(start))
	assert.Equal(t, section, *got.SectionID())
	assert.Equal(t, []model.TagID{"home", "money"}, got.TagIDs())
	assert.Equal(t, note, *got.Note())
	require.NotNil(t, got.Recurrence())
	assert.Equal(t, "weekly:mon,thu", got.Recurrence().Rule.String())
	assert.True(t, got.IsRollover())
	assert.True(t, got.NextOccurrenceDueAt().Equal(due))
	assert.Equal(t, []model.TaskID{"other"}, got.BlockedByTaskIDs())
	assert.True(t, got.CreatedAt().Equal(testNow))

	// upsert moves state and pointer
	_, err = got.Start(testNow.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, got.SetNextOccurrenceDueAt(due.AddDate(0, 0, 3), testNow.Add(time.Minute)))
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.FindByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, model.WorkflowDoing, again.WorkflowState())
	assert.True(t, again.NextOccurrenceDueAt().Equal(due.AddDate(0, 0, 3)))
}

func TestTaskRepositoryImpl_ListAndDelete(t *testing.T) {
	db := setupTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	other, err := project.NewProject("Other", testNow, nil, nil, testNow)
	require.NoError(t, err)
	require.NoError(t, projects.Save(ctx, other))

	var ids []model.TaskID
	for i, pid := range []model.ProjectID{model.InboxProjectID, other.ID(), model.InboxProjectID} {
		tk, err := task.NewTask(task.Params{ProjectID: pid, Title: "t"}, testNow.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tk))
		ids = append(ids, tk.ID())
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[0], all[0].ID(), "ordered by creation")

	inbox, err := repo.FindByProject(ctx, model.InboxProjectID)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	require.NoError(t, repo.Delete(ctx, ids[0]))
	require.NoError(t, repo.Delete(ctx, ids[0]), "deleting twice is not an error")
	_, err = repo.FindByID(ctx, ids[0])
	assert.True(t, model.IsNotFound(err))
}

func TestTaskRepositoryImpl_UnknownProjectIsStorageError(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	tk, err := task.NewTask(task.Params{ProjectID: "ghost", Title: "orphan"}, testNow)
	require.NoError(t, err)

	err = repo.Save(context.Background(), tk)
	assert.True(t, model.IsStorage(err), "foreign key violation should surface as storage error, got %v", err)
}

func TestCompletionLogRepositoryImpl(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCompletionLogRepository(db)
	ctx := context.Background()

	first, err := completion.NewLog("t1", "2024-01-15", testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	dup, err := completion.NewLog("t1", "2024-01-15", testNow.Add(time.Minute))
	require.NoError(t, err)
	err = repo.Save(ctx, dup)
	assert.True(t, model.IsDuplicateCompletion(err), "got %v", err)

	second, _ := completion.NewLog("t1", "2024-01-16", testNow.Add(24*time.Hour))
	other, _ := completion.NewLog("t2", model.OccurrenceOnce, testNow)
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, other))

	got, err := repo.FindByTaskAndKey(ctx, "t1", "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID(), got.ID())
	assert.True(t, got.CompletedAt().Equal(testNow))

	missing, err := repo.FindByTaskAndKey(ctx, "t1", "2030-01-01")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byTask, err := repo.FindByTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, byTask, 2)
	assert.Equal(t, model.OccurrenceKey("2024-01-15"), byTask[0].OccurrenceKey())

	require.NoError(t, repo.DeleteByID(ctx, first.ID()))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.DeleteByTask(ctx, "t1"))
	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.TaskID("t2"), all[0].TaskID())
}

func TestSQLiteTransactionManager(t *testing.T) {
	db := setupTestDB(t)
	tm := transaction.NewSQLiteTransactionManager(db)
	repo := NewCompletionLogRepository(db)
	ctx := context.Background()

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := tm.InTransaction(ctx, func(txCtx context.Context) error {
			l, _ := completion.NewLog("t1", model.OccurrenceOnce, testNow)
			require.NoError(t, repo.Save(txCtx, l))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.FindByTaskAndKey(ctx, "t1", model.OccurrenceOnce)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("commit and nested join", func(t *testing.T) {
		err := tm.InTransaction(ctx, func(txCtx context.Context) error {
			return tm.InTransaction(txCtx, func(inner context.Context) error {
				l, _ := completion.NewLog("t2", model.OccurrenceOnce, testNow)
				return repo.Save(inner, l)
			})
		})
		require.NoError(t, err)

		got, err := repo.FindByTaskAndKey(ctx, "t2", model.OccurrenceOnce)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("check then insert is serialized", func(t *testing.T) {
		var wg sync.WaitGroup
		inserted := make(chan bool, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := tm.InTransaction(ctx, func(txCtx context.Context) error {
					existing, err := repo.FindByTaskAndKey(txCtx, "t3", model.OccurrenceOnce)
					if err != nil || existing != nil {
						return err
					}
					l, _ := completion.NewLog("t3", model.OccurrenceOnce, testNow)
					if err := repo.Save(txCtx, l); err != nil {
						return err
					}
					inserted <- true
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		close(inserted)
		assert.Len(t, inserted, 1)

		logs, err := repo.FindByTask(ctx, "t3")
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})
}
