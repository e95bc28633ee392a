package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/recurrence"
	domaintask "github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetask/internal/infrastructure/persistence/sqlite"
	"github.com/YoshitsuguKoike/deetask/internal/infrastructure/transaction"
)

func TestComplete_WeeklyRolloverKeepsLocalWeekdayThroughSQLite(t *testing.T) {
	db, err := sqlite.Open("file:weekly_rollover_tokyo?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	jst := time.FixedZone("JST", 9*60*60)
	tokyo := model.NewCalendar(jst)
	tasks := sqlite.NewTaskRepository(db)
	uc := NewCompletionUseCaseImpl(tasks, sqlite.NewCompletionLogRepository(db),
		transaction.NewSQLiteTransactionManager(db), tokyo,
		func() time.Time { return clock }, nil)

	mondays, err := recurrence.NewWeekly(time.Monday)
	require.NoError(t, err)
	// Monday 08:00 in Tokyo is still Sunday in UTC
	mon := time.Date(2026, 2, 2, 8, 0, 0, 0, jst)
	tk, err := domaintask.NewTask(domaintask.Params{
		ProjectID:           model.InboxProjectID,
		Title:               "weekly review",
		Recurrence:          &domaintask.Recurrence{Rule: mondays, Behavior: model.BehaviorRollover},
		NextOccurrenceDueAt: &mon,
	}, clock.Add(-time.Hour))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, tasks.Save(ctx, tk))

	res, err := uc.Complete(ctx, dto.CompleteRequest{TaskID: tk.ID().String()})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-02", res.Log.OccurrenceKey)

	stored, err := tasks.FindByID(ctx, tk.ID())
	require.NoError(t, err)
	require.NotNil(t, stored.NextOccurrenceDueAt())
	next := stored.NextOccurrenceDueAt().In(jst)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.True(t, next.Equal(time.Date(2026, 2, 9, 8, 0, 0, 0, jst)), "next pointer %s", next)

	back, err := uc.Uncomplete(ctx, dto.UncompleteRequest{TaskID: tk.ID().String()})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-02", back.RemovedLog.OccurrenceKey)
	require.NotNil(t, back.Task.NextOccurrenceDueAt)
	assert.True(t, back.Task.NextOccurrenceDueAt.Equal(mon))
}
