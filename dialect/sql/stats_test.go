package sql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsDriver(t *testing.T) {
	drv, mock := newMock(t)
	ctx := context.Background()

	var slow []string
	stats := NewStatsDriver(drv,
		WithSlowThreshold(0),
		WithSlowQueryHook(func(_ context.Context, query string, binds map[string]any, _ time.Duration) {
			slow = append(slow, fmt.Sprintf("%s %v", query, binds))
		}),
	)
	assert.Equal(t, time.Duration(0), stats.SlowThreshold())

	mock.ExpectPrepare("SELECT * FROM `users` WHERE `id` = ?").
		ExpectQuery().
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectPrepare("DELETE FROM `users`").
		ExpectExec().
		WillReturnError(errors.New("locked"))

	stmt, err := stats.Prepare(ctx, "SELECT * FROM `users` WHERE `id` = :id")
	require.NoError(t, err)
	stmt.Bind("id", 1)
	require.NoError(t, stmt.Execute(ctx))
	require.NoError(t, stmt.Close())

	stmt, err = stats.Prepare(ctx, "DELETE FROM `users`")
	require.NoError(t, err)
	require.Error(t, stmt.Execute(ctx))
	require.NoError(t, stmt.Close())

	s := stats.QueryStats().Stats()
	assert.EqualValues(t, 2, s.TotalPrepares)
	assert.EqualValues(t, 2, s.TotalExecutions)
	assert.EqualValues(t, 1, s.Errors)
	assert.EqualValues(t, 2, s.SlowQueries)
	assert.Contains(t, s.String(), "executions=2")
	assert.Equal(t, []string{"SELECT * FROM `users` WHERE `id` = :id map[id:1]", "DELETE FROM `users` map[]"}, slow)

	stats.QueryStats().Reset()
	assert.Zero(t, stats.QueryStats().Stats().TotalExecutions)
	assert.Zero(t, stats.QueryStats().Stats().AvgDuration())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsTx(t *testing.T) {
	drv, mock := newMock(t)
	ctx := context.Background()
	stats := NewStatsDriver(drv, WithSlowThreshold(time.Hour))
	stats.SetSlowThreshold(2 * time.Hour)
	assert.Equal(t, 2*time.Hour, stats.SlowThreshold())

	mock.ExpectBegin()
	mock.ExpectPrepare("UPDATE `users` SET `age` = ?").
		ExpectExec().
		WithArgs(30).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := stats.BeginTx(ctx, nil)
	require.NoError(t, err)
	stmt, err := tx.Prepare(ctx, "UPDATE `users` SET `age` = :age")
	require.NoError(t, err)
	stmt.Bind("age", 30)
	require.NoError(t, stmt.Execute(ctx))
	n, err := stmt.RowCount()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NoError(t, stmt.Close())
	require.NoError(t, tx.Commit())

	s := stats.QueryStats().Stats()
	assert.EqualValues(t, 1, s.TotalExecutions)
	assert.Zero(t, s.SlowQueries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugDriver(t *testing.T) {
	drv, mock := newMock(t)
	ctx := context.Background()

	var logs []string
	debug := NewDebugDriver(drv, DebugWithLog(func(_ context.Context, v ...any) {
		logs = append(logs, fmt.Sprint(v...))
	}))

	mock.ExpectBegin()
	mock.ExpectPrepare("DELETE FROM `users` WHERE `id` = ?").
		ExpectExec().
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := debug.BeginTx(ctx, nil)
	require.NoError(t, err)
	stmt, err := tx.Prepare(ctx, "DELETE FROM `users` WHERE `id` = :id")
	require.NoError(t, err)
	stmt.Bind("id", 1)
	require.NoError(t, stmt.Execute(ctx))
	require.NoError(t, stmt.Close())
	require.NoError(t, tx.Rollback())

	assert.Equal(t, []string{
		"begin transaction",
		"tx prepare: DELETE FROM `users` WHERE `id` = :id",
		"execute: DELETE FROM `users` WHERE `id` = :id binds: map[id:1]",
		"rollback transaction",
	}, logs)
	require.NoError(t, mock.ExpectationsWereMet())
}
