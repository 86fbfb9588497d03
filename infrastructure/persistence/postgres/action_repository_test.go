package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)

func actionRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "team_id", "name", "created_by_id", "deleted", "created_at"})
}

func stepRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "action_id", "event", "tag_name", "text", "href", "selector", "url", "name"})
}

func TestActionRepository_ListAttachesSteps(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)
	userID := int64(3)

	mock.ExpectQuery(`FROM actions WHERE team_id = \$1 AND NOT deleted ORDER BY id DESC`).
		WithArgs(int64(1)).
		WillReturnRows(actionRows().
			AddRow(int64(8), int64(1), "Signed up", &userID, false, createdAt).
			AddRow(int64(5), int64(1), "Pricing", nil, false, createdAt))
	mock.ExpectQuery(`FROM action_steps WHERE action_id = ANY\(\$1\) ORDER BY id`).
		WithArgs([]int64{8, 5}).
		WillReturnRows(stepRows().
			AddRow(int64(11), int64(5), "$pageview", "", "", "", "", "/pricing", "").
			AddRow(int64(12), int64(8), "$autocapture", "button", "Sign up", "", "", "", "").
			AddRow(int64(13), int64(8), "$autocapture", "a", "", "/signup", "", "", ""))

	actions, err := repo.List(context.Background(), 1, action.ListFilter{})

	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "Signed up", actions[0].Name)
	require.NotNil(t, actions[0].CreatedByID)
	assert.Equal(t, int64(3), *actions[0].CreatedByID)
	require.Len(t, actions[0].Steps, 2)
	assert.Equal(t, int64(12), actions[0].Steps[0].ID)
	assert.Equal(t, "/signup", actions[0].Steps[1].Href)
	require.Len(t, actions[1].Steps, 1)
	assert.Equal(t, "/pricing", actions[1].Steps[0].URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepository_ListByIDsIncludingDeleted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectQuery(`FROM actions WHERE team_id = \$1 AND id = ANY\(\$2\) ORDER BY id DESC`).
		WithArgs(int64(1), []int64{4}).
		WillReturnRows(actionRows())

	actions, err := repo.List(context.Background(), 1, action.ListFilter{IDs: []int64{4}, IncludeDeleted: true})

	require.NoError(t, err)
	assert.Empty(t, actions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepository_GetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectQuery(`FROM actions WHERE team_id = \$1 AND id = \$2`).
		WithArgs(int64(1), int64(99)).
		WillReturnRows(actionRows())

	_, err = repo.Get(context.Background(), 1, 99)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepository_FindByNameSkipsDeleted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectQuery(`WHERE team_id = \$1 AND name = \$2 AND NOT deleted`).
		WithArgs(int64(1), "Signed up").
		WillReturnRows(actionRows().AddRow(int64(8), int64(1), "Signed up", nil, false, createdAt))
	mock.ExpectQuery(`FROM action_steps`).
		WithArgs([]int64{8}).
		WillReturnRows(stepRows())

	a, err := repo.FindByName(context.Background(), 1, "Signed up")

	require.NoError(t, err)
	assert.Equal(t, int64(8), a.ID)
	assert.NotNil(t, a.Steps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepository_CreateInsertsSteps(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)
	a := &action.Action{
		TeamID: 1,
		Name:   "Signed up",
		Steps: []action.Step{
			{Event: "$autocapture", TagName: "button"},
			{Event: "$pageview", URL: "/welcome"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO actions`).
		WithArgs(int64(1), "Signed up", (*int64)(nil), false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))
	mock.ExpectQuery(`INSERT INTO action_steps`).
		WithArgs(int64(7), "$autocapture", "button", "", "", "", "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(20)))
	mock.ExpectQuery(`INSERT INTO action_steps`).
		WithArgs(int64(7), "$pageview", "", "", "", "", "/welcome", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectCommit()

	err = repo.Create(context.Background(), a)

	require.NoError(t, err)
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, createdAt, a.CreatedAt)
	assert.Equal(t, int64(20), a.Steps[0].ID)
	assert.Equal(t, int64(21), a.Steps[1].ID)
	assert.Equal(t, int64(7), a.Steps[1].ActionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepository_CreateDuplicateName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO actions`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "actions_team_name_live_idx"})
	mock.ExpectRollback()

	err = repo.Create(context.Background(), &action.Action{TeamID: 1, Name: "Signed up"})

	var conflict *apperror.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, action.DetailExists, conflict.Detail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepository_UpdateExecutesPlan(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)
	a := &action.Action{ID: 7, TeamID: 1, Name: "Renamed"}
	plan := action.StepPlan{
		Create: []action.Step{{Event: "$pageview"}},
		Update: []action.Step{{ID: 20, Event: "$autocapture", Text: "Go"}},
		Delete: []int64{21},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE actions SET name = \$3, deleted = \$4`).
		WithArgs(int64(1), int64(7), "Renamed", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM action_steps`).
		WithArgs(int64(7), []int64{21}).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`UPDATE action_steps`).
		WithArgs(int64(7), int64(20), "$autocapture", "", "Go", "", "", "", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO action_steps`).
		WithArgs(int64(7), "$pageview", "", "", "", "", "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(22)))
	mock.ExpectCommit()

	err = repo.Update(context.Background(), a, plan)

	require.NoError(t, err)
	assert.Equal(t, int64(22), plan.Create[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepository_UpdateMissingAction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE actions`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err = repo.Update(context.Background(), &action.Action{ID: 7, TeamID: 1, Name: "x"}, action.StepPlan{Delete: []int64{1}})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionRepository_UpdateWithoutStepChanges(t *testing.T) {
	t.Run("renames outside a transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewActionRepository(mock)

		mock.ExpectExec(`UPDATE actions SET name = \$3, deleted = \$4`).
			WithArgs(int64(1), int64(7), "Renamed", true).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.Update(context.Background(), &action.Action{ID: 7, TeamID: 1, Name: "Renamed", Deleted: true}, action.StepPlan{})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing action", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewActionRepository(mock)

		mock.ExpectExec(`UPDATE actions`).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = repo.Update(context.Background(), &action.Action{ID: 7, TeamID: 1, Name: "x"}, action.StepPlan{})

		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("name conflict", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewActionRepository(mock)

		mock.ExpectExec(`UPDATE actions`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err = repo.Update(context.Background(), &action.Action{ID: 7, TeamID: 1, Name: "Taken"}, action.StepPlan{})

		var conflict *apperror.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, action.DetailExists, conflict.Detail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActionRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectExec(`DELETE FROM actions WHERE team_id = \$1 AND id = \$2`).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM actions`).
		WithArgs(int64(1), int64(8)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM actions`).
		WithArgs(int64(1), int64(9)).
		WillReturnError(errors.New("connection reset"))

	require.NoError(t, repo.Delete(context.Background(), 1, 7))
	assert.ErrorIs(t, repo.Delete(context.Background(), 1, 8), apperror.ErrNotFound)
	err = repo.Delete(context.Background(), 1, 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete action")
	assert.NoError(t, mock.ExpectationsWereMet())
}
