package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/apperror"
)

const (
	actionColumns = `id, team_id, name, created_by_id, deleted, created_at`
	stepColumns   = `id, action_id, event, tag_name, text, href, selector, url, name`
)

type ActionRepository struct {
	db DB
}

func NewActionRepository(db DB) *ActionRepository {
	return &ActionRepository{db: db}
}

func (r *ActionRepository) List(ctx context.Context, teamID int64, filter action.ListFilter) ([]*action.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE team_id = $1`
	args := []any{teamID}
	if !filter.IncludeDeleted {
		query += ` AND NOT deleted`
	}
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		query += fmt.Sprintf(` AND id = ANY($%d)`, len(args))
	}
	query += ` ORDER BY id DESC`

	actions, err := r.queryActions(ctx, query, args...)
	if err != nil {
		slog.Error("Failed to list actions", "teamID", teamID, "error", err)
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	if err := r.loadSteps(ctx, actions); err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *ActionRepository) Get(ctx context.Context, teamID, id int64) (*action.Action, error) {
	return r.getOne(ctx, `SELECT `+actionColumns+` FROM actions WHERE team_id = $1 AND id = $2`, teamID, id)
}

// FindByName returns the live action with the given name.
func (r *ActionRepository) FindByName(ctx context.Context, teamID int64, name string) (*action.Action, error) {
	return r.getOne(ctx, `SELECT `+actionColumns+` FROM actions WHERE team_id = $1 AND name = $2 AND NOT deleted`, teamID, name)
}

func (r *ActionRepository) getOne(ctx context.Context, query string, args ...any) (*action.Action, error) {
	actions, err := r.queryActions(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	if len(actions) == 0 {
		return nil, apperror.ErrNotFound
	}
	if err := r.loadSteps(ctx, actions); err != nil {
		return nil, err
	}
	return actions[0], nil
}

func (r *ActionRepository) queryActions(ctx context.Context, query string, args ...any) ([]*action.Action, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := make([]*action.Action, 0)
	for rows.Next() {
		var a action.Action
		if err := rows.Scan(&a.ID, &a.TeamID, &a.Name, &a.CreatedByID, &a.Deleted, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		a.Steps = make([]action.Step, 0)
		actions = append(actions, &a)
	}
	return actions, rows.Err()
}

func (r *ActionRepository) loadSteps(ctx context.Context, actions []*action.Action) error {
	if len(actions) == 0 {
		return nil
	}
	byID := make(map[int64]*action.Action, len(actions))
	ids := make([]int64, 0, len(actions))
	for _, a := range actions {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	rows, err := r.db.Query(ctx, `SELECT `+stepColumns+` FROM action_steps WHERE action_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		slog.Error("Failed to load action steps", "actions", len(ids), "error", err)
		return fmt.Errorf("failed to load action steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s action.Step
		if err := rows.Scan(&s.ID, &s.ActionID, &s.Event, &s.TagName, &s.Text, &s.Href, &s.Selector, &s.URL, &s.Name); err != nil {
			return fmt.Errorf("failed to scan action step: %w", err)
		}
		if a, ok := byID[s.ActionID]; ok {
			a.Steps = append(a.Steps, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating action steps: %w", err)
	}
	return nil
}

func (r *ActionRepository) Create(ctx context.Context, a *action.Action) error {
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO actions (team_id, name, created_by_id, deleted) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
			a.TeamID, a.Name, a.CreatedByID, a.Deleted,
		).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			return err
		}
		for i := range a.Steps {
			a.Steps[i].ActionID = a.ID
			if err := insertStep(ctx, tx, &a.Steps[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return &apperror.ConflictError{Detail: action.DetailExists}
	}
	if err != nil {
		slog.Error("Failed to create action", "teamID", a.TeamID, "name", a.Name, "error", err)
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

func insertStep(ctx context.Context, tx pgx.Tx, s *action.Step) error {
	return tx.QueryRow(ctx,
		`INSERT INTO action_steps (action_id, event, tag_name, text, href, selector, url, name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		s.ActionID, s.Event, s.TagName, s.Text, s.Href, s.Selector, s.URL, s.Name,
	).Scan(&s.ID)
}

// Update writes the action's name and deleted flag and executes plan against its steps.
func (r *ActionRepository) Update(ctx context.Context, a *action.Action, plan action.StepPlan) error {
	var err error
	if plan.Empty() {
		err = updateAction(ctx, r.db, a)
	} else {
		err = withTx(ctx, r.db, func(tx pgx.Tx) error {
			if err := updateAction(ctx, tx, a); err != nil {
				return err
			}
			return applyStepPlan(ctx, tx, a.ID, plan)
		})
	}
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return err
	case isUniqueViolation(err):
		return &apperror.ConflictError{Detail: action.DetailExists}
	case err != nil:
		slog.Error("Failed to update action", "teamID", a.TeamID, "actionID", a.ID, "error", err)
		return fmt.Errorf("failed to update action: %w", err)
	}
	return nil
}

func updateAction(ctx context.Context, db DB, a *action.Action) error {
	tag, err := db.Exec(ctx,
		`UPDATE actions SET name = $3, deleted = $4 WHERE team_id = $1 AND id = $2`,
		a.TeamID, a.ID, a.Name, a.Deleted,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func applyStepPlan(ctx context.Context, tx pgx.Tx, actionID int64, plan action.StepPlan) error {
	if len(plan.Delete) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM action_steps WHERE action_id = $1 AND id = ANY($2)`, actionID, plan.Delete); err != nil {
			return err
		}
	}
	for _, s := range plan.Update {
		if _, err := tx.Exec(ctx,
			`UPDATE action_steps SET event = $3, tag_name = $4, text = $5, href = $6, selector = $7, url = $8, name = $9
			WHERE action_id = $1 AND id = $2`,
			actionID, s.ID, s.Event, s.TagName, s.Text, s.Href, s.Selector, s.URL, s.Name,
		); err != nil {
			return err
		}
	}
	for i := range plan.Create {
		plan.Create[i].ActionID = actionID
		if err := insertStep(ctx, tx, &plan.Create[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ActionRepository) Delete(ctx context.Context, teamID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM actions WHERE team_id = $1 AND id = $2`, teamID, id)
	if err != nil {
		slog.Error("Failed to delete action", "teamID", teamID, "actionID", id, "error", err)
		return fmt.Errorf("failed to delete action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
