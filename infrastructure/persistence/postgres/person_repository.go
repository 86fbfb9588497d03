package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/person"
)

const personSelect = `SELECT p.id, p.team_id, p.properties, p.is_user_id, p.created_at,
	COALESCE(array_agg(d.distinct_id ORDER BY d.id) FILTER (WHERE d.distinct_id IS NOT NULL), '{}')
	FROM persons p
	LEFT JOIN person_distinct_ids d ON d.person_id = p.id`

type PersonRepository struct {
	db DB
}

func NewPersonRepository(db DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) List(ctx context.Context, q *person.ListQuery) ([]*person.Person, error) {
	conditions := []string{"p.team_id = $1"}
	args := []any{q.TeamID}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.IDs) > 0 {
		conditions = append(conditions, "p.id = ANY("+next(q.IDs)+")")
	}
	if q.BeforeID > 0 {
		conditions = append(conditions, "p.id < "+next(q.BeforeID))
	}
	for _, key := range q.Search.HasKeys {
		conditions = append(conditions, "jsonb_exists(p.properties, "+next(key)+")")
	}
	if q.Search.Contains != "" {
		conditions = append(conditions, "p.properties::text ILIKE '%' || "+next(escapeLike(q.Search.Contains))+" || '%'")
	}

	query := fmt.Sprintf(`%s WHERE %s GROUP BY p.id ORDER BY p.id DESC LIMIT %d`,
		personSelect, strings.Join(conditions, " AND "), q.PageSize())

	persons, err := r.queryPersons(ctx, query, args...)
	if err != nil {
		slog.Error("Failed to list persons", "teamID", q.TeamID, "error", err)
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PersonRepository) Get(ctx context.Context, teamID, id int64) (*person.Person, error) {
	persons, err := r.queryPersons(ctx, personSelect+` WHERE p.team_id = $1 AND p.id = $2 GROUP BY p.id`, teamID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	if len(persons) == 0 {
		return nil, apperror.ErrNotFound
	}
	return persons[0], nil
}

func (r *PersonRepository) GetByDistinctID(ctx context.Context, teamID int64, distinctID string) (*person.Person, error) {
	var personID int64
	err := r.db.QueryRow(ctx,
		`SELECT person_id FROM person_distinct_ids WHERE team_id = $1 AND distinct_id = $2`,
		teamID, distinctID,
	).Scan(&personID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve distinct id: %w", err)
	}
	return r.Get(ctx, teamID, personID)
}

func (r *PersonRepository) queryPersons(ctx context.Context, query string, args ...any) ([]*person.Person, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	persons := make([]*person.Person, 0)
	for rows.Next() {
		var (
			p          person.Person
			properties []byte
		)
		if err := rows.Scan(&p.ID, &p.TeamID, &properties, &p.IsUserID, &p.CreatedAt, &p.DistinctIDs); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		if len(properties) > 0 {
			if err := json.Unmarshal(properties, &p.Properties); err != nil {
				return nil, fmt.Errorf("failed to decode properties of person %d: %w", p.ID, err)
			}
		}
		if p.Properties == nil {
			p.Properties = map[string]any{}
		}
		if p.DistinctIDs == nil {
			p.DistinctIDs = []string{}
		}
		persons = append(persons, &p)
	}
	return persons, rows.Err()
}

func encodeProperties(properties map[string]any) (string, error) {
	if properties == nil {
		return "{}", nil
	}
	data, err := json.Marshal(properties)
	if err != nil {
		return "", fmt.Errorf("failed to encode properties: %w", err)
	}
	return string(data), nil
}

func (r *PersonRepository) Create(ctx context.Context, p *person.Person) error {
	properties, err := encodeProperties(p.Properties)
	if err != nil {
		return err
	}

	err = withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO persons (team_id, properties, is_user_id) VALUES ($1, $2, $3) RETURNING id, created_at`,
			p.TeamID, properties, p.IsUserID,
		).Scan(&p.ID, &p.CreatedAt); err != nil {
			return err
		}
		for _, distinctID := range p.DistinctIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO person_distinct_ids (team_id, person_id, distinct_id) VALUES ($1, $2, $3)`,
				p.TeamID, p.ID, distinctID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return &apperror.ConflictError{Detail: person.DetailDistinctIDExists}
	}
	if err != nil {
		slog.Error("Failed to create person", "teamID", p.TeamID, "error", err)
		return fmt.Errorf("failed to create person: %w", err)
	}
	if p.DistinctIDs == nil {
		p.DistinctIDs = []string{}
	}
	return nil
}

func (r *PersonRepository) UpdateProperties(ctx context.Context, teamID, id int64, properties map[string]any) (*person.Person, error) {
	encoded, err := encodeProperties(properties)
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, `UPDATE persons SET properties = $3 WHERE team_id = $1 AND id = $2`, teamID, id, encoded)
	if err != nil {
		slog.Error("Failed to update person", "teamID", teamID, "personID", id, "error", err)
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.ErrNotFound
	}
	return r.Get(ctx, teamID, id)
}

func (r *PersonRepository) Delete(ctx context.Context, teamID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM persons WHERE team_id = $1 AND id = $2`, teamID, id)
	if err != nil {
		slog.Error("Failed to delete person", "teamID", teamID, "personID", id, "error", err)
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// EnsureDistinctIDs creates an empty person for each unknown distinct id. A
// concurrent writer claiming the same id rolls back that person's insert.
func (r *PersonRepository) EnsureDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) (int, error) {
	if len(distinctIDs) == 0 {
		return 0, nil
	}

	missing, err := r.unknownDistinctIDs(ctx, teamID, distinctIDs)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, distinctID := range missing {
		var claimed bool
		err := withTx(ctx, r.db, func(tx pgx.Tx) error {
			var personID int64
			if err := tx.QueryRow(ctx,
				`INSERT INTO persons (team_id) VALUES ($1) RETURNING id`, teamID,
			).Scan(&personID); err != nil {
				return err
			}
			tag, err := tx.Exec(ctx,
				`INSERT INTO person_distinct_ids (team_id, person_id, distinct_id) VALUES ($1, $2, $3)
				ON CONFLICT (team_id, distinct_id) DO NOTHING`,
				teamID, personID, distinctID,
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return errDistinctIDClaimed
			}
			claimed = true
			return nil
		})
		if errors.Is(err, errDistinctIDClaimed) {
			continue
		}
		if err != nil {
			slog.Error("Failed to create person for distinct id", "teamID", teamID, "distinctID", distinctID, "error", err)
			return created, fmt.Errorf("failed to create person: %w", err)
		}
		if claimed {
			created++
		}
	}
	return created, nil
}

var errDistinctIDClaimed = errors.New("distinct id already claimed")

func (r *PersonRepository) unknownDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM unnest($2::text[]) WITH ORDINALITY AS t(id, n)
		WHERE NOT EXISTS (
			SELECT 1 FROM person_distinct_ids d WHERE d.team_id = $1 AND d.distinct_id = t.id
		)
		ORDER BY n`,
		teamID, distinctIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up distinct ids: %w", err)
	}
	defer rows.Close()

	missing := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan distinct id: %w", err)
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}
