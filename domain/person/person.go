package person

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 500

	PropertyEmail = "email"

	// DetailDistinctIDExists is the conflict detail for a distinct id already
	// bound to a person of the team.
	DetailDistinctIDExists = "distinct-id-exists"
)

type Person struct {
	ID          int64          `json:"id"`
	TeamID      int64          `json:"-"`
	Properties  map[string]any `json:"properties"`
	DistinctIDs []string       `json:"distinct_ids"`
	CreatedAt   time.Time      `json:"created_at"`
	IsUserID    *int64         `json:"is_user,omitempty"`
}

// Name is the email property when set, else the most recent distinct id, else the id.
func (p *Person) Name() string {
	if email, ok := p.Properties[PropertyEmail].(string); ok && email != "" {
		return email
	}
	if n := len(p.DistinctIDs); n > 0 {
		return p.DistinctIDs[n-1]
	}
	return strconv.FormatInt(p.ID, 10)
}

// Search is a parsed person search string. Words of the form "has:key"
// require the key to be present; the remaining words, joined by a space,
// must appear in the properties text, case-insensitively.
type Search struct {
	HasKeys  []string
	Contains string
}

func ParseSearch(raw string) Search {
	var s Search
	var contains []string
	for _, part := range strings.Split(raw, " ") {
		if _, key, ok := strings.Cut(part, ":"); ok {
			key, _, _ = strings.Cut(key, ":")
			s.HasKeys = append(s.HasKeys, key)
			continue
		}
		contains = append(contains, part)
	}
	s.Contains = strings.TrimSpace(strings.Join(contains, " "))
	return s
}

func (s Search) Empty() bool {
	return len(s.HasKeys) == 0 && s.Contains == ""
}

// ListQuery pages through a team's persons newest first. BeforeID is the
// exclusive cursor, zero for the first page.
type ListQuery struct {
	TeamID   int64
	IDs      []int64
	Search   Search
	BeforeID int64
	Limit    int
}

func (q *ListQuery) PageSize() int {
	switch {
	case q.Limit <= 0:
		return DefaultPageSize
	case q.Limit > MaxPageSize:
		return MaxPageSize
	}
	return q.Limit
}

type CreatePersonCommand struct {
	DistinctIDs []string       `json:"distinct_ids" validate:"dive,required,max=200"`
	Properties  map[string]any `json:"properties"`
}

type UpdatePersonCommand struct {
	Properties map[string]any `json:"properties" validate:"required"`
}

type PersonRepository interface {
	List(ctx context.Context, query *ListQuery) ([]*Person, error)
	Get(ctx context.Context, teamID, id int64) (*Person, error)
	GetByDistinctID(ctx context.Context, teamID int64, distinctID string) (*Person, error)
	Create(ctx context.Context, p *Person) error
	UpdateProperties(ctx context.Context, teamID, id int64, properties map[string]any) (*Person, error)
	Delete(ctx context.Context, teamID, id int64) error
	// EnsureDistinctIDs creates a person for every id not yet known to the
	// team and returns how many were created.
	EnsureDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) (int, error)
}

// Resolver ties captured distinct ids to persons.
type Resolver interface {
	EnsureDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) error
}
