package trend

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/event"
)

const (
	DefaultDays = 7
	MaxDays     = 3650
)

const (
	ParamDays           = "days"
	ParamActions        = "actions"
	ParamDisplay        = "display"
	ParamBreakdown      = "breakdown"
	ParamTemporaryToken = "temporary_token"
)

// ReservedParams are query keys that never become property filters.
var ReservedParams = map[string]bool{
	ParamDays:           true,
	ParamActions:        true,
	ParamDisplay:        true,
	ParamBreakdown:      true,
	ParamTemporaryToken: true,
}

type Query struct {
	Days      int
	ActionIDs []int64
	Breakdown string
	Display   string
	Filters   []event.PropertyFilter
}

// ParseQuery builds a trend query from raw query parameters.
func ParseQuery(params map[string]string) (*Query, error) {
	validationErr := apperror.NewValidationError()
	q := &Query{
		Days:      DefaultDays,
		Breakdown: params[ParamBreakdown],
		Display:   params[ParamDisplay],
		Filters:   event.FiltersFromParams(params, ReservedParams),
	}

	if raw, ok := params[ParamDays]; ok && raw != "" {
		days, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			validationErr.Add(apperror.ErrorDetail{
				Field:   ParamDays,
				Code:    apperror.ErrCodeInvalidInteger,
				Message: "days must be an integer",
			})
		case days < 0:
			validationErr.Add(apperror.ErrorDetail{
				Field:   ParamDays,
				Code:    apperror.ErrCodeInvalidRange,
				Message: "days must not be negative",
			})
		case days > MaxDays:
			validationErr.Add(apperror.ErrorDetail{
				Field:   ParamDays,
				Code:    apperror.ErrCodeInvalidRange,
				Message: fmt.Sprintf("days must be at most %d", MaxDays),
			})
		default:
			q.Days = days
		}
	}

	if raw := params[ParamActions]; raw != "" {
		ids, err := ParseIDList(raw)
		if err != nil {
			validationErr.Add(apperror.ErrorDetail{
				Field:   ParamActions,
				Code:    apperror.ErrCodeInvalidInteger,
				Message: err.Error(),
			})
		}
		q.ActionIDs = ids
	}

	if err := validationErr.OrNil(); err != nil {
		return nil, err
	}
	return q, nil
}

// ParseIDList parses a comma separated list of integer ids. Empty items are skipped.
func ParseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Range is the inclusive day window of a query. Until is the exclusive
// upper bound used against event timestamps.
type Range struct {
	From  time.Time
	To    time.Time
	Until time.Time
}

func (q *Query) Range(today time.Time) Range {
	to := Day(today)
	return Range{
		From:  to.AddDate(0, 0, -q.Days),
		To:    to,
		Until: to.AddDate(0, 0, 1),
	}
}
