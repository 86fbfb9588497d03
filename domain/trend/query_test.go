package trend

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q, err := ParseQuery(map[string]string{})

		require.NoError(t, err)
		assert.Equal(t, DefaultDays, q.Days)
		assert.Empty(t, q.ActionIDs)
		assert.Empty(t, q.Breakdown)
		assert.Empty(t, q.Filters)
	})

	t.Run("reserved keys are not filters", func(t *testing.T) {
		q, err := ParseQuery(map[string]string{
			"days":            "14",
			"actions":         "3, 1",
			"display":         "ActionsLineGraph",
			"breakdown":       "browser",
			"temporary_token": "tok",
			"country":         "US",
			"$browser":        "Chrome",
		})

		require.NoError(t, err)
		assert.Equal(t, 14, q.Days)
		assert.Equal(t, []int64{3, 1}, q.ActionIDs)
		assert.Equal(t, "browser", q.Breakdown)
		assert.Equal(t, "ActionsLineGraph", q.Display)
		assert.Equal(t, []event.PropertyFilter{
			{Key: "$browser", Value: "Chrome"},
			{Key: "country", Value: "US"},
		}, q.Filters)
	})

	t.Run("maximum days", func(t *testing.T) {
		q, err := ParseQuery(map[string]string{"days": strconv.Itoa(MaxDays)})
		require.NoError(t, err)
		assert.Equal(t, MaxDays, q.Days)
	})

	t.Run("zero days", func(t *testing.T) {
		q, err := ParseQuery(map[string]string{"days": "0"})

		require.NoError(t, err)
		assert.Equal(t, 0, q.Days)
	})

	tests := []struct {
		name  string
		param map[string]string
		field string
		code  string
	}{
		{name: "non integer days", param: map[string]string{"days": "seven"}, field: "days", code: apperror.ErrCodeInvalidInteger},
		{name: "negative days", param: map[string]string{"days": "-1"}, field: "days", code: apperror.ErrCodeInvalidRange},
		{name: "days above maximum", param: map[string]string{"days": "3651"}, field: "days", code: apperror.ErrCodeInvalidRange},
		{name: "max int days", param: map[string]string{"days": strconv.Itoa(math.MaxInt)}, field: "days", code: apperror.ErrCodeInvalidRange},
		{name: "days overflowing int", param: map[string]string{"days": "99999999999999999999"}, field: "days", code: apperror.ErrCodeInvalidInteger},
		{name: "non integer action id", param: map[string]string{"actions": "1,x"}, field: "actions", code: apperror.ErrCodeInvalidInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(tt.param)

			assert.Nil(t, q)
			var validationErr *apperror.ValidationError
			require.True(t, errors.As(err, &validationErr))
			require.Len(t, validationErr.Errors, 1)
			assert.Equal(t, tt.field, validationErr.Errors[0].Field)
			assert.Equal(t, tt.code, validationErr.Errors[0].Code)
		})
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("1,,2 ,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = ParseIDList("1,two")
	assert.Error(t, err)
}

func TestQuery_Range(t *testing.T) {
	q := &Query{Days: 7}
	now := time.Date(2020, 1, 4, 15, 30, 0, 0, time.UTC)

	r := q.Range(now)

	assert.Equal(t, time.Date(2019, 12, 28, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC), r.To)
	assert.Equal(t, time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC), r.Until)
}

func TestSeries(t *testing.T) {
	series := Fill(time.Date(2019, 12, 28, 0, 0, 0, 0, time.UTC), 7, []DailyCount{
		{Day: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Count: 3},
		{Day: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), Count: 1},
	})

	labels, data, total := Series(series)

	require.Len(t, labels, 8)
	assert.Equal(t, "28 December", labels[0])
	assert.Equal(t, "1 January", labels[4])
	assert.Equal(t, 3.0, data[4])
	assert.Equal(t, "2 January", labels[5])
	assert.Equal(t, 1.0, data[5])
	assert.Equal(t, 4.0, total)
}
