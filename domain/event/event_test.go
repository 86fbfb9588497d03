package event

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/product-analytics/domain/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	return &Event{
		TeamID:     1,
		Event:      "$pageview",
		DistinctID: "user_123",
		Properties: map[string]any{PropertyCurrentURL: "http://localhost/demo/1"},
		Timestamp:  time.Now().Add(-time.Minute),
	}
}

func TestEvent_GenerateID(t *testing.T) {
	e := validEvent()
	e.GenerateID()
	first := e.ID
	e.GenerateID()

	assert.Len(t, first, 36)
	assert.NotEqual(t, first, e.ID)
}

func TestEvent_PropertiesJSON(t *testing.T) {
	t.Run("nil properties", func(t *testing.T) {
		e := &Event{}
		assert.Equal(t, "{}", e.PropertiesJSON())
	})

	t.Run("compact encoding", func(t *testing.T) {
		e := &Event{Properties: map[string]any{"country": "US"}}
		assert.Equal(t, `{"country":"US"}`, e.PropertiesJSON())
	})
}

func TestEvent_Property(t *testing.T) {
	e := &Event{Properties: map[string]any{"browser": "Chrome", "gone": nil}}

	v, ok := e.Property("browser")
	assert.True(t, ok)
	assert.Equal(t, "Chrome", v)

	_, ok = e.Property("gone")
	assert.False(t, ok)

	_, ok = e.Property("missing")
	assert.False(t, ok)

	_, ok = (&Event{}).Property("browser")
	assert.False(t, ok)
}

func TestEvent_CurrentURL(t *testing.T) {
	assert.Equal(t, "http://localhost/demo/1", validEvent().CurrentURL())
	assert.Equal(t, "", (&Event{Properties: map[string]any{PropertyCurrentURL: 3.0}}).CurrentURL())
}

func TestEvent_ElementAt(t *testing.T) {
	e := &Event{Elements: []Element{{TagName: "button", Order: 0}, {TagName: "div", Order: 1}}}

	el, ok := e.ElementAt(1)
	require.True(t, ok)
	assert.Equal(t, "div", el.TagName)

	_, ok = e.ElementAt(2)
	assert.False(t, ok)
}

func TestEvent_ValidateAll(t *testing.T) {
	t.Run("valid event", func(t *testing.T) {
		assert.NoError(t, validEvent().ValidateAll())
	})

	t.Run("missing event and distinct id", func(t *testing.T) {
		e := validEvent()
		e.Event = ""
		e.DistinctID = ""

		err := e.ValidateAll()
		require.Error(t, err)

		var validationErr *apperror.ValidationError
		require.True(t, errors.As(err, &validationErr))
		require.Len(t, validationErr.Errors, 2)
		assert.Equal(t, "event", validationErr.Errors[0].Field)
		assert.Equal(t, "distinct_id", validationErr.Errors[1].Field)
	})

	t.Run("too long event name", func(t *testing.T) {
		e := validEvent()
		e.Event = strings.Repeat("a", MaxEventNameLength+1)

		var validationErr *apperror.ValidationError
		require.True(t, errors.As(e.ValidateAll(), &validationErr))
		assert.Equal(t, apperror.ErrCodeValidationMaxLength, validationErr.Errors[0].Code)
	})

	t.Run("future timestamp beyond skew", func(t *testing.T) {
		e := validEvent()
		e.Timestamp = time.Now().Add(2 * time.Hour)

		var validationErr *apperror.ValidationError
		require.True(t, errors.As(e.ValidateAll(), &validationErr))
		assert.Equal(t, apperror.ErrCodeTimestampFuture, validationErr.Errors[0].Code)
	})

	t.Run("small clock skew accepted", func(t *testing.T) {
		e := validEvent()
		e.Timestamp = time.Now().Add(10 * time.Minute)
		assert.NoError(t, e.ValidateAll())
	})

	t.Run("too many elements", func(t *testing.T) {
		e := validEvent()
		e.Elements = make([]Element, MaxElements+1)

		var validationErr *apperror.ValidationError
		require.True(t, errors.As(e.ValidateAll(), &validationErr))
		assert.Equal(t, "elements", validationErr.Errors[0].Field)
	})
}

func TestDistinctIDsByTeam(t *testing.T) {
	events := []*Event{
		{TeamID: 1, DistinctID: "a"},
		{TeamID: 2, DistinctID: "a"},
		{TeamID: 1, DistinctID: "b"},
		{TeamID: 1, DistinctID: "a"},
	}

	grouped := DistinctIDsByTeam(events)

	assert.Equal(t, []string{"a", "b"}, grouped[1])
	assert.Equal(t, []string{"a"}, grouped[2])
}
