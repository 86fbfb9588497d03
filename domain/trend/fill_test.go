package trend

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func counts(series []DailyCount) []float64 {
	out := make([]float64, len(series))
	for i, dc := range series {
		out[i] = dc.Count
	}
	return out
}

func TestFill_EmptyRaw(t *testing.T) {
	from := daysAgo(7)

	series := Fill(from, 7, nil)

	require.Len(t, series, 8)
	for i, dc := range series {
		assert.Equal(t, from.AddDate(0, 0, i), dc.Day)
		assert.Zero(t, dc.Count)
	}
}

func TestFill_InsertsZeroDays(t *testing.T) {
	raw := []DailyCount{
		{Day: daysAgo(3), Count: 2},
		{Day: daysAgo(1), Count: 5},
	}

	series := Fill(daysAgo(3), 3, raw)

	assert.Equal(t, []float64{2, 0, 5, 0}, counts(series))
	assert.Equal(t, today, series[3].Day)
}

func TestFill_IgnoresTimeOfDay(t *testing.T) {
	raw := []DailyCount{{Day: daysAgo(1).Add(17*time.Hour + 3*time.Minute), Count: 4}}

	series := Fill(daysAgo(2).Add(9*time.Hour), 2, raw)

	assert.Equal(t, []float64{0, 4, 0}, counts(series))
	assert.Equal(t, daysAgo(2), series[0].Day)
}

func TestFill_DropsDaysOutsideWindow(t *testing.T) {
	raw := []DailyCount{
		{Day: daysAgo(10), Count: 9},
		{Day: daysAgo(2), Count: 1},
		{Day: today.AddDate(0, 0, 1), Count: 9},
	}

	series := Fill(daysAgo(2), 2, raw)

	assert.Equal(t, []float64{1, 0, 0}, counts(series))
}

func TestFill_NegativeSteps(t *testing.T) {
	series := Fill(today, -1, []DailyCount{{Day: today, Count: 1}})

	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestFill_ZeroSteps(t *testing.T) {
	series := Fill(today, 0, []DailyCount{{Day: today, Count: 3}})

	require.Len(t, series, 1)
	assert.Equal(t, 3.0, series[0].Count)
}

func TestFill_Idempotent(t *testing.T) {
	raw := []DailyCount{
		{Day: daysAgo(6), Count: 1},
		{Day: daysAgo(4), Count: 3},
		{Day: daysAgo(0), Count: 8},
	}

	once := Fill(daysAgo(7), 7, raw)
	twice := Fill(daysAgo(7), 7, once)

	assert.Equal(t, once, twice)
}

func TestFill_PreservesUniqueCounts(t *testing.T) {
	raw := make([]DailyCount, 0, 8)
	for i := 7; i >= 0; i-- {
		raw = append(raw, DailyCount{Day: daysAgo(i), Count: float64(i * 10)})
	}

	series := Fill(daysAgo(7), 7, raw)

	for i, dc := range series {
		assert.Equal(t, raw[i].Count, dc.Count)
	}
}

func TestFiller_Duplicates(t *testing.T) {
	raw := []DailyCount{
		{Day: daysAgo(1), Count: 1},
		{Day: daysAgo(1).Add(time.Hour), Count: 4},
	}

	t.Run("average by default", func(t *testing.T) {
		series, err := Filler{}.Fill(daysAgo(1), 1, raw)

		require.NoError(t, err)
		assert.Equal(t, []float64{2.5, 0}, counts(series))
	})

	t.Run("sum", func(t *testing.T) {
		series, err := Filler{Duplicates: DuplicateSum}.Fill(daysAgo(1), 1, raw)

		require.NoError(t, err)
		assert.Equal(t, []float64{5, 0}, counts(series))
	})

	t.Run("reject", func(t *testing.T) {
		series, err := Filler{Duplicates: DuplicateReject}.Fill(daysAgo(1), 1, raw)

		assert.Nil(t, series)
		assert.True(t, errors.Is(err, ErrDuplicateDay))
	})

	t.Run("reject ignores duplicates outside the window", func(t *testing.T) {
		outside := []DailyCount{{Day: daysAgo(9), Count: 1}, {Day: daysAgo(9), Count: 2}}

		_, err := Filler{Duplicates: DuplicateReject}.Fill(daysAgo(1), 1, outside)

		assert.NoError(t, err)
	})
}

func TestFiller_StepBound(t *testing.T) {
	t.Run("longest window", func(t *testing.T) {
		series, err := Filler{}.Fill(daysAgo(MaxDays), MaxDays, nil)

		require.NoError(t, err)
		assert.Len(t, series, MaxDays+1)
		assert.Equal(t, today, series[MaxDays].Day)
	})

	for _, steps := range []int{MaxDays + 1, 1_000_000_000, math.MaxInt} {
		t.Run(strconv.Itoa(steps), func(t *testing.T) {
			series, err := Filler{}.Fill(today, steps, []DailyCount{{Day: today, Count: 1}})

			assert.Nil(t, series)
			assert.ErrorIs(t, err, ErrTooManySteps)
		})
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected DuplicatePolicy
		wantErr  bool
	}{
		{input: "", expected: DuplicateAverage},
		{input: "average", expected: DuplicateAverage},
		{input: "SUM", expected: DuplicateSum},
		{input: "reject", expected: DuplicateReject},
		{input: "max", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			policy, err := ParseDuplicatePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy)
		})
	}
}
