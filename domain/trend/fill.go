package trend

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DailyCount is the number of matched events on one calendar day. Count is a
// float because averaged duplicate days may be fractional.
type DailyCount struct {
	Day   time.Time `json:"day"`
	Count float64   `json:"count"`
}

// DuplicatePolicy decides what Fill does with several raw counts for the same day.
type DuplicatePolicy int

const (
	DuplicateAverage DuplicatePolicy = iota
	DuplicateSum
	DuplicateReject
)

var (
	ErrDuplicateDay = errors.New("duplicate day in raw counts")
	ErrTooManySteps = errors.New("too many steps")
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateSum:
		return "sum"
	case DuplicateReject:
		return "reject"
	default:
		return "average"
	}
}

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "average", "avg", "mean":
		return DuplicateAverage, nil
	case "sum":
		return DuplicateSum, nil
	case "reject", "error":
		return DuplicateReject, nil
	}
	return DuplicateAverage, fmt.Errorf("unknown duplicate policy %q", s)
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Filler struct {
	Duplicates DuplicatePolicy
}

// Fill returns one entry per day from dateFrom to dateFrom+steps inclusive.
// Days missing from raw count zero, raw days outside the window are dropped.
// Windows longer than MaxDays are refused.
func (f Filler) Fill(dateFrom time.Time, steps int, raw []DailyCount) ([]DailyCount, error) {
	if steps < 0 {
		return []DailyCount{}, nil
	}
	if steps > MaxDays {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManySteps, steps, MaxDays)
	}

	start := Day(dateFrom)
	out := make([]DailyCount, steps+1)
	index := make(map[int64]int, len(out))
	for i := range out {
		day := start.AddDate(0, 0, i)
		out[i] = DailyCount{Day: day}
		index[day.Unix()] = i
	}

	sums := make([]float64, len(out))
	seen := make([]int, len(out))
	for _, r := range raw {
		day := Day(r.Day)
		i, ok := index[day.Unix()]
		if !ok {
			continue
		}
		if seen[i] > 0 && f.Duplicates == DuplicateReject {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDay, day.Format(time.DateOnly))
		}
		sums[i] += r.Count
		seen[i]++
	}

	for i := range out {
		if seen[i] == 0 {
			continue
		}
		if f.Duplicates == DuplicateAverage {
			out[i].Count = sums[i] / float64(seen[i])
		} else {
			out[i].Count = sums[i]
		}
	}
	return out, nil
}

// Fill fills with the default policy, which averages duplicate days.
func Fill(dateFrom time.Time, steps int, raw []DailyCount) []DailyCount {
	out, _ := Filler{}.Fill(dateFrom, steps, raw)
	return out
}
