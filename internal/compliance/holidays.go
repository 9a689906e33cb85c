package compliance

import (
	"fmt"
	"sort"
	"time"
)

// HolidaySet holds the non-business dates, grouped by calendar year.
type HolidaySet struct {
	days map[string]struct{}
}

// NewHolidaySet builds a set from year → list of "2006-01-02" dates. A date
// filed under the wrong year is rejected.
func NewHolidaySet(byYear map[int][]string) (HolidaySet, error) {
	set := HolidaySet{days: map[string]struct{}{}}
	for year, dates := range byYear {
		for _, raw := range dates {
			t, err := time.Parse(DateLayout, raw)
			if err != nil {
				return HolidaySet{}, fmt.Errorf("holiday %q: %w", raw, err)
			}
			if t.Year() != year {
				return HolidaySet{}, fmt.Errorf("holiday %q listed under %d", raw, year)
			}
			set.days[raw] = struct{}{}
		}
	}
	return set, nil
}

// Contains reports whether t falls on a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	if h.days == nil {
		return false
	}
	_, ok := h.days[t.Format(DateLayout)]
	return ok
}

// Years lists the calendar years that have at least one holiday.
func (h HolidaySet) Years() []int {
	seen := map[int]bool{}
	for raw := range h.days {
		t, _ := time.Parse(DateLayout, raw)
		seen[t.Year()] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (h HolidaySet) Len() int { return len(h.days) }
