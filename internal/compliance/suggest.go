package compliance

import "time"

// Suggest computes the canonical RLD for a close date. When current already
// honours the minimum lead time only its weekday is corrected. It reports
// false without a close date.
func (e *Evaluator) Suggest(closeRaw, currentRaw string) (time.Time, bool) {
	closeDate, ok := ParseDate(closeRaw)
	if !ok {
		return time.Time{}, false
	}
	minimum := addDays(closeDate, e.rules.MinLeadDays)
	target := e.launchDay(nextMonday(minimum))

	current, ok := ParseDate(currentRaw)
	if !ok || current.Before(minimum) {
		return target, true
	}

	switch current.Weekday() {
	case time.Monday:
		return e.launchDay(current), true
	case time.Tuesday:
		monday := addDays(current, -1)
		if e.rules.Holidays.Contains(monday) {
			return current, true
		}
		if !monday.Before(minimum) {
			return monday, true
		}
		return e.launchDay(nextMonday(current)), true
	}

	prev := previousMonday(current)
	next := nextMonday(current)
	if !prev.Before(minimum) && current.Sub(prev) <= next.Sub(current) {
		return e.launchDay(prev), true
	}
	return e.launchDay(next), true
}

// launchDay moves a holiday Monday to its Tuesday. No further rolling.
func (e *Evaluator) launchDay(monday time.Time) time.Time {
	if e.rules.Holidays.Contains(monday) {
		return addDays(monday, 1)
	}
	return monday
}

// nextMonday returns t when it is a Monday, otherwise the following Monday.
func nextMonday(t time.Time) time.Time {
	delta := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	return addDays(t, delta)
}

// previousMonday returns t when it is a Monday, otherwise the Monday before.
func previousMonday(t time.Time) time.Time {
	delta := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	return addDays(t, -delta)
}
