// Package compliance decides whether a deal's requested launch date (RLD)
// is acceptable relative to its close date, and suggests a date that is.
package compliance

import (
	"sort"
	"time"

	"rldguard/internal/models"
)

// DefaultMinLeadDays is the minimum distance between close date and RLD.
const DefaultMinLeadDays = 28

// Rules is the process-wide configuration of the date rules.
type Rules struct {
	Holidays           HolidaySet
	ExpansionsPipeline string
	MinLeadDays        int
	Location           *time.Location
}

// Input is what the evaluator needs from a deal. Dates are raw CRM values.
type Input struct {
	CloseDate string
	RLD       string
	IsClosed  bool
	Pipeline  string
}

// Evaluator applies Rules against a clock.
type Evaluator struct {
	rules Rules
	now   func() time.Time
}

func NewEvaluator(rules Rules, now func() time.Time) *Evaluator {
	if rules.MinLeadDays <= 0 {
		rules.MinLeadDays = DefaultMinLeadDays
	}
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Evaluator{rules: rules, now: now}
}

// Today is the current civil date in the configured location.
func (e *Evaluator) Today() time.Time {
	return civil(e.now().In(e.rules.Location))
}

// IsExpansions reports whether pipeline is exempt from timing and weekday rules.
func (e *Evaluator) IsExpansions(pipeline string) bool {
	return e.rules.ExpansionsPipeline != "" && pipeline == e.rules.ExpansionsPipeline
}

// Evaluate returns every violation that applies, sorted by priority, or the
// single compliant marker.
func (e *Evaluator) Evaluate(in Input) []models.Violation {
	today := e.Today()
	expansions := e.IsExpansions(in.Pipeline)
	closeDate, hasClose := ParseDate(in.CloseDate)
	rld, hasRLD := ParseDate(in.RLD)

	var out []models.Violation

	if hasClose && closeDate.Before(today) && !in.IsClosed {
		out = append(out, models.Violation{Priority: 1, Type: models.ViolationClosePast, Message: "Close Date is overdue", Severity: models.SeverityError})
	}

	if hasRLD && rld.Before(today) {
		out = append(out, models.Violation{Priority: 2, Type: models.ViolationRLDPast, Message: "RLD is in the past", Severity: models.SeverityError})
	}

	if !expansions && hasClose && hasRLD {
		minimum := addDays(closeDate, e.rules.MinLeadDays)
		switch {
		case rld.Before(closeDate):
			out = append(out, models.Violation{Priority: 3, Type: models.ViolationRLDBeforeClose, Message: "RLD before Close Date", Severity: models.SeverityError})
		case rld.Before(minimum):
			out = append(out, models.Violation{Priority: 4, Type: models.ViolationRLDTooSoon, Message: "RLD too soon (less than 4 weeks)", Severity: models.SeverityWarning})
		}
	}

	if !expansions && hasRLD {
		if v, bad := e.weekdayViolation(rld); bad {
			out = append(out, v)
		}
	}

	if !hasClose || !hasRLD {
		out = append(out, models.Violation{Priority: 6, Type: models.ViolationMissingData, Message: "Missing required dates", Severity: models.SeverityWarning})
	}

	if len(out) == 0 {
		msg := "All rules compliant"
		if expansions {
			msg = "Expansions pipeline - flexible timing"
		}
		return []models.Violation{{Priority: 0, Type: models.ViolationCompliant, Message: msg, Severity: models.SeveritySuccess}}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func (e *Evaluator) weekdayViolation(rld time.Time) (models.Violation, bool) {
	switch rld.Weekday() {
	case time.Monday:
		if e.rules.Holidays.Contains(rld) {
			return models.Violation{Priority: 5, Type: models.ViolationRLDHoliday, Message: "RLD is on a federal holiday", Severity: models.SeverityWarning}, true
		}
		return models.Violation{}, false
	case time.Tuesday:
		if e.rules.Holidays.Contains(addDays(rld, -1)) {
			return models.Violation{}, false
		}
		return models.Violation{Priority: 5, Type: models.ViolationRLDWrongDay, Message: "RLD should be Monday (Tuesday only if Monday is holiday)", Severity: models.SeverityWarning}, true
	default:
		return models.Violation{Priority: 5, Type: models.ViolationRLDWrongDay, Message: "RLD must be on Monday (or Tuesday if Monday is holiday)", Severity: models.SeverityWarning}, true
	}
}
