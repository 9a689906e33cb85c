package models

// Violation types.
const (
	ViolationCompliant      = "compliant"
	ViolationClosePast      = "close_date_past"
	ViolationRLDPast        = "rld_past"
	ViolationRLDBeforeClose = "rld_before_close"
	ViolationRLDTooSoon     = "rld_too_soon"
	ViolationRLDWrongDay    = "rld_wrong_day"
	ViolationRLDHoliday     = "rld_holiday"
	ViolationMissingData    = "missing_data"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeveritySuccess = "success"
)

type Violation struct {
	Priority int    `json:"priority"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// IsCompliant reports whether vs is the single compliant marker.
func IsCompliant(vs []Violation) bool {
	return len(vs) == 1 && vs[0].Type == ViolationCompliant
}

// PrimaryViolation returns the type of the most severe violation, or
// "compliant" when there is none. vs must be sorted by priority.
func PrimaryViolation(vs []Violation) string {
	for _, v := range vs {
		if v.Type != ViolationCompliant {
			return v.Type
		}
	}
	return ViolationCompliant
}

// NeedsRLDFix reports whether any violation can be fixed by moving the RLD.
func NeedsRLDFix(vs []Violation) bool {
	for _, v := range vs {
		switch v.Type {
		case ViolationRLDBeforeClose, ViolationRLDTooSoon, ViolationRLDWrongDay, ViolationRLDHoliday, ViolationRLDPast:
			return true
		}
	}
	return false
}

// Messages returns the messages of all non-compliant entries.
func Messages(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v.Type == ViolationCompliant {
			continue
		}
		out = append(out, v.Message)
	}
	return out
}
