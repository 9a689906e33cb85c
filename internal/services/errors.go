package services

import (
	"errors"
	"fmt"

	"rldguard/internal/models"
)

var (
	ErrDealIDRequired     = errors.New("Deal ID is required")
	ErrPropertyRequired   = errors.New("Property name is required")
	ErrValueRequired      = errors.New("Property value is required")
	ErrForbidden          = errors.New("not allowed to decide RLD overrides")
	ErrInvalidTransition  = errors.New("invalid override status transition")
	ErrInvalidDate        = errors.New("invalid date")
	ErrNoCloseDate        = errors.New("close date is required to suggest a launch date")
	ErrAuditDisabled      = errors.New("override history is not configured")
	ErrOverrideNotAllowed = errors.New("override can only be requested for a non-compliant deal without a pending or approved override")
	ErrProtectedProperty  = errors.New("override properties are managed by /deals/:id/override/*")
)

// NonCompliantError rejects a launch date that breaks the rules. The caller
// may still request an override for it.
type NonCompliantError struct {
	RLD          string
	Violations   []models.Violation
	SuggestedRLD string
}

func (e *NonCompliantError) Error() string {
	return fmt.Sprintf("requested launch date %s is not compliant: %s", e.RLD, models.PrimaryViolation(e.Violations))
}
