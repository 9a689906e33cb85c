package services

import (
	"time"

	"rldguard/internal/compliance"
	"rldguard/internal/models"
)

// Reconciler actions, in the order they can fire.
const (
	ActionClearedDateDrift = "cleared_date_drift"
	ActionAutoApproved     = "auto_approved"
	ActionClearedAuto      = "cleared_stale_auto_approval"
)

// Reconciliation is the outcome of reconciling one deal.
type Reconciliation struct {
	// Changes holds only properties whose value differs from the input deal.
	Changes map[string]string
	Deal    models.Deal
	Actions []string
}

// Reconcile brings the override properties of deal in line with its current
// compliance. Date drift is checked before compliance, and manual approvals
// are only cleared by drift. The policy is re-applied to its own output until
// nothing changes, so reconciling the result again is a no-op.
func Reconcile(deal models.Deal, violations []models.Violation, today time.Time) Reconciliation {
	out := Reconciliation{Changes: map[string]string{}, Deal: deal}
	compliant := models.IsCompliant(violations)
	primary := models.PrimaryViolation(violations)

	// drift clear → auto-approve is the longest chain
	for i := 0; i < 3; i++ {
		changes, action := reconcileStep(out.Deal, compliant, primary, today)
		if len(changes) == 0 {
			break
		}
		for k, v := range changes {
			out.Changes[k] = v
		}
		out.Deal = out.Deal.Apply(changes)
		if action != "" {
			out.Actions = append(out.Actions, action)
		}
	}

	for k, v := range out.Changes {
		if deal.Property(k) == v {
			delete(out.Changes, k)
		}
	}
	return out
}

func reconcileStep(d models.Deal, compliant bool, primary string, today time.Time) (map[string]string, string) {
	changes := map[string]string{}
	set := func(key, value string) {
		if d.Property(key) != value {
			changes[key] = value
		}
	}

	set(models.PropComplianceStatus, primary)

	approved := d.Status() == models.OverrideApproved
	action := ""
	switch {
	case approved && datesDrifted(d):
		clearOverride(set)
		action = ActionClearedDateDrift
	case compliant:
		if !approved {
			set(models.PropOverrideStatus, models.OverrideApproved)
			set(models.PropApprovedBy, models.AutoApprovedActor)
			set(models.PropApprovalDate, compliance.FormatDate(today))
			set(models.PropOverrideGate, models.GateApproved)
			set(models.PropApprovedCloseDate, d.CloseDate)
			set(models.PropApprovedRLD, d.RLD)
			action = ActionAutoApproved
		}
	case approved && d.ApprovedBy == models.AutoApprovedActor:
		clearOverride(set)
		action = ActionClearedAuto
	}

	if len(changes) == 0 {
		action = ""
	}
	return changes, action
}

// datesDrifted reports whether a tracked date moved since approval. A missing
// snapshot is not drift.
func datesDrifted(d models.Deal) bool {
	if d.ApprovedCloseDate != "" && !compliance.SameDate(d.CloseDate, d.ApprovedCloseDate) {
		return true
	}
	return d.ApprovedRLD != "" && !compliance.SameDate(d.RLD, d.ApprovedRLD)
}

func clearOverride(set func(key, value string)) {
	set(models.PropOverrideStatus, models.OverrideNone)
	set(models.PropApprovedBy, "")
	set(models.PropApprovalDate, "")
	set(models.PropRequestedBy, "")
	set(models.PropRequestDate, "")
	set(models.PropOverrideGate, "")
	set(models.PropApprovedCloseDate, "")
	set(models.PropApprovedRLD, "")
}
