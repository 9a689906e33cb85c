package services

import "rldguard/internal/models"

// Allowed override status transitions for explicit user actions. The
// reconciler clears or auto-approves on its own and does not consult this.
var OverrideTransitions = map[string]map[string]bool{
	models.OverrideNone:     {models.OverridePending: true, models.OverrideApproved: true},
	models.OverridePending:  {models.OverrideApproved: true, models.OverrideDenied: true, models.OverrideNone: true},
	models.OverrideApproved: {models.OverrideNone: true, models.OverridePending: true},
	models.OverrideDenied:   {models.OverridePending: true, models.OverrideApproved: true, models.OverrideNone: true},
}

func canTransition(current, to string, table map[string]map[string]bool) bool {
	if current == "" {
		// an untouched deal behaves like "none"
		current = models.OverrideNone
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}
