package authz

import "rldguard/internal/models"

// Policy decides who may approve or deny RLD overrides: either an explicit
// user id (CRM user id or Slack user id) or membership of an allowed team.
type Policy struct {
	userIDs map[string]struct{}
	teams   map[string]struct{}
}

func NewPolicy(userIDs, teams []string) *Policy {
	p := &Policy{userIDs: map[string]struct{}{}, teams: map[string]struct{}{}}
	for _, id := range userIDs {
		p.userIDs[id] = struct{}{}
	}
	for _, t := range teams {
		p.teams[t] = struct{}{}
	}
	return p
}

func (p *Policy) CanApprove(actor models.Actor) bool {
	if p == nil {
		return false
	}
	if _, ok := p.userIDs[actor.ID]; ok && actor.ID != "" {
		return true
	}
	for _, t := range actor.Teams {
		if _, ok := p.teams[t]; ok {
			return true
		}
	}
	return false
}
