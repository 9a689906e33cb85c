package models

import "strings"

// Actor is the person acting on a deal, as identified by the CRM card token
// or by a Slack interaction.
type Actor struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Teams     []string `json:"teams"`
}

func (a Actor) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Label renders "First Last (email)" as stored in requested_by/approved_by.
func (a Actor) Label() string {
	name := a.FullName()
	if name == "" {
		name = a.ID
	}
	if a.Email == "" {
		return name
	}
	return name + " (" + a.Email + ")"
}
