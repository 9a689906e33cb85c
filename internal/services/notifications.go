package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"rldguard/internal/compliance"
)

// OverrideRequest is what managers are told when a rep asks for an override.
type OverrideRequest struct {
	DealID       string
	DealName     string
	SeatCount    string
	CloseDate    string
	CurrentRLD   string
	SuggestedRLD string
	Violations   []string
	RepName      string
	RepEmail     string
	RequestedBy  string
	RequestDate  string
}

// OverrideDecision is a manager's answer to an override request.
type OverrideDecision struct {
	DealID    string
	DealName  string
	Approved  bool
	Manager   string
	DecidedAt time.Time
}

func (d OverrideDecision) Verb() string {
	if d.Approved {
		return "approve"
	}
	return "deny"
}

// OverrideNotifier announces override requests to managers.
type OverrideNotifier interface {
	Channel() string
	NotifyOverrideRequest(ctx context.Context, req OverrideRequest) error
}

var seatPrinter = message.NewPrinter(language.English)

// FormatSeats renders a seat count with thousands separators.
func FormatSeats(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown"
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return seatPrinter.Sprintf("%d", int64(f))
}

// HumanDate renders a raw CRM date as "Mon, Jun 2, 2025".
func HumanDate(raw string) string {
	t, ok := compliance.ParseDate(raw)
	if !ok {
		return "Not set"
	}
	return t.Format("Mon, Jan 2, 2006")
}

func violationSummary(vs []string) string {
	if len(vs) == 0 {
		return "Multiple violations"
	}
	return strings.Join(vs, ", ")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
