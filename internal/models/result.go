package models

import "time"

// Result is the envelope every endpoint answers with.
type Result struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	DealID    string         `json:"dealId,omitempty"`
	Message   string         `json:"message,omitempty"`
	Data      any            `json:"data,omitempty"`
	DebugInfo map[string]any `json:"debugInfo,omitempty"`
}

// PropertyResult is the outcome of writing one CRM property.
type PropertyResult struct {
	Property string `json:"property"`
	Value    string `json:"value"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Succeeded collects the properties that were written.
func Succeeded(results []PropertyResult) map[string]string {
	out := make(map[string]string, len(results))
	for _, r := range results {
		if r.Success {
			out[r.Property] = r.Value
		}
	}
	return out
}

// OverrideEvent is one audit record of an override state change.
type OverrideEvent struct {
	ID         string    `json:"id"`
	DealID     string    `json:"deal_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason"`
	CloseDate  string    `json:"close_date"`
	RLD        string    `json:"rld"`
	CreatedAt  time.Time `json:"created_at"`
}
