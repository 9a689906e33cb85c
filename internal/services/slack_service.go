package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

var ErrNoWebhookURL = errors.New("no webhook URL")

type SlackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type SlackButton struct {
	Type     string    `json:"type"`
	Text     SlackText `json:"text"`
	URL      string    `json:"url,omitempty"`
	ActionID string    `json:"action_id"`
	Value    string    `json:"value,omitempty"`
	Style    string    `json:"style,omitempty"`
}

type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Fields   []SlackText `json:"fields,omitempty"`
	Elements []any       `json:"elements,omitempty"`
}

type SlackMessage struct {
	Text            string       `json:"text"`
	Blocks          []SlackBlock `json:"blocks"`
	ReplaceOriginal bool         `json:"replace_original,omitempty"`
}

func mrkdwn(text string) SlackText { return SlackText{Type: "mrkdwn", Text: text} }

func plain(text string) *SlackText { return &SlackText{Type: "plain_text", Text: text, Emoji: true} }

func section(text string) SlackBlock {
	t := mrkdwn(text)
	return SlackBlock{Type: "section", Text: &t}
}

type SlackService struct {
	webhookURL  string
	portalID    string
	interactive bool
	location    *time.Location
	client      *http.Client
}

// NewSlackService posts to an incoming webhook. With interactive set the
// override request carries Approve/Deny buttons handled by the Slack
// interaction endpoint.
func NewSlackService(webhookURL, portalID string, interactive bool, location *time.Location, client *http.Client) *SlackService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if location == nil {
		location = time.UTC
	}
	return &SlackService{
		webhookURL:  webhookURL,
		portalID:    portalID,
		interactive: interactive,
		location:    location,
		client:      client,
	}
}

// Post sends payload as JSON to url and returns the HTTP status.
func (s *SlackService) Post(ctx context.Context, url string, payload any) (int, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[slack][post][err] http: %v", err)
		return 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	log.Printf("[slack][post] http_status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("slack api error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.StatusCode, nil
}

func (s *SlackService) Channel() string { return "slack" }

func (s *SlackService) NotifyOverrideRequest(ctx context.Context, req OverrideRequest) error {
	if s == nil || s.webhookURL == "" {
		log.Printf("[slack][skip] webhook url empty (deal=%s)", req.DealID)
		return ErrNoWebhookURL
	}
	log.Printf("[slack][override-request] deal=%s rep=%q", req.DealID, req.RepName)
	_, err := s.Post(ctx, s.webhookURL, s.OverrideRequestMessage(req))
	return err
}

// ReplaceOriginal rewrites the message a Slack interaction came from.
func (s *SlackService) ReplaceOriginal(ctx context.Context, responseURL string, d OverrideDecision) error {
	if responseURL == "" {
		return nil
	}
	msg := s.DecisionMessage(d)
	msg.ReplaceOriginal = true
	log.Printf("[slack][replace] deal=%s decision=%s", d.DealID, d.Verb())
	_, err := s.Post(ctx, responseURL, msg)
	return err
}

func (s *SlackService) DealURL(dealID string) string {
	return fmt.Sprintf("https://app.hubspot.com/contacts/%s/deal/%s", s.portalID, dealID)
}

func (s *SlackService) OverrideRequestMessage(req OverrideRequest) SlackMessage {
	name := orDefault(req.DealName, "Unknown Deal")

	actions := []any{
		SlackButton{Type: "button", Text: *plain("🔗 View Deal in HubSpot"), URL: s.DealURL(req.DealID), ActionID: "view_deal_button"},
	}
	if s.interactive {
		actions = append(actions,
			SlackButton{Type: "button", Text: *plain("✅ Approve"), ActionID: "approve_override", Value: "approve_" + req.DealID, Style: "primary"},
			SlackButton{Type: "button", Text: *plain("❌ Deny"), ActionID: "deny_override", Value: "deny_" + req.DealID, Style: "danger"},
		)
	}

	return SlackMessage{
		Text: fmt.Sprintf("🆘 Override Request - %s requires approval", orDefault(req.DealName, "Deal")),
		Blocks: []SlackBlock{
			{Type: "header", Text: plain("🆘 OVERRIDE REQUEST - Deal Compliance")},
			section(fmt.Sprintf("*📋 Deal:* %s", name)),
			{Type: "section", Fields: []SlackText{
				mrkdwn(fmt.Sprintf("*💰 Seats:* %s", FormatSeats(req.SeatCount))),
				mrkdwn(fmt.Sprintf("*👤 Rep:* %s", orDefault(req.RepName, "Unknown Rep"))),
			}},
			{Type: "section", Fields: []SlackText{
				mrkdwn(fmt.Sprintf("*📅 Close Date:* %s", HumanDate(req.CloseDate))),
				mrkdwn(fmt.Sprintf("*🚨 Violation:* %s", violationSummary(req.Violations))),
				mrkdwn(fmt.Sprintf("*📍 Current RLD:* %s", HumanDate(req.CurrentRLD))),
				mrkdwn(fmt.Sprintf("*💡 Suggested RLD:* %s", HumanDate(req.SuggestedRLD))),
			}},
			{Type: "divider"},
			section(fmt.Sprintf("⚠️ *Action Required:* Please review and approve this override request.\n\n*Status:* ⏳ Pending Approval\n*Requested by:* %s\n*Request date:* %s",
				req.RequestedBy, HumanDate(req.RequestDate))),
			{Type: "actions", Elements: actions},
		},
	}
}

func (s *SlackService) DecisionMessage(d OverrideDecision) SlackMessage {
	icon, word, next := "❌", "Denied", "❌ *Deal closure remains blocked.* The sales rep should adjust dates or request a new override."
	if d.Approved {
		icon, word, next = "✅", "Approved", "✅ *Deal can now be closed won.* The sales rep has been notified."
	}
	deal := orDefault(d.DealName, "Deal #"+d.DealID)
	decidedAt := d.DecidedAt.In(s.location).Format("Jan 2, 2006 3:04 PM MST")

	return SlackMessage{
		Text: fmt.Sprintf("%s Override %s - Deal #%s", icon, word, d.DealID),
		Blocks: []SlackBlock{
			{Type: "header", Text: plain(fmt.Sprintf("%s OVERRIDE %s - Deal Compliance", icon, strings.ToUpper(word)))},
			section(fmt.Sprintf("%s *Override %s* by %s\n\n*Deal:* %s\n*Decision made at:* %s", icon, strings.ToUpper(word), d.Manager, deal, decidedAt)),
			section(next),
			{Type: "context", Elements: []any{mrkdwn(fmt.Sprintf("Deal ID: %s | Manager: %s", d.DealID, d.Manager))}},
		},
	}
}
