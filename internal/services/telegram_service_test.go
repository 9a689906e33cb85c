package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rldguard/internal/models"
)

func fakeTelegram(t *testing.T, sent *[]map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"rldguard","username":"rldguard_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = r.ParseForm()
			*sent = append(*sent, map[string]string{
				"chat_id":    r.FormValue("chat_id"),
				"text":       r.FormValue("text"),
				"parse_mode": r.FormValue("parse_mode"),
			})
			_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":-100,"type":"group"}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTelegramMirrorsOverrideRequest(t *testing.T) {
	var sent []map[string]string
	srv := fakeTelegram(t, &sent)

	tg, err := NewTelegramServiceWithEndpoint("123:abc", -100, srv.URL+"/bot%s/%s", srv.Client())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if tg.Channel() != "telegram" {
		t.Fatalf("unexpected channel %q", tg.Channel())
	}

	err = tg.NotifyOverrideRequest(context.Background(), OverrideRequest{
		DealID:       "42",
		DealName:     "Acme <Renewal>",
		RepName:      "Rae Rep",
		CloseDate:    "2025-06-02",
		CurrentRLD:   "2025-06-10",
		SuggestedRLD: "2025-06-30",
		Violations:   []string{"RLD must be at least 4 weeks after close date"},
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	msg := sent[0]
	if msg["chat_id"] != "-100" || msg["parse_mode"] != "HTML" {
		t.Fatalf("unexpected message %v", msg)
	}
	if !strings.Contains(msg["text"], "Acme &lt;Renewal&gt;") || !strings.Contains(msg["text"], "Mon, Jun 30, 2025") {
		t.Fatalf("unexpected text %q", msg["text"])
	}
}

func TestTelegramWithoutChatReportsNotConfigured(t *testing.T) {
	var tg *TelegramService
	if err := tg.NotifyOverrideRequest(context.Background(), OverrideRequest{DealID: "42"}); !errors.Is(err, ErrTelegramNotConfigured) {
		t.Fatalf("expected ErrTelegramNotConfigured, got %v", err)
	}
	unset := &TelegramService{}
	if err := unset.NotifyOverrideRequest(context.Background(), OverrideRequest{DealID: "42"}); !errors.Is(err, ErrTelegramNotConfigured) {
		t.Fatalf("expected ErrTelegramNotConfigured, got %v", err)
	}
}

func TestUnconfiguredTelegramIsNotReportedAsNotified(t *testing.T) {
	f := newFixture(t, map[string]string{
		models.PropCloseDate: "2025-06-02",
		models.PropRLD:       "2025-06-10",
	})
	f.svc.notifiers = []OverrideNotifier{f.slack, &TelegramService{}}

	out, err := f.svc.RequestOverride(context.Background(), "42", rep, "")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(out.Notified) != 1 || out.Notified[0] != "slack" {
		t.Fatalf("expected only slack, got %v", out.Notified)
	}
}
