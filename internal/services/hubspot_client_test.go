package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHubSpotGetProperties(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/crm/v3/objects/deals/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("properties"); got != "closedate,requested_launch_date" {
			t.Errorf("unexpected properties %q", got)
		}
		if r.Header.Get("Authorization") != "Bearer pat-1" {
			t.Errorf("missing bearer token")
		}
		_, _ = io.WriteString(w, `{"id":"42","properties":{"closedate":"2025-06-02T00:00:00Z","requested_launch_date":null}}`)
	}))
	defer srv.Close()

	c := NewHubSpotClient(srv.URL+"/", "pat-1", srv.Client())
	props, err := c.GetProperties(context.Background(), "42", []string{"closedate", "requested_launch_date"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if props["closedate"] != "2025-06-02T00:00:00Z" {
		t.Fatalf("unexpected closedate %q", props["closedate"])
	}
	if v, ok := props["requested_launch_date"]; !ok || v != "" {
		t.Fatalf("null property should map to empty string")
	}
}

func TestHubSpotUpdatePropertiesBatches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		var body struct {
			Properties map[string]string `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(body.Properties) != 2 || body.Properties["override_request_status"] != "pending" {
			t.Errorf("unexpected body %v", body.Properties)
		}
		_, _ = io.WriteString(w, `{"id":"42","properties":{},"updatedAt":"2025-05-01T10:00:00Z"}`)
	}))
	defer srv.Close()

	c := NewHubSpotClient(srv.URL, "pat-1", srv.Client())
	err := c.UpdateProperties(context.Background(), "42", map[string]string{
		"override_request_status": "pending",
		"override_approved_by":    "",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestHubSpotErrorIsTagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":"error","message":"Object not found. objectId are usually numeric.","category":"OBJECT_NOT_FOUND","correlationId":"abc"}`)
	}))
	defer srv.Close()

	c := NewHubSpotClient(srv.URL, "pat-1", srv.Client())
	_, err := c.GetProperties(context.Background(), "nope", nil)

	var crmErr *CRMError
	if !errors.As(err, &crmErr) {
		t.Fatalf("expected CRMError, got %v", err)
	}
	if crmErr.Category != "OBJECT_NOT_FOUND" || crmErr.CorrelationID != "abc" {
		t.Fatalf("unexpected error %+v", crmErr)
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not found")
	}
}

func TestHubSpotRequiresToken(t *testing.T) {
	c := NewHubSpotClient("http://127.0.0.1:0", "", nil)
	if _, err := c.GetProperties(context.Background(), "1", nil); !errors.Is(err, ErrNoAccessToken) {
		t.Fatalf("expected ErrNoAccessToken, got %v", err)
	}
	if err := c.UpdateProperties(context.Background(), "1", map[string]string{"a": "b"}); !errors.Is(err, ErrNoAccessToken) {
		t.Fatalf("expected ErrNoAccessToken, got %v", err)
	}
}
