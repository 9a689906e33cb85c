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
	"net/url"
	"strings"
	"time"
)

var ErrNoAccessToken = errors.New("no access token found")

// DealStore is the narrow CRM contract the workflow needs.
type DealStore interface {
	GetProperties(ctx context.Context, dealID string, keys []string) (map[string]string, error)
	UpdateProperties(ctx context.Context, dealID string, props map[string]string) error
}

// CRMError is a failed CRM call, tagged with what HubSpot reported.
type CRMError struct {
	StatusCode    int
	Category      string
	Message       string
	CorrelationID string
}

func (e *CRMError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("hubspot %d %s: %s", e.StatusCode, e.Category, e.Message)
	}
	return fmt.Sprintf("hubspot %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a CRM 404.
func IsNotFound(err error) bool {
	var crmErr *CRMError
	return errors.As(err, &crmErr) && crmErr.StatusCode == http.StatusNotFound
}

type HubSpotClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHubSpotClient(baseURL, accessToken string, client *http.Client) *HubSpotClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HubSpotClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   accessToken,
		client:  client,
	}
}

type hsObject struct {
	ID         string             `json:"id"`
	Properties map[string]*string `json:"properties"`
	UpdatedAt  string             `json:"updatedAt"`
}

type hsError struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Category      string `json:"category"`
	CorrelationID string `json:"correlationId"`
}

func (h *HubSpotClient) GetProperties(ctx context.Context, dealID string, keys []string) (map[string]string, error) {
	if h.token == "" {
		return nil, ErrNoAccessToken
	}
	endpoint := fmt.Sprintf("%s/crm/v3/objects/deals/%s", h.baseURL, url.PathEscape(dealID))
	if len(keys) > 0 {
		endpoint += "?properties=" + url.QueryEscape(strings.Join(keys, ","))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	log.Printf("[hubspot][get] deal=%s props=%d", dealID, len(keys))
	var obj hsObject
	if err := h.do(req, &obj); err != nil {
		log.Printf("[hubspot][get][err] deal=%s: %v", dealID, err)
		return nil, err
	}

	props := make(map[string]string, len(obj.Properties))
	for k, v := range obj.Properties {
		if v != nil {
			props[k] = *v
		} else {
			props[k] = ""
		}
	}
	return props, nil
}

// UpdateProperties writes all props in one PATCH, so HubSpot applies them
// together or not at all.
func (h *HubSpotClient) UpdateProperties(ctx context.Context, dealID string, props map[string]string) error {
	if h.token == "" {
		return ErrNoAccessToken
	}
	body, err := json.Marshal(map[string]any{"properties": props})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/crm/v3/objects/deals/%s", h.baseURL, url.PathEscape(dealID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[hubspot][update] deal=%s props=%d", dealID, len(props))
	var obj hsObject
	if err := h.do(req, &obj); err != nil {
		log.Printf("[hubspot][update][err] deal=%s: %v", dealID, err)
		return err
	}
	log.Printf("[hubspot][update] deal=%s updated_at=%s", dealID, obj.UpdatedAt)
	return nil
}

func (h *HubSpotClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("hubspot request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("hubspot read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr hsError
		_ = json.Unmarshal(raw, &apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &CRMError{
			StatusCode:    resp.StatusCode,
			Category:      apiErr.Category,
			Message:       msg,
			CorrelationID: apiErr.CorrelationID,
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("hubspot decode: %w", err)
	}
	return nil
}
