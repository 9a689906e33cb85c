package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rldguard/internal/models"
	"rldguard/internal/services"
)

const slackMaxSkew = 5 * time.Minute

type SlackHandler struct {
	Deals         *services.DealService
	Slack         *services.SlackService
	SigningSecret string
	now           func() time.Time
}

func NewSlackHandler(deals *services.DealService, slack *services.SlackService, signingSecret string) *SlackHandler {
	return &SlackHandler{Deals: deals, Slack: slack, SigningSecret: signingSecret, now: time.Now}
}

type slackUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	RealName string `json:"real_name"`
}

type slackAction struct {
	ActionID string `json:"action_id"`
	Value    string `json:"value"`
}

type slackInteraction struct {
	Type        string        `json:"type"`
	User        slackUser     `json:"user"`
	Actions     []slackAction `json:"actions"`
	ResponseURL string        `json:"response_url"`
}

// @Summary      Slack interactive actions
// @Description  Approve/Deny buttons from the override request message
// @Tags         Integrations
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        payload  formData  string  true  "Slack interaction payload"
// @Success      200  {object}  models.Result
// @Failure      400  {object}  models.Result
// @Failure      401  {object}  models.Result
// @Router       /integrations/slack/actions [post]
func (h *SlackHandler) Actions(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Result{Error: "cannot read body"})
		return
	}
	if !h.verify(c.GetHeader("X-Slack-Request-Timestamp"), c.GetHeader("X-Slack-Signature"), body) {
		log.Printf("[slack][actions] bad signature")
		c.JSON(http.StatusUnauthorized, models.Result{Error: "invalid Slack signature"})
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Result{Error: "invalid form body"})
		return
	}
	var in slackInteraction
	if err := json.Unmarshal([]byte(form.Get("payload")), &in); err != nil || len(in.Actions) == 0 {
		c.JSON(http.StatusBadRequest, models.Result{Error: "No Slack actions found in payload"})
		return
	}

	verb, dealID, ok := parseActionValue(in.Actions[0].Value)
	if !ok {
		// link buttons such as "View Deal" post an action without a decision
		c.JSON(http.StatusOK, models.Result{Success: true, Message: "ignored action " + in.Actions[0].ActionID})
		return
	}

	manager := firstNonEmpty(in.User.Name, in.User.RealName, in.User.Username, "Manager")
	actor := models.Actor{ID: in.User.ID, FirstName: manager}
	log.Printf("[slack][actions] %s deal=%s by=%q (%s)", verb, dealID, manager, in.User.ID)

	ctx := c.Request.Context()
	var out services.OverrideOutcome
	if verb == "approve" {
		out, err = h.Deals.ApproveOverride(ctx, dealID, actor)
	} else {
		out, err = h.Deals.DenyOverride(ctx, dealID, actor)
	}
	if err != nil {
		// Slack needs a 200 here or it hides the ephemeral text behind its own error.
		log.Printf("[slack][actions][err] %s deal=%s status=%d: %v", verb, dealID, statusFor(err), err)
		h.ephemeral(ctx, in.ResponseURL, fmt.Sprintf("Could not %s the override for deal %s: %v", verb, dealID, err))
		c.JSON(http.StatusOK, models.Result{Success: false, Error: err.Error(), DealID: dealID})
		return
	}

	if err := h.Slack.ReplaceOriginal(ctx, in.ResponseURL, *out.Decision); err != nil {
		log.Printf("[slack][replace][err] deal=%s: %v", dealID, err)
	}
	c.JSON(http.StatusOK, models.Result{
		Success: true,
		DealID:  dealID,
		Message: fmt.Sprintf("Override %s processed successfully", verb),
		Data:    gin.H{"action": verb, "manager": manager},
	})
}

// verify checks Slack's v0 request signature and rejects stale timestamps.
func (h *SlackHandler) verify(timestamp, signature string, body []byte) bool {
	if h.SigningSecret == "" || timestamp == "" || signature == "" {
		return false
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	skew := h.now().Sub(time.Unix(ts, 0))
	if skew > slackMaxSkew || skew < -slackMaxSkew {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(SlackSignature(h.SigningSecret, timestamp, body)))
}

// SlackSignature computes the X-Slack-Signature value for body.
func SlackSignature(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	var base bytes.Buffer
	base.WriteString("v0:")
	base.WriteString(timestamp)
	base.WriteString(":")
	base.Write(body)
	mac.Write(base.Bytes())
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func (h *SlackHandler) ephemeral(ctx context.Context, responseURL, text string) {
	if responseURL == "" {
		return
	}
	msg := map[string]any{"response_type": "ephemeral", "replace_original": false, "text": text}
	if _, err := h.Slack.Post(ctx, responseURL, msg); err != nil {
		log.Printf("[slack][ephemeral][err] %v", err)
	}
}

// parseActionValue splits "approve_39542884170" into verb and deal id.
func parseActionValue(v string) (verb, dealID string, ok bool) {
	verb, dealID, found := strings.Cut(v, "_")
	if !found || dealID == "" || (verb != "approve" && verb != "deny") {
		return "", "", false
	}
	return verb, dealID, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
