package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"rldguard/internal/services"
)

type DealHandler struct {
	Service *services.DealService
}

func NewDealHandler(service *services.DealService) *DealHandler {
	return &DealHandler{Service: service}
}

type updatePropertiesRequest struct {
	Property   string             `json:"property"`
	Value      *string            `json:"value"`
	Properties map[string]*string `json:"properties"`
}

type setRLDRequest struct {
	RLD    string `json:"rld" binding:"required"`
	Reason string `json:"reason"`
}

type overrideRequest struct {
	Reason string `json:"reason"`
}

// @Summary      Deal properties
// @Description  Reads CRM properties of a deal (default card set, or ?properties=a,b)
// @Tags         Deals
// @Produce      json
// @Param        id          path   string  true   "Deal ID"
// @Param        properties  query  string  false  "Comma separated property names"
// @Success      200  {object}  models.Result
// @Failure      404  {object}  models.Result
// @Router       /deals/{id} [get]
func (h *DealHandler) Get(c *gin.Context) {
	id := c.Param("id")
	var keys []string
	if raw := strings.TrimSpace(c.Query("properties")); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	props, err := h.Service.GetProperties(c.Request.Context(), id, keys)
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "", gin.H{"properties": props})
}

// @Summary      Update deal properties
// @Description  Writes one property ({property, value}) or several ({properties: {...}}) in one batch
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Deal ID"
// @Param        body  body  updatePropertiesRequest  true  "Properties"
// @Success      200  {object}  models.Result
// @Failure      400  {object}  models.Result
// @Failure      403  {object}  models.Result
// @Failure      502  {object}  models.Result
// @Router       /deals/{id}/properties [patch]
func (h *DealHandler) UpdateProperties(c *gin.Context) {
	id := c.Param("id")
	var req updatePropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "dealId": id})
		return
	}

	var updates []services.PropertyUpdate
	if req.Property != "" || req.Value != nil {
		updates = append(updates, services.PropertyUpdate{Property: req.Property, Value: req.Value})
	}
	names := make([]string, 0, len(req.Properties))
	for k := range req.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		updates = append(updates, services.PropertyUpdate{Property: k, Value: req.Properties[k]})
	}

	out, err := h.Service.UpdateProperties(c.Request.Context(), id, actorFromCtx(c), updates)
	if err != nil {
		var data any
		if len(out.Results) > 0 {
			data = out
		}
		fail(c, id, err, data)
		return
	}
	respond(c, http.StatusOK, id, fmt.Sprintf("%d properties updated", len(out.Results)), out)
}

// @Summary      Compliance status
// @Description  Evaluates the RLD rules without writing anything
// @Tags         Compliance
// @Produce      json
// @Param        id  path  string  true  "Deal ID"
// @Success      200  {object}  models.Result
// @Router       /deals/{id}/compliance [get]
func (h *DealHandler) Compliance(c *gin.Context) {
	id := c.Param("id")
	view, err := h.Service.Compliance(c.Request.Context(), id, actorFromCtx(c))
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "", view)
}

// @Summary      Reconcile approval state
// @Description  Syncs override properties with current compliance in one CRM write
// @Tags         Compliance
// @Produce      json
// @Param        id  path  string  true  "Deal ID"
// @Success      200  {object}  models.Result
// @Router       /deals/{id}/reconcile [post]
func (h *DealHandler) Reconcile(c *gin.Context) {
	id := c.Param("id")
	out, err := h.Service.Reconcile(c.Request.Context(), id, actorFromCtx(c))
	if err != nil {
		fail(c, id, err, out)
		return
	}
	respond(c, http.StatusOK, id, "", out)
}

// @Summary      Use suggested RLD
// @Tags         Compliance
// @Produce      json
// @Param        id  path  string  true  "Deal ID"
// @Success      200  {object}  models.Result
// @Router       /deals/{id}/rld/suggested [post]
func (h *DealHandler) ApplySuggested(c *gin.Context) {
	id := c.Param("id")
	out, err := h.Service.ApplySuggestedRLD(c.Request.Context(), id, actorFromCtx(c))
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "requested launch date set to "+out.Deal.RLD, out)
}

// @Summary      Set custom RLD
// @Description  Writes the date only when compliant; otherwise answers 422 with violations
// @Tags         Compliance
// @Accept       json
// @Produce      json
// @Param        id    path  string         true  "Deal ID"
// @Param        body  body  setRLDRequest  true  "Launch date"
// @Success      200  {object}  models.Result
// @Failure      422  {object}  models.Result
// @Router       /deals/{id}/rld [post]
func (h *DealHandler) SetRLD(c *gin.Context) {
	id := c.Param("id")
	var req setRLDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "dealId": id})
		return
	}
	out, err := h.Service.SetRLD(c.Request.Context(), id, actorFromCtx(c), req.RLD)
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "requested launch date set to "+out.Deal.RLD, out)
}

// @Summary      Set RLD and request override
// @Tags         Overrides
// @Accept       json
// @Produce      json
// @Param        id    path  string         true  "Deal ID"
// @Param        body  body  setRLDRequest  true  "Launch date"
// @Success      200  {object}  models.Result
// @Failure      409  {object}  models.Result
// @Router       /deals/{id}/rld/override [post]
func (h *DealHandler) SetRLDWithOverride(c *gin.Context) {
	id := c.Param("id")
	var req setRLDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "dealId": id})
		return
	}
	out, err := h.Service.SetRLDWithOverride(c.Request.Context(), id, actorFromCtx(c), req.RLD, req.Reason)
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "override requested", out)
}

// @Summary      Request override
// @Tags         Overrides
// @Accept       json
// @Produce      json
// @Param        id    path  string           true   "Deal ID"
// @Param        body  body  overrideRequest  false  "Reason"
// @Success      200  {object}  models.Result
// @Failure      409  {object}  models.Result
// @Router       /deals/{id}/override/request [post]
func (h *DealHandler) RequestOverride(c *gin.Context) {
	id := c.Param("id")
	var req overrideRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "dealId": id})
			return
		}
	}
	out, err := h.Service.RequestOverride(c.Request.Context(), id, actorFromCtx(c), req.Reason)
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "override requested", out)
}

// @Summary      Approve override
// @Tags         Overrides
// @Produce      json
// @Param        id  path  string  true  "Deal ID"
// @Success      200  {object}  models.Result
// @Failure      403  {object}  models.Result
// @Router       /deals/{id}/override/approve [post]
func (h *DealHandler) Approve(c *gin.Context) {
	id := c.Param("id")
	out, err := h.Service.ApproveOverride(c.Request.Context(), id, actorFromCtx(c))
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "override approved", out)
}

// @Summary      Deny override
// @Tags         Overrides
// @Produce      json
// @Param        id  path  string  true  "Deal ID"
// @Success      200  {object}  models.Result
// @Failure      403  {object}  models.Result
// @Router       /deals/{id}/override/deny [post]
func (h *DealHandler) Deny(c *gin.Context) {
	id := c.Param("id")
	out, err := h.Service.DenyOverride(c.Request.Context(), id, actorFromCtx(c))
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "override denied", out)
}

// @Summary      Compliance report
// @Tags         Compliance
// @Produce      application/pdf
// @Param        id  path  string  true  "Deal ID"
// @Success      200  {file}  file
// @Router       /deals/{id}/report.pdf [get]
func (h *DealHandler) Report(c *gin.Context) {
	id := c.Param("id")
	b, err := h.Service.ReportPDF(c.Request.Context(), id)
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"rld-compliance-%s.pdf\"", id))
	c.Data(http.StatusOK, "application/pdf", b)
}

// @Summary      Override history
// @Tags         Overrides
// @Produce      json
// @Param        id     path   string  true   "Deal ID"
// @Param        limit  query  int     false  "Max events"
// @Success      200  {object}  models.Result
// @Failure      501  {object}  models.Result
// @Router       /deals/{id}/overrides [get]
func (h *DealHandler) History(c *gin.Context) {
	id := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.Service.History(c.Request.Context(), id, limit)
	if err != nil {
		fail(c, id, err, nil)
		return
	}
	respond(c, http.StatusOK, id, "", gin.H{"events": events})
}
