package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rldguard/internal/middleware"
	"rldguard/internal/models"
	"rldguard/internal/services"
)

func actorFromCtx(c *gin.Context) models.Actor {
	actor, _ := middleware.ActorFromContext(c)
	return actor
}

func respond(c *gin.Context, status int, dealID, message string, data any) {
	c.JSON(status, models.Result{Success: true, DealID: dealID, Message: message, Data: data})
}

// fail maps a service error onto an HTTP status and a Result with
// diagnostics. data, when set, carries partial outcomes such as per-field
// write results.
func fail(c *gin.Context, dealID string, err error, data any) {
	status := statusFor(err)
	debug := map[string]any{
		"errorType": fmt.Sprintf("%T", err),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	var crmErr *services.CRMError
	if errors.As(err, &crmErr) {
		debug["crmStatus"] = crmErr.StatusCode
		debug["crmCategory"] = crmErr.Category
		if crmErr.CorrelationID != "" {
			debug["correlationId"] = crmErr.CorrelationID
		}
	}
	if errors.Is(err, services.ErrNoAccessToken) {
		debug["hasAccessToken"] = false
	}

	var nc *services.NonCompliantError
	if errors.As(err, &nc) {
		data = gin.H{
			"rld":            nc.RLD,
			"violations":     nc.Violations,
			"suggested_rld":  nc.SuggestedRLD,
			"allow_override": true,
		}
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[http][err] %s %s deal=%s: %v", c.Request.Method, c.FullPath(), dealID, err)
	}
	c.JSON(status, models.Result{
		Success:   false,
		Error:     err.Error(),
		DealID:    dealID,
		Data:      data,
		DebugInfo: debug,
	})
}

func statusFor(err error) int {
	var nc *services.NonCompliantError
	switch {
	case errors.Is(err, services.ErrDealIDRequired),
		errors.Is(err, services.ErrPropertyRequired),
		errors.Is(err, services.ErrValueRequired),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrNoCloseDate):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrOverrideNotAllowed):
		return http.StatusConflict
	case errors.As(err, &nc):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrAuditDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, services.ErrNoAccessToken):
		return http.StatusServiceUnavailable
	case services.IsNotFound(err):
		return http.StatusNotFound
	}
	var crmErr *services.CRMError
	if errors.As(err, &crmErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
