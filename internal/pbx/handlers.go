package pbx

import (
	"errors"
	"net/http"
	"strconv"

	"helpline-crm/internal/users"
	"helpline-crm/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Svc *Service
}

// Webhook receives call events from the PBX dial plan. It is the only
// unauthenticated mutation surface; a shared secret in the query string
// stands in for bearer auth.
func (h Handlers) Webhook(c *gin.Context) {
	if !h.Svc.VerifySecret(c.Query("secret")) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook secret"})
		return
	}

	var ev WebhookEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	log := logger.FromGin(c)
	log.Info("freepbx call event received", "event_type", ev.EventType, "caller_id", ev.CallerID)

	res, err := h.Svc.HandleEvent(c.Request.Context(), ev)
	if err != nil {
		writeError(c, err)
		return
	}

	log.Info("call event recorded", "call_event_id", res.CallEventID, "redirect", res.RedirectURL)
	c.JSON(http.StatusOK, res)
}

func (h Handlers) ListEvents(c *gin.Context) {
	viewer, _ := users.Current(c)

	f := EventFilter{AgentID: c.Query("agent_id")}
	if raw := c.Query("processed"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.Processed = &v
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.Limit = v
		}
	}

	out, err := h.Svc.ListEvents(c.Request.Context(), viewer, f)
	if err != nil {
		writeError(c, err)
		return
	}
	if out == nil {
		out = []CallEvent{}
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) GetEvent(c *gin.Context) {
	ev, err := h.Svc.Get(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h Handlers) MarkProcessed(c *gin.Context) {
	if err := h.Svc.MarkProcessed(c.Request.Context(), c.Param("event_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Call event marked as processed"})
}

func (h Handlers) Pending(c *gin.Context) {
	viewer, _ := users.Current(c)
	out, err := h.Svc.Pending(c.Request.Context(), viewer)
	if err != nil {
		writeError(c, err)
		return
	}
	if out == nil {
		out = []CallEvent{}
	}
	c.JSON(http.StatusOK, out)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Call event not found"})
	default:
		logger.FromGin(c).Error("pbx handler failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
