package calls

import (
	"errors"
	"fmt"
	"net/http"

	"helpline-crm/internal/users"
	"helpline-crm/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Svc *Service
}

type createRequest struct {
	CallerNumber    string  `json:"caller_number" binding:"required"`
	Duration        int     `json:"duration"`
	Notes           *string `json:"notes"`
	CallType        string  `json:"call_type"`
	Priority        string  `json:"priority"`
	Status          string  `json:"status"`
	ResolutionNotes *string `json:"resolution_notes"`
	ContactID       string  `json:"contact_id"`
}

type updateRequest struct {
	Duration        *int    `json:"duration"`
	Notes           *string `json:"notes"`
	CallType        *string `json:"call_type"`
	Priority        *string `json:"priority"`
	Status          *string `json:"status"`
	ResolutionNotes *string `json:"resolution_notes"`
}

func filterFromQuery(c *gin.Context) Filter {
	return Filter{
		Search:   c.Query("search"),
		CallType: c.Query("call_type"),
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
}

func (h Handlers) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if out == nil {
		out = []Call{}
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Defaults for the free-text classification fields.
	if req.CallType == "" {
		req.CallType = "inquiry"
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}
	if req.Status == "" {
		req.Status = "completed"
	}

	agent, ok := users.Current(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	call, err := h.Svc.Create(c.Request.Context(), agent.ID, agent.Name, CreateParams{
		CallerNumber:    req.CallerNumber,
		Duration:        req.Duration,
		Notes:           req.Notes,
		CallType:        req.CallType,
		Priority:        req.Priority,
		Status:          req.Status,
		ResolutionNotes: req.ResolutionNotes,
		ContactID:       req.ContactID,
	}, c.Query("call_event_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

func (h Handlers) Get(c *gin.Context) {
	call, err := h.Svc.Get(c.Request.Context(), c.Param("call_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

func (h Handlers) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	call, err := h.Svc.Update(c.Request.Context(), c.Param("call_id"), Patch{
		Duration:        req.Duration,
		Notes:           req.Notes,
		CallType:        req.CallType,
		Priority:        req.Priority,
		Status:          req.Status,
		ResolutionNotes: req.ResolutionNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

func (h Handlers) Stats(c *gin.Context) {
	out, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) ExportCSV(c *gin.Context) {
	body, filename, err := h.Svc.ExportCSV(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", body)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Call not found"})
	default:
		logger.FromGin(c).Error("calls handler failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
