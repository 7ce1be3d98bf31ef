package contacts

import (
	"errors"
	"net/http"

	"helpline-crm/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Svc *Service
}

type createRequest struct {
	PhoneNumber string   `json:"phone_number" binding:"required"`
	Name        *string  `json:"name"`
	Email       *string  `json:"email"`
	Address     *string  `json:"address"`
	Company     *string  `json:"company"`
	Tags        []string `json:"tags"`
}

type updateRequest struct {
	PhoneNumber *string   `json:"phone_number"`
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	Address     *string   `json:"address"`
	Company     *string   `json:"company"`
	Tags        *[]string `json:"tags"`
}

func (h Handlers) List(c *gin.Context) {
	f := Filter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
	}
	out, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	if out == nil {
		out = []Contact{}
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	contact, err := h.Svc.Create(c.Request.Context(), CreateParams{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		Company:     req.Company,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// GetByPhone is a presence check used by the agent UI before creating a
// contact; absence is a normal answer, not a 404.
func (h Handlers) GetByPhone(c *gin.Context) {
	contact, found, err := h.Svc.GetByPhone(c.Request.Context(), c.Param("phone_number"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": found, "contact": contact})
}

func (h Handlers) Get(c *gin.Context) {
	contact, err := h.Svc.Get(c.Request.Context(), c.Param("contact_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h Handlers) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	contact, err := h.Svc.Update(c.Request.Context(), c.Param("contact_id"), Patch{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		Company:     req.Company,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h Handlers) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("contact_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
	case errors.Is(err, ErrPhoneTaken):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Contact with this phone number already exists"})
	default:
		logger.FromGin(c).Error("contacts handler failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
