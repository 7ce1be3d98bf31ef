package users

import (
	"errors"
	"net/http"

	"helpline-crm/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes admin user management over HTTP. Role gating happens in
// the route chain (admin only); self-protection rules live in the service.
type Handlers struct {
	Svc *Service
}

type adminCreateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin supervisor agent"`
}

type adminUpdateRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin supervisor agent"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
	Extension *string `json:"extension"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

func (h Handlers) List(c *gin.Context) {
	f := Filter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
	}
	out, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	if out == nil {
		out = []User{}
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) Create(c *gin.Context) {
	var req adminCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	role := Role(req.Role)
	if role == "" {
		role = RoleAgent
	}

	u, err := h.Svc.Create(c.Request.Context(), req.Email, req.Password, req.Name, role)
	if err != nil {
		writeError(c, err)
		return
	}

	actor, _ := Current(c)
	if actor != nil {
		logger.FromGin(c).Info("admin created user",
			"admin", actor.Email, "user", u.Email, "role", u.Role)
	}
	c.JSON(http.StatusOK, u)
}

func (h Handlers) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handlers) Update(c *gin.Context) {
	var req adminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p := Patch{Name: req.Name, Email: req.Email, Extension: req.Extension}
	if req.Role != nil {
		role := Role(*req.Role)
		p.Role = &role
	}
	if req.Status != nil {
		status := Status(*req.Status)
		p.Status = &status
	}

	actor, _ := Current(c)
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}

	u, err := h.Svc.Update(c.Request.Context(), actorID, c.Param("user_id"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handlers) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), c.Param("user_id"), req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h Handlers) Delete(c *gin.Context) {
	actor, _ := Current(c)
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	if err := h.Svc.Delete(c.Request.Context(), actorID, c.Param("user_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h Handlers) Stats(c *gin.Context) {
	out, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
	case errors.Is(err, ErrSelfRoleChange):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
	case errors.Is(err, ErrSelfDeactivate):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
	case errors.Is(err, ErrSelfDelete):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
	case errors.Is(err, ErrPasswordTooShort):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
	default:
		logger.FromGin(c).Error("users handler failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
