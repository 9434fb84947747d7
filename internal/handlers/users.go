package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisab-app/hisab/internal/middleware"
	"github.com/hisab-app/hisab/internal/service"
)

// GetMe returns the authenticated user's profile.
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	UPIID string `json:"upi_id"`
}

// UpdateMe updates the authenticated user's profile.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), service.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
		UPIID: req.UPIID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetUser returns another user's profile by ID.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
