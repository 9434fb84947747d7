package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisab-app/hisab/internal/middleware"
	"github.com/hisab-app/hisab/internal/service"
)

type createGroupRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
}

// CreateGroup creates a group with the caller as a member.
func (h *Handler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.groups.Create(c.Request.Context(), middleware.GetUserID(c), service.CreateGroupInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGroupResponse(group))
}

// ListGroups returns all groups the caller belongs to.
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// GetGroup returns one group the caller belongs to.
func (h *Handler) GetGroup(c *gin.Context) {
	group, err := h.groups.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGroupResponse(group))
}

type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateGroup updates a group's details.
func (h *Handler) UpdateGroup(c *gin.Context) {
	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.groups.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), service.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGroupResponse(group))
}

// DeleteGroup soft-deletes a group. Creator only.
func (h *Handler) DeleteGroup(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addMembersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// AddGroupMembers adds members to a group.
func (h *Handler) AddGroupMembers(c *gin.Context) {
	var req addMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	group, err := h.groups.AddMembers(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.UserIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGroupResponse(group))
}

// RemoveGroupMember removes one member from a group.
func (h *Handler) RemoveGroupMember(c *gin.Context) {
	err := h.groups.RemoveMember(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
