package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisab-app/hisab/internal/middleware"
)

// GetBalances returns the caller's net position against every other
// user, across all their expenses and settlements.
func (h *Handler) GetBalances(c *gin.Context) {
	balances, err := h.balances.ComputeBalances(c.Request.Context(), middleware.GetUserID(c), "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": toBalanceResponses(balances)})
}

// GetGroupBalances returns the caller's net position within one group,
// alongside the group's expense totals.
func (h *Handler) GetGroupBalances(c *gin.Context) {
	balances, summary, err := h.balances.GroupBalances(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balances": toBalanceResponses(balances),
		"summary":  toSummaryResponse(summary),
	})
}
