package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/middleware"
	"github.com/hisab-app/hisab/internal/money"
)

// CreateSettlement records a payment between two users.
func (h *Handler) CreateSettlement(c *gin.Context) {
	var req settlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	settlement, err := h.settlements.Record(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSettlementResponse(settlement))
}

// ListSettlements returns the caller's settlements, optionally filtered
// by ?group_id=.
func (h *Handler) ListSettlements(c *gin.Context) {
	settlements, err := h.settlements.List(c.Request.Context(), middleware.GetUserID(c), c.Query("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]settlementResponse, 0, len(settlements))
	for _, s := range settlements {
		out = append(out, toSettlementResponse(s))
	}
	c.JSON(http.StatusOK, gin.H{"settlements": out})
}

// DeleteSettlement soft-deletes a settlement the caller is a party to.
func (h *Handler) DeleteSettlement(c *gin.Context) {
	if err := h.settlements.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSettlementPlan returns the minimal transfer set that clears a
// group's balances.
func (h *Handler) GetSettlementPlan(c *gin.Context) {
	transfers, err := h.balances.ProposeSettlementPlan(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": toTransferResponses(transfers)})
}

// GetUPILink builds a upi:// deep link for paying another user.
// Query params: payee_id (required), amount (required), group_id.
func (h *Handler) GetUPILink(c *gin.Context) {
	payeeID := c.Query("payee_id")
	if payeeID == "" {
		respondError(c, errs.New(errs.KindValidation, "payee_id is required"))
		return
	}
	amount, err := money.Parse(c.Query("amount"))
	if err != nil {
		respondError(c, errs.Wrap(errs.KindValidation, "invalid amount", err))
		return
	}

	info, err := h.settlements.UPILink(c.Request.Context(), middleware.GetUserID(c), payeeID, amount, c.Query("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payee_name":       info.PayeeName,
		"amount":           info.Amount.String(),
		"transaction_note": info.TransactionNote,
		"link":             info.Link,
	})
}
