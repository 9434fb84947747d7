package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisab-app/hisab/internal/middleware"
	"github.com/hisab-app/hisab/internal/models"
)

// CreateExpense records a new expense and its splits.
func (h *Handler) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// ListExpenses returns every expense the caller paid or participates in.
func (h *Handler) ListExpenses(c *gin.Context) {
	expenses, err := h.expenses.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": toExpenseResponses(expenses)})
}

// ListGroupExpenses returns a group's expenses.
func (h *Handler) ListGroupExpenses(c *gin.Context) {
	expenses, err := h.expenses.ListByGroup(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": toExpenseResponses(expenses)})
}

// GetExpense returns one expense the caller is a party to.
func (h *Handler) GetExpense(c *gin.Context) {
	expense, err := h.expenses.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense replaces an expense's details and splits.
func (h *Handler) UpdateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense soft-deletes an expense.
func (h *Handler) DeleteExpense(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toExpenseResponses(expenses []*models.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out
}
