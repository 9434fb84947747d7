package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/ledger"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
	"github.com/hisab-app/hisab/internal/service"
)

// Wire representations. Amounts are decimal strings, timestamps Unix
// seconds.

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	UPIID     string `json:"upi_id,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		UPIID:     u.UPIID,
		CreatedAt: u.CreatedAt,
	}
}

type groupResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	CreatedBy   string   `json:"created_by"`
	MemberIDs   []string `json:"member_ids"`
	CreatedAt   int64    `json:"created_at"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Category:    g.Category,
		CreatedBy:   g.CreatedBy,
		MemberIDs:   g.MemberIDs,
		CreatedAt:   g.CreatedAt,
	}
}

type splitRequest struct {
	UserID     string `json:"user_id"`
	Amount     string `json:"amount,omitempty"`
	Percentage string `json:"percentage,omitempty"`
	Shares     int64  `json:"shares,omitempty"`
}

type expenseRequest struct {
	ID          string         `json:"id,omitempty"`
	GroupID     string         `json:"group_id,omitempty"`
	PaidByID    string         `json:"paid_by_id,omitempty"`
	Amount      string         `json:"amount"`
	Currency    string         `json:"currency,omitempty"`
	Description string         `json:"description"`
	Category    string         `json:"category,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	SplitType   string         `json:"split_type,omitempty"`
	Splits      []splitRequest `json:"splits,omitempty"`
	ExpenseDate int64          `json:"expense_date,omitempty"`
}

func (r expenseRequest) toInput() (service.ExpenseInput, error) {
	amount, err := money.Parse(r.Amount)
	if err != nil {
		return service.ExpenseInput{}, errs.Wrap(errs.KindValidation, "invalid amount", err)
	}

	splits := make([]ledger.SplitInput, 0, len(r.Splits))
	for _, s := range r.Splits {
		in := ledger.SplitInput{UserID: s.UserID, Shares: s.Shares}
		if s.Amount != "" {
			if in.Amount, err = money.Parse(s.Amount); err != nil {
				return service.ExpenseInput{}, errs.Wrap(errs.KindValidation, "invalid split amount", err)
			}
		}
		if s.Percentage != "" {
			if in.Percentage, err = decimal.NewFromString(s.Percentage); err != nil {
				return service.ExpenseInput{}, errs.Wrap(errs.KindValidation, "invalid split percentage", err)
			}
		}
		splits = append(splits, in)
	}

	return service.ExpenseInput{
		ID:          r.ID,
		GroupID:     r.GroupID,
		PaidByID:    r.PaidByID,
		Amount:      amount,
		Currency:    r.Currency,
		Description: r.Description,
		Category:    r.Category,
		Notes:       r.Notes,
		ExpenseDate: r.ExpenseDate,
		SplitType:   models.SplitType(r.SplitType),
		Splits:      splits,
	}, nil
}

type splitResponse struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id,omitempty"`
	PaidByID    string          `json:"paid_by_id"`
	Amount      string          `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Notes       string          `json:"notes,omitempty"`
	SplitType   string          `json:"split_type"`
	Splits      []splitResponse `json:"splits"`
	ExpenseDate int64           `json:"expense_date"`
	CreatedAt   int64           `json:"created_at"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	splits := make([]splitResponse, 0, len(e.Splits))
	for _, s := range e.Splits {
		splits = append(splits, splitResponse{UserID: s.UserID, Amount: s.Amount.String()})
	}
	return expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidByID:    e.PaidByID,
		Amount:      e.Amount.String(),
		Currency:    e.Currency,
		Description: e.Description,
		Category:    e.Category,
		Notes:       e.Notes,
		SplitType:   string(e.SplitType),
		Splits:      splits,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}

type settlementRequest struct {
	ID             string `json:"id,omitempty"`
	GroupID        string `json:"group_id,omitempty"`
	FromUserID     string `json:"from_user_id,omitempty"`
	ToUserID       string `json:"to_user_id"`
	Amount         string `json:"amount"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (r settlementRequest) toInput() (service.SettlementInput, error) {
	amount, err := money.Parse(r.Amount)
	if err != nil {
		return service.SettlementInput{}, errs.Wrap(errs.KindValidation, "invalid amount", err)
	}
	return service.SettlementInput{
		ID:             r.ID,
		GroupID:        r.GroupID,
		FromUserID:     r.FromUserID,
		ToUserID:       r.ToUserID,
		Amount:         amount,
		PaymentMethod:  models.PaymentMethod(r.PaymentMethod),
		TransactionRef: r.TransactionRef,
		Notes:          r.Notes,
	}, nil
}

type settlementResponse struct {
	ID             string `json:"id"`
	GroupID        string `json:"group_id,omitempty"`
	FromUserID     string `json:"from_user_id"`
	ToUserID       string `json:"to_user_id"`
	Amount         string `json:"amount"`
	PaymentMethod  string `json:"payment_method"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:             s.ID,
		GroupID:        s.GroupID,
		FromUserID:     s.FromUserID,
		ToUserID:       s.ToUserID,
		Amount:         s.Amount.String(),
		PaymentMethod:  string(s.PaymentMethod),
		TransactionRef: s.TransactionRef,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
	}
}

type balanceResponse struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

func toBalanceResponses(balances []ledger.Balance) []balanceResponse {
	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceResponse{UserID: b.UserID, Amount: b.Amount.String()})
	}
	return out
}

type summaryResponse struct {
	TotalExpenses  string `json:"total_expenses"`
	YourTotalPaid  string `json:"your_total_paid"`
	YourTotalShare string `json:"your_total_share"`
}

func toSummaryResponse(s *service.GroupSummary) summaryResponse {
	return summaryResponse{
		TotalExpenses:  s.TotalExpenses.String(),
		YourTotalPaid:  s.TotalPaid.String(),
		YourTotalShare: s.TotalShare.String(),
	}
}

type transferResponse struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
}

func toTransferResponses(transfers []ledger.Transfer) []transferResponse {
	out := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, transferResponse{
			FromUserID: t.FromUserID,
			ToUserID:   t.ToUserID,
			Amount:     t.Amount.String(),
		})
	}
	return out
}
