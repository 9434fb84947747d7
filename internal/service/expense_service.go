package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/ledger"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
	"github.com/hisab-app/hisab/internal/storage"
)

// ExpenseService manages expenses and their splits.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// ExpenseInput carries the fields for creating or replacing an expense.
type ExpenseInput struct {
	// ID is optional; offline creates carry their client-generated UUID.
	ID string

	// GroupID is empty for a personal or 1-on-1 expense.
	GroupID string

	// PaidByID defaults to the caller when empty.
	PaidByID string

	Amount      money.Paise
	Currency    string
	Description string
	Category    string
	Notes       string
	ExpenseDate int64

	// SplitType and Splits describe how the amount divides. A nil Splits
	// with SplitEqual means "just the payer".
	SplitType models.SplitType
	Splits    []ledger.SplitInput
}

// buildExpense validates in and computes the splits, without touching
// the store.
func (s *ExpenseService) buildExpense(ctx context.Context, callerID string, in ExpenseInput) (*models.Expense, error) {
	if in.Description == "" {
		return nil, errs.New(errs.KindValidation, "expense description required")
	}

	paidBy := in.PaidByID
	if paidBy == "" {
		paidBy = callerID
	}
	splitType := in.SplitType
	if splitType == "" {
		splitType = models.SplitEqual
	}
	inputs := in.Splits
	if len(inputs) == 0 {
		inputs = []ledger.SplitInput{{UserID: paidBy}}
	}

	// A group expense may only involve group members: the payer and
	// every split participant must be members at creation time.
	if in.GroupID != "" {
		group, err := s.store.GetGroup(ctx, in.GroupID)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(group.MemberIDs, callerID) {
			return nil, errs.New(errs.KindPermission, "you must be a member of this group")
		}
		if !slices.Contains(group.MemberIDs, paidBy) {
			return nil, errs.Newf(errs.KindValidation, "payer %s is not a member of group %s", paidBy, in.GroupID)
		}
		for _, si := range inputs {
			if !slices.Contains(group.MemberIDs, si.UserID) {
				return nil, errs.Newf(errs.KindValidation, "participant %s is not a member of group %s", si.UserID, in.GroupID)
			}
		}
	}

	shares, err := ledger.BuildSplits(in.Amount, splitType, inputs)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:          in.ID,
		GroupID:     in.GroupID,
		PaidByID:    paidBy,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Description: in.Description,
		Category:    in.Category,
		Notes:       in.Notes,
		SplitType:   splitType,
		ExpenseDate: in.ExpenseDate,
	}
	for _, share := range shares {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			UserID: share.UserID,
			Amount: share.Amount,
		})
	}
	return expense, nil
}

// Create validates and persists a new expense.
func (s *ExpenseService) Create(ctx context.Context, callerID string, in ExpenseInput) (*models.Expense, error) {
	expense, err := s.buildExpense(ctx, callerID, in)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"paid_by", expense.PaidByID,
		"amount", expense.Amount.String(),
		"participants", len(expense.Splits),
	)
	return expense, nil
}

// Get retrieves an expense the caller participates in.
func (s *ExpenseService) Get(ctx context.Context, callerID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !s.isParty(expense, callerID) {
		return nil, errs.New(errs.KindPermission, "you must be a participant of this expense")
	}
	return expense, nil
}

// Update replaces an expense. Only the payer or a split participant of
// the existing record may edit it.
func (s *ExpenseService) Update(ctx context.Context, callerID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	if _, err := s.Get(ctx, callerID, expenseID); err != nil {
		return nil, err
	}

	in.ID = expenseID
	expense, err := s.buildExpense(ctx, callerID, in)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.Info("Expense updated", "expense_id", expenseID, "user_id", callerID, "amount", expense.Amount.String())
	return expense, nil
}

// Delete soft-deletes an expense, hiding it from all balance
// computation. Only the payer or a split participant may delete it.
func (s *ExpenseService) Delete(ctx context.Context, callerID, expenseID string) error {
	if _, err := s.Get(ctx, callerID, expenseID); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "user_id", callerID)
	return nil
}

// ListByGroup returns a group's active expenses. Members only.
func (s *ExpenseService) ListByGroup(ctx context.Context, callerID, groupID string) ([]*models.Expense, error) {
	member, err := s.store.IsGroupMember(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errs.New(errs.KindPermission, "you must be a member of this group")
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// ListForUser returns every active expense the caller paid or shares in.
func (s *ExpenseService) ListForUser(ctx context.Context, callerID string) ([]*models.Expense, error) {
	return s.store.ListExpensesByUser(ctx, callerID)
}

func (s *ExpenseService) isParty(expense *models.Expense, userID string) bool {
	if expense.PaidByID == userID {
		return true
	}
	for _, split := range expense.Splits {
		if split.UserID == userID {
			return true
		}
	}
	return false
}
