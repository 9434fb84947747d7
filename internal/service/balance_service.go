package service

import (
	"context"
	"log/slog"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/ledger"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
	"github.com/hisab-app/hisab/internal/storage"
)

// BalanceService answers "who owes whom". It reads the current ledger
// snapshot on demand and hands it to the pure engine; nothing is cached
// or maintained incrementally, so a freshly recorded settlement shows up
// on the next read.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// ComputeBalances returns the caller's signed net position against each
// counterparty. With a groupID the snapshot is that group's expenses and
// settlements; with an empty groupID it spans everything the caller is
// involved in, personal expenses included.
func (s *BalanceService) ComputeBalances(ctx context.Context, callerID, groupID string) ([]ledger.Balance, error) {
	expenses, settlements, err := s.snapshot(ctx, callerID, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.ComputeBalances(callerID, expenses, settlements), nil
}

// GroupSummary totals a group's expenses from one member's point of
// view: everything the group spent, what the member paid out of pocket,
// and what the member's splits add up to.
type GroupSummary struct {
	TotalExpenses money.Paise
	TotalPaid     money.Paise
	TotalShare    money.Paise
}

// GroupBalances returns the caller's per-member balances in a group
// together with the group's expense totals, from a single snapshot.
func (s *BalanceService) GroupBalances(ctx context.Context, callerID, groupID string) ([]ledger.Balance, *GroupSummary, error) {
	if groupID == "" {
		return nil, nil, errs.New(errs.KindValidation, "group id required")
	}
	expenses, settlements, err := s.snapshot(ctx, callerID, groupID)
	if err != nil {
		return nil, nil, err
	}

	summary := &GroupSummary{}
	for _, expense := range expenses {
		summary.TotalExpenses += expense.Amount
		if expense.PaidByID == callerID {
			summary.TotalPaid += expense.Amount
		}
		for _, split := range expense.Splits {
			if split.UserID == callerID {
				summary.TotalShare += split.Amount
			}
		}
	}
	return ledger.ComputeBalances(callerID, expenses, settlements), summary, nil
}

// ProposeSettlementPlan suggests the transfers that would bring every
// balance in the group to zero, fewest first by greedy matching.
func (s *BalanceService) ProposeSettlementPlan(ctx context.Context, callerID, groupID string) ([]ledger.Transfer, error) {
	if groupID == "" {
		return nil, errs.New(errs.KindValidation, "group id required")
	}
	expenses, settlements, err := s.snapshot(ctx, callerID, groupID)
	if err != nil {
		return nil, err
	}

	net := ledger.NetBalances(expenses, settlements)
	plan, err := ledger.SimplifyDebts(net)
	if err != nil {
		// A corrupted ledger is an operator problem, not a user one.
		slog.Error("Settlement plan failed consistency check", "group_id", groupID, "error", err)
		return nil, err
	}
	return plan, nil
}

// snapshot loads the active expenses and settlements for one scope,
// verifying group membership for group scopes.
func (s *BalanceService) snapshot(ctx context.Context, callerID, groupID string) (
	[]*models.Expense, []*models.Settlement, error,
) {
	if groupID != "" {
		member, err := s.store.IsGroupMember(ctx, groupID, callerID)
		if err != nil {
			return nil, nil, err
		}
		if !member {
			return nil, nil, errs.New(errs.KindPermission, "you must be a member of this group")
		}

		expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
		if err != nil {
			return nil, nil, err
		}
		settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
		if err != nil {
			return nil, nil, err
		}
		return expenses, settlements, nil
	}

	expenses, err := s.store.ListExpensesByUser(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.store.ListSettlementsByUser(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}
	return expenses, settlements, nil
}
