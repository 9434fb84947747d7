// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/hisab-app/hisab/internal/models"
)

// Store defines the ledger store: the single authoritative record of
// users, groups, expenses, splits, and settlements.
//
// This abstraction allows swapping storage backends without changing the
// service layer. Implementations must offer per-record atomic writes;
// multi-record transactions across unrelated records are not assumed by
// callers. Soft deletion is a flag update, and every query applies the
// active-record predicate uniformly: soft-deleted rows never come back
// from list or point-read calls.
//
// Create calls take records whose IDs may be client-generated (offline
// sync assigns the durable ID at enqueue time). Creating a record whose
// ID already exists must return an errs.KindDuplicate error and change
// nothing, so replaying a queued create after a crash is a no-op.
type Store interface {
	// UpsertUser creates or refreshes a user profile.
	UpsertUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// CreateGroup persists a group and its initial membership.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its membership populated.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser returns the active groups the user belongs to.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup updates a group's name, description, and category.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup soft-deletes a group.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers appends members to a group. Existing members are
	// left untouched.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// RemoveGroupMember removes one member from a group.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// IsGroupMember reports whether the user belongs to the group.
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)

	// CreateExpense persists an expense together with its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an active expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an expense and its splits.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense soft-deletes an expense.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup returns the active expenses of a group, oldest
	// first, splits populated.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListExpensesByUser returns the active expenses the user paid or
	// participates in, across all groups and personal expenses.
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// CreateSettlement persists a settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup returns the active settlements of a group.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ListSettlementsByUser returns the active settlements the user paid
	// or received.
	ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error)

	// DeleteSettlement soft-deletes a settlement.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
