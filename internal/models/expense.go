package models

import "github.com/hisab-app/hisab/internal/money"

// SplitType says how an expense is divided among its participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly among participants.
	SplitEqual SplitType = "equal"
	// SplitExact uses caller-provided per-participant amounts.
	SplitExact SplitType = "exact"
	// SplitPercentage divides by per-participant percentages summing to 100.
	SplitPercentage SplitType = "percentage"
	// SplitShares divides proportionally to per-participant share counts.
	SplitShares SplitType = "shares"
)

// Expense records a single payment made on behalf of one or more people.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format). For
	// expenses created offline this is the client-generated sync ID, which
	// becomes the durable ID on replay.
	ID string

	// GroupID is the owning group. Empty means a personal (non-group)
	// expense involving only the payer.
	GroupID string

	// PaidByID is the user who paid the full amount.
	PaidByID string

	// Amount is the total paid, in minor units.
	Amount money.Paise

	// Currency is the ISO code, e.g. "INR". The engine is single-currency;
	// the code is stored for display only.
	Currency string

	// Description says what the expense was for.
	Description string

	// Category organizes expenses: food, transport, sports, rent, other.
	Category string

	// Notes is optional free text.
	Notes string

	// SplitType records how Splits were derived.
	SplitType SplitType

	// Splits is each participant's share. Invariant: the split amounts sum
	// exactly to Amount. Populated on reads.
	Splits []ExpenseSplit

	// ExpenseDate is when the expense happened (Unix), which may differ
	// from CreatedAt.
	ExpenseDate int64

	// IsActive is false once the expense is soft-deleted. Inactive
	// expenses are invisible to balance computation.
	IsActive bool

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}

// ExpenseSplit is one participant's owed share of an expense.
type ExpenseSplit struct {
	// ExpenseID is the owning expense.
	ExpenseID string

	// UserID is the participant this share belongs to.
	UserID string

	// Amount is the participant's share, in minor units.
	Amount money.Paise
}
