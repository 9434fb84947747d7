package models

import "github.com/hisab-app/hisab/internal/money"

// PaymentMethod says how a settlement was paid in the real world.
type PaymentMethod string

const (
	PaymentUPI          PaymentMethod = "upi"
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOther        PaymentMethod = "other"
)

// Settlement records a payment between members to clear debt.
//
// It is an additive ledger entry: it reduces balances without touching
// the expense history that produced them.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID scopes the settlement to a group. Optional.
	GroupID string

	// FromUserID is the payer (debtor settling up).
	FromUserID string

	// ToUserID is the payee (creditor being paid).
	ToUserID string

	// Amount is the payment amount, in minor units. Always positive.
	Amount money.Paise

	// PaymentMethod says how the money actually moved.
	PaymentMethod PaymentMethod

	// TransactionRef is an optional external reference, e.g. a UPI
	// transaction ID.
	TransactionRef string

	// Notes is optional free text.
	Notes string

	// IsActive is false once the settlement is soft-deleted.
	IsActive bool

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
