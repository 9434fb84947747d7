// Package syncqueue implements the client-resident offline mutation
// queue and the processor that replays it against the ledger store.
//
// Mutations issued while the device is offline are appended here,
// durably, and replayed in order once connectivity returns. Each queued
// create carries a client-generated UUID that becomes the durable record
// ID on replay, so reapplying the same item after a crash is a no-op.
package syncqueue

import (
	"encoding/json"
	"fmt"

	"github.com/hisab-app/hisab/internal/models"
)

// OpKind identifies a queued operation type.
type OpKind string

const (
	OpCreateExpense OpKind = "create_expense"
	OpUpdateExpense OpKind = "update_expense"
	OpDeleteExpense OpKind = "delete_expense"
	OpCreateGroup   OpKind = "create_group"
	OpUpdateGroup   OpKind = "update_group"
	OpDeleteGroup   OpKind = "delete_group"
)

// Operation is a queued mutation. Each kind carries a strongly-typed
// payload so the processor can match exhaustively instead of poking at
// loose maps.
type Operation interface {
	OpKind() OpKind
}

// CreateExpense creates an expense with precomputed splits. Expense.ID
// is the client-generated sync ID.
type CreateExpense struct {
	Expense models.Expense `json:"expense"`
}

// UpdateExpense replaces an expense. It may reference the synthetic ID
// of an earlier queued create; FIFO replay guarantees the create lands
// first.
type UpdateExpense struct {
	Expense models.Expense `json:"expense"`
}

// DeleteExpense soft-deletes an expense.
type DeleteExpense struct {
	ExpenseID string `json:"expense_id"`
}

// CreateGroup creates a group with its initial membership. Group.ID is
// the client-generated sync ID.
type CreateGroup struct {
	Group models.Group `json:"group"`
}

// UpdateGroup replaces a group's editable fields.
type UpdateGroup struct {
	Group models.Group `json:"group"`
}

// DeleteGroup soft-deletes a group.
type DeleteGroup struct {
	GroupID string `json:"group_id"`
}

func (CreateExpense) OpKind() OpKind { return OpCreateExpense }
func (UpdateExpense) OpKind() OpKind { return OpUpdateExpense }
func (DeleteExpense) OpKind() OpKind { return OpDeleteExpense }
func (CreateGroup) OpKind() OpKind   { return OpCreateGroup }
func (UpdateGroup) OpKind() OpKind   { return OpUpdateGroup }
func (DeleteGroup) OpKind() OpKind   { return OpDeleteGroup }

// decodeOperation rebuilds the typed operation from its stored kind and
// JSON payload.
func decodeOperation(kind OpKind, payload []byte) (Operation, error) {
	var op Operation
	switch kind {
	case OpCreateExpense:
		op = &CreateExpense{}
	case OpUpdateExpense:
		op = &UpdateExpense{}
	case OpDeleteExpense:
		op = &DeleteExpense{}
	case OpCreateGroup:
		op = &CreateGroup{}
	case OpUpdateGroup:
		op = &UpdateGroup{}
	case OpDeleteGroup:
		op = &DeleteGroup{}
	default:
		return nil, fmt.Errorf("unknown operation kind %q", kind)
	}
	if err := json.Unmarshal(payload, op); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", kind, err)
	}
	return op, nil
}
