package service

import (
	"context"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
	"github.com/hisab-app/hisab/internal/storage"
	"github.com/hisab-app/hisab/internal/syncqueue"
)

// SyncApplier translates queued offline operations into ledger store
// writes. It implements syncqueue.Applier.
//
// Error classification matters here: a validation or not-found error
// (the referenced group is gone, the splits do not add up) can never
// succeed and must fail the item terminally, while an unclassified
// storage error is treated as transient I/O that deserves another
// replay pass. Duplicate errors
// pass through untouched; the processor counts them as success.
type SyncApplier struct {
	store storage.Store
}

// NewSyncApplier creates an applier writing to the given storage backend.
func NewSyncApplier(store storage.Store) *SyncApplier {
	return &SyncApplier{store: store}
}

var _ syncqueue.Applier = (*SyncApplier)(nil)

// Apply performs the store write for one queued operation.
func (a *SyncApplier) Apply(ctx context.Context, op syncqueue.Operation) error {
	switch o := op.(type) {
	case *syncqueue.CreateExpense:
		expense := o.Expense
		if err := a.validateExpense(ctx, &expense); err != nil {
			return err
		}
		return classify(a.store.CreateExpense(ctx, &expense))

	case *syncqueue.UpdateExpense:
		expense := o.Expense
		if err := a.validateExpense(ctx, &expense); err != nil {
			return err
		}
		return classify(a.store.UpdateExpense(ctx, &expense))

	case *syncqueue.DeleteExpense:
		err := a.store.DeleteExpense(ctx, o.ExpenseID)
		if errs.IsNotFound(err) {
			// Already deleted; replaying a delete is a no-op.
			return errs.Wrap(errs.KindDuplicate, "expense already deleted", err)
		}
		return classify(err)

	case *syncqueue.CreateGroup:
		group := o.Group
		return classify(a.store.CreateGroup(ctx, &group))

	case *syncqueue.UpdateGroup:
		group := o.Group
		return classify(a.store.UpdateGroup(ctx, &group))

	case *syncqueue.DeleteGroup:
		err := a.store.DeleteGroup(ctx, o.GroupID)
		if errs.IsNotFound(err) {
			return errs.Wrap(errs.KindDuplicate, "group already deleted", err)
		}
		return classify(err)

	default:
		return errs.Newf(errs.KindValidation, "unsupported operation %T", op)
	}
}

// validateExpense re-checks the ledger invariants a queued expense must
// satisfy at apply time. The queue accepts any payload the client built,
// and a group expense queued offline may reference a group that vanished
// or lost a member before the drain. None of these can succeed on a
// later attempt, so they fail the item terminally.
func (a *SyncApplier) validateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Amount <= 0 {
		return errs.New(errs.KindValidation, "expense amount must be positive")
	}
	if len(expense.Splits) == 0 {
		return errs.New(errs.KindValidation, "expense has no splits")
	}
	var sum money.Paise
	for _, split := range expense.Splits {
		sum += split.Amount
	}
	if sum != expense.Amount {
		return errs.Newf(errs.KindValidation, "splits sum to %s, expense amount is %s",
			sum.String(), expense.Amount.String())
	}

	if expense.GroupID == "" {
		return nil
	}
	group, err := a.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return classify(err)
	}
	members := make(map[string]bool, len(group.MemberIDs))
	for _, memberID := range group.MemberIDs {
		members[memberID] = true
	}
	if !members[expense.PaidByID] {
		return errs.Newf(errs.KindValidation, "payer %s is no longer a member of group %s",
			expense.PaidByID, expense.GroupID)
	}
	for _, split := range expense.Splits {
		if !members[split.UserID] {
			return errs.Newf(errs.KindValidation, "participant %s is not a member of group %s",
				split.UserID, expense.GroupID)
		}
	}
	return nil
}

// classify wraps unclassified storage errors as transient I/O so the
// processor retries them; errors that already carry a kind (validation,
// not-found, duplicate) keep it.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != 0 {
		return err
	}
	return errs.Wrap(errs.KindTransientIO, "ledger store write failed", err)
}
