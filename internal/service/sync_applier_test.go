package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/syncqueue"
)

func newTestSyncQueue(t *testing.T) *syncqueue.Queue {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "hisab-applier-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	q, err := syncqueue.Open(filepath.Join(tempDir, "queue.db"))
	if err != nil {
		t.Fatalf("Failed to open queue: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	return q
}

func TestSyncApplier(t *testing.T) {
	store := newTestStore(t)
	applier := NewSyncApplier(store)
	ctx := context.Background()
	seedUsers(t, store, "alice", "bob")
	group := seedGroup(t, store, "Flat 402", "alice", "bob")

	t.Run("create expense lands in the store", func(t *testing.T) {
		err := applier.Apply(ctx, &syncqueue.CreateExpense{Expense: models.Expense{
			ID:          "offline-e1",
			GroupID:     group.ID,
			PaidByID:    "alice",
			Amount:      10000,
			Description: "Groceries",
			Splits: []models.ExpenseSplit{
				{UserID: "alice", Amount: 5000},
				{UserID: "bob", Amount: 5000},
			},
		}})
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		got, err := store.GetExpense(ctx, "offline-e1")
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Amount != 10000 || len(got.Splits) != 2 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("splits that do not sum to the amount fail terminally", func(t *testing.T) {
		err := applier.Apply(ctx, &syncqueue.CreateExpense{Expense: models.Expense{
			ID:          "offline-bad-sum",
			GroupID:     group.ID,
			PaidByID:    "alice",
			Amount:      10000,
			Description: "Short splits",
			Splits: []models.ExpenseSplit{
				{UserID: "alice", Amount: 3000},
				{UserID: "bob", Amount: 3000},
			},
		}})
		if errs.KindOf(err) != errs.KindValidation {
			t.Fatalf("error kind = %v, want validation", errs.KindOf(err))
		}
		if _, err := store.GetExpense(ctx, "offline-bad-sum"); !errs.IsNotFound(err) {
			t.Errorf("GetExpense = %v, want not found; the bad expense was persisted", err)
		}
		// The group ledger must still net to zero for the planner.
		if _, err := NewBalanceService(store).ProposeSettlementPlan(ctx, "alice", group.ID); err != nil {
			t.Errorf("ProposeSettlementPlan failed: %v", err)
		}
	})

	t.Run("split participant outside the group fails terminally", func(t *testing.T) {
		err := applier.Apply(ctx, &syncqueue.CreateExpense{Expense: models.Expense{
			ID:          "offline-outsider",
			GroupID:     group.ID,
			PaidByID:    "alice",
			Amount:      10000,
			Description: "Outsider split",
			Splits: []models.ExpenseSplit{
				{UserID: "alice", Amount: 5000},
				{UserID: "mallory", Amount: 5000},
			},
		}})
		if errs.KindOf(err) != errs.KindValidation {
			t.Fatalf("error kind = %v, want validation", errs.KindOf(err))
		}
		if _, err := store.GetExpense(ctx, "offline-outsider"); !errs.IsNotFound(err) {
			t.Errorf("GetExpense = %v, want not found; the bad expense was persisted", err)
		}
	})

	t.Run("replayed create reports duplicate", func(t *testing.T) {
		err := applier.Apply(ctx, &syncqueue.CreateExpense{Expense: models.Expense{
			ID:          "offline-e1",
			GroupID:     group.ID,
			PaidByID:    "alice",
			Amount:      99999,
			Description: "Replayed",
			Splits:      []models.ExpenseSplit{{UserID: "alice", Amount: 99999}},
		}})
		if !errs.IsDuplicate(err) {
			t.Errorf("error = %v, want duplicate", err)
		}
	})

	t.Run("expense for a vanished group fails validation", func(t *testing.T) {
		err := applier.Apply(ctx, &syncqueue.CreateExpense{Expense: models.Expense{
			GroupID:     "no-such-group",
			PaidByID:    "alice",
			Amount:      1000,
			Description: "Orphan",
			Splits:      []models.ExpenseSplit{{UserID: "alice", Amount: 1000}},
		}})
		if errs.KindOf(err) != errs.KindNotFound {
			t.Errorf("error kind = %v, want not found", errs.KindOf(err))
		}
	})

	t.Run("payer who left the group fails validation", func(t *testing.T) {
		if err := store.RemoveGroupMember(ctx, group.ID, "bob"); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		err := applier.Apply(ctx, &syncqueue.CreateExpense{Expense: models.Expense{
			GroupID:     group.ID,
			PaidByID:    "bob",
			Amount:      1000,
			Description: "Late",
			Splits:      []models.ExpenseSplit{{UserID: "bob", Amount: 1000}},
		}})
		if errs.KindOf(err) != errs.KindValidation {
			t.Errorf("error kind = %v, want validation", errs.KindOf(err))
		}
	})

	t.Run("deleting an already deleted record is a duplicate", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, "offline-e1"); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		err := applier.Apply(ctx, &syncqueue.DeleteExpense{ExpenseID: "offline-e1"})
		if !errs.IsDuplicate(err) {
			t.Errorf("error = %v, want duplicate", err)
		}
	})
}

// TestOfflineRoundTrip drives the full offline path: enqueue while
// "offline", drain against the store, crash before the queue forgot the
// item, drain again, and verify exactly one record exists.
func TestOfflineRoundTrip(t *testing.T) {
	store := newTestStore(t)
	q := newTestSyncQueue(t)
	ctx := context.Background()
	seedUsers(t, store, "alice", "bob")
	group := seedGroup(t, store, "Flat 402", "alice", "bob")

	processor := syncqueue.NewProcessor(q, NewSyncApplier(store))

	// Offline: record an expense locally.
	item, err := q.Enqueue(ctx, &syncqueue.CreateExpense{Expense: models.Expense{
		GroupID:     group.ID,
		PaidByID:    "alice",
		Amount:      20000,
		Description: "Cylinder refill",
		Splits: []models.ExpenseSplit{
			{UserID: "alice", Amount: 10000},
			{UserID: "bob", Amount: 10000},
		},
	}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	// Back online: first drain applies it.
	result, err := processor.Drain(ctx)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if result.Completed != 1 {
		t.Fatalf("result = %+v, want Completed=1", result)
	}

	expense, err := store.GetExpense(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if expense.ID != item.ID {
		t.Errorf("expense ID = %q, want the sync ID %q", expense.ID, item.ID)
	}

	// Simulate the crash window: the write landed but the queue row was
	// not removed. Re-enqueueing the same payload and draining again
	// must not double-book.
	if _, err := q.Enqueue(ctx, &syncqueue.CreateExpense{Expense: *expense}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	result, err = processor.Drain(ctx)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if result.Completed != 1 || result.Failed != 0 {
		t.Fatalf("redrain result = %+v, want {1 0}", result)
	}

	all, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpensesByGroup failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d expenses after replay, want exactly 1", len(all))
	}
}
