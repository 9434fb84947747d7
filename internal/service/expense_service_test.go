package service

import (
	"context"
	"testing"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/ledger"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
)

func TestExpenseService(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()
	seedUsers(t, store, "alice", "bob", "carol")
	group := seedGroup(t, store, "Flat 402", "alice", "bob")

	t.Run("create with equal split", func(t *testing.T) {
		expense, err := svc.Create(ctx, "alice", ExpenseInput{
			GroupID:     group.ID,
			Amount:      30000,
			Description: "Groceries",
			Splits: []ledger.SplitInput{
				{UserID: "alice"}, {UserID: "bob"},
			},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if expense.PaidByID != "alice" {
			t.Errorf("PaidByID = %q, want caller default", expense.PaidByID)
		}
		if len(expense.Splits) != 2 {
			t.Fatalf("got %d splits, want 2", len(expense.Splits))
		}
		var sum money.Paise
		for _, s := range expense.Splits {
			sum += s.Amount
		}
		if sum != expense.Amount {
			t.Errorf("splits sum to %d, want %d", sum, expense.Amount)
		}
	})

	t.Run("personal expense needs no group", func(t *testing.T) {
		expense, err := svc.Create(ctx, "alice", ExpenseInput{
			Amount:      1500,
			Description: "Coffee",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if expense.GroupID != "" {
			t.Errorf("GroupID = %q, want empty", expense.GroupID)
		}
		if len(expense.Splits) != 1 || expense.Splits[0].UserID != "alice" {
			t.Errorf("Splits = %+v, want just the payer", expense.Splits)
		}
	})

	t.Run("participants must be group members", func(t *testing.T) {
		_, err := svc.Create(ctx, "alice", ExpenseInput{
			GroupID:     group.ID,
			Amount:      10000,
			Description: "Dinner",
			Splits: []ledger.SplitInput{
				{UserID: "alice"}, {UserID: "carol"},
			},
		})
		if errs.KindOf(err) != errs.KindValidation {
			t.Errorf("error kind = %v, want validation", errs.KindOf(err))
		}
	})

	t.Run("non-members cannot add group expenses", func(t *testing.T) {
		_, err := svc.Create(ctx, "carol", ExpenseInput{
			GroupID:     group.ID,
			Amount:      10000,
			Description: "Dinner",
		})
		if errs.KindOf(err) != errs.KindPermission {
			t.Errorf("error kind = %v, want permission", errs.KindOf(err))
		}
	})

	t.Run("description is required", func(t *testing.T) {
		_, err := svc.Create(ctx, "alice", ExpenseInput{Amount: 1000})
		if errs.KindOf(err) != errs.KindValidation {
			t.Errorf("error kind = %v, want validation", errs.KindOf(err))
		}
	})

	t.Run("update recomputes splits", func(t *testing.T) {
		expense, err := svc.Create(ctx, "alice", ExpenseInput{
			GroupID:     group.ID,
			Amount:      10000,
			Description: "Taxi",
			Splits:      []ledger.SplitInput{{UserID: "alice"}, {UserID: "bob"}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		updated, err := svc.Update(ctx, "bob", expense.ID, ExpenseInput{
			GroupID:     group.ID,
			PaidByID:    "alice",
			Amount:      12000,
			Description: "Taxi with toll",
			SplitType:   models.SplitExact,
			Splits: []ledger.SplitInput{
				{UserID: "alice", Amount: 4000},
				{UserID: "bob", Amount: 8000},
			},
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Amount != 12000 || updated.SplitType != models.SplitExact {
			t.Errorf("updated = %+v", updated)
		}

		got, err := svc.Get(ctx, "alice", expense.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got.Splits) != 2 || got.Splits[1].Amount != 8000 {
			t.Errorf("Splits = %+v", got.Splits)
		}
	})

	t.Run("outsiders cannot read or delete", func(t *testing.T) {
		expense, err := svc.Create(ctx, "alice", ExpenseInput{
			Amount:      2000,
			Description: "Snacks",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := svc.Get(ctx, "bob", expense.ID); errs.KindOf(err) != errs.KindPermission {
			t.Errorf("error kind = %v, want permission", errs.KindOf(err))
		}
		if err := svc.Delete(ctx, "bob", expense.ID); errs.KindOf(err) != errs.KindPermission {
			t.Errorf("error kind = %v, want permission", errs.KindOf(err))
		}
		if err := svc.Delete(ctx, "alice", expense.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	})
}
