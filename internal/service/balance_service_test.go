package service

import (
	"context"
	"testing"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/ledger"
	"github.com/hisab-app/hisab/internal/money"
)

func TestBalanceService(t *testing.T) {
	store := newTestStore(t)
	expenses := NewExpenseService(store)
	settlements := NewSettlementService(store)
	svc := NewBalanceService(store)
	ctx := context.Background()

	seedUsers(t, store, "alice", "bob", "carol")
	group := seedGroup(t, store, "Trip to Goa", "alice", "bob", "carol")

	// Alice pays 300 for dinner, split three ways.
	if _, err := expenses.Create(ctx, "alice", ExpenseInput{
		GroupID:     group.ID,
		Amount:      30000,
		Description: "Dinner",
		Splits: []ledger.SplitInput{
			{UserID: "alice"}, {UserID: "bob"}, {UserID: "carol"},
		},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("payer sees what each participant owes", func(t *testing.T) {
		balances, err := svc.ComputeBalances(ctx, "alice", group.ID)
		if err != nil {
			t.Fatalf("ComputeBalances failed: %v", err)
		}
		want := map[string]money.Paise{"bob": 10000, "carol": 10000}
		if len(balances) != len(want) {
			t.Fatalf("got %d balances: %+v", len(balances), balances)
		}
		for _, b := range balances {
			if want[b.UserID] != b.Amount {
				t.Errorf("balance[%s] = %d, want %d", b.UserID, b.Amount, want[b.UserID])
			}
		}
	})

	t.Run("non-members cannot see group balances", func(t *testing.T) {
		seedUsers(t, store, "mallory")
		_, err := svc.ComputeBalances(ctx, "mallory", group.ID)
		if errs.KindOf(err) != errs.KindPermission {
			t.Errorf("error kind = %v, want permission", errs.KindOf(err))
		}
	})

	t.Run("settlement plan zeroes every balance", func(t *testing.T) {
		plan, err := svc.ProposeSettlementPlan(ctx, "alice", group.ID)
		if err != nil {
			t.Fatalf("ProposeSettlementPlan failed: %v", err)
		}
		if len(plan) != 2 {
			t.Fatalf("got %d transfers: %+v", len(plan), plan)
		}
		for _, tr := range plan {
			if tr.ToUserID != "alice" || tr.Amount != 10000 {
				t.Errorf("transfer = %+v, want 100.00 to alice", tr)
			}
		}
	})

	t.Run("recorded settlement shows up in the next plan", func(t *testing.T) {
		if _, err := settlements.Record(ctx, "bob", SettlementInput{
			GroupID:  group.ID,
			ToUserID: "alice",
			Amount:   10000,
		}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		plan, err := svc.ProposeSettlementPlan(ctx, "alice", group.ID)
		if err != nil {
			t.Fatalf("ProposeSettlementPlan failed: %v", err)
		}
		if len(plan) != 1 {
			t.Fatalf("got %d transfers after settlement: %+v", len(plan), plan)
		}
		if plan[0].FromUserID != "carol" || plan[0].Amount != 10000 {
			t.Errorf("transfer = %+v, want carol paying 100.00", plan[0])
		}
	})

	t.Run("group summary totals spending per member", func(t *testing.T) {
		balances, summary, err := svc.GroupBalances(ctx, "alice", group.ID)
		if err != nil {
			t.Fatalf("GroupBalances failed: %v", err)
		}
		if summary.TotalExpenses != 30000 {
			t.Errorf("TotalExpenses = %d, want 30000", summary.TotalExpenses)
		}
		if summary.TotalPaid != 30000 {
			t.Errorf("TotalPaid = %d, want 30000", summary.TotalPaid)
		}
		if summary.TotalShare != 10000 {
			t.Errorf("TotalShare = %d, want 10000", summary.TotalShare)
		}
		// Bob settled, so only carol still owes alice.
		if len(balances) != 1 || balances[0].UserID != "carol" {
			t.Errorf("balances = %+v, want carol only", balances)
		}

		_, summary, err = svc.GroupBalances(ctx, "bob", group.ID)
		if err != nil {
			t.Fatalf("GroupBalances failed: %v", err)
		}
		if summary.TotalPaid != 0 || summary.TotalShare != 10000 {
			t.Errorf("bob summary = %+v, want TotalPaid=0 TotalShare=10000", summary)
		}
	})

	t.Run("overall balances span groups and personal expenses", func(t *testing.T) {
		// Bob pays a 1-on-1 expense with alice outside any group.
		if _, err := expenses.Create(ctx, "bob", ExpenseInput{
			Amount:      5000,
			Description: "Auto fare",
			Splits:      []ledger.SplitInput{{UserID: "alice"}, {UserID: "bob"}},
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		balances, err := svc.ComputeBalances(ctx, "alice", "")
		if err != nil {
			t.Fatalf("ComputeBalances failed: %v", err)
		}
		// Bob settled the dinner debt, so alice's position against bob is
		// only the 25.00 auto fare she owes.
		var bobBalance money.Paise
		for _, b := range balances {
			if b.UserID == "bob" {
				bobBalance = b.Amount
			}
		}
		if bobBalance != -2500 {
			t.Errorf("balance vs bob = %d, want -2500", bobBalance)
		}
	})

	t.Run("plan requires a group", func(t *testing.T) {
		_, err := svc.ProposeSettlementPlan(ctx, "alice", "")
		if errs.KindOf(err) != errs.KindValidation {
			t.Errorf("error kind = %v, want validation", errs.KindOf(err))
		}
	})
}
