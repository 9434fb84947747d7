package ledger

import (
	"sort"

	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
)

// Balance is a signed net amount against one counterparty.
// Positive means the counterparty owes the caller; negative means the
// caller owes the counterparty.
type Balance struct {
	UserID string
	Amount money.Paise
}

// ComputeBalances nets the caller's position against every counterparty
// across the given expenses and settlements.
//
// For each expense the caller paid, every other participant's split is
// owed to the caller; for each expense someone else paid, the caller's
// own split is owed to that payer. A participant who is also the payer
// nets only the difference, which falls out of applying both rules.
// Settlements move debt the other way: a payment by the caller increases
// their position against the payee, a payment to the caller decreases it
// against the payer.
//
// Callers must pass only active records; soft-deleted expenses and
// settlements are filtered at the store boundary, not here. Zero net
// positions are dropped from the result, which is sorted by user ID.
func ComputeBalances(callerID string, expenses []*models.Expense, settlements []*models.Settlement) []Balance {
	net := make(map[string]money.Paise)

	for _, e := range expenses {
		for _, s := range e.Splits {
			switch {
			case e.PaidByID == callerID && s.UserID != callerID:
				net[s.UserID] += s.Amount
			case e.PaidByID != callerID && s.UserID == callerID:
				net[e.PaidByID] -= s.Amount
			}
		}
	}

	for _, s := range settlements {
		switch callerID {
		case s.FromUserID:
			net[s.ToUserID] += s.Amount
		case s.ToUserID:
			net[s.FromUserID] -= s.Amount
		}
	}

	balances := make([]Balance, 0, len(net))
	for userID, amount := range net {
		if amount == 0 {
			continue
		}
		balances = append(balances, Balance{UserID: userID, Amount: amount})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].UserID < balances[j].UserID })
	return balances
}

// NetBalances computes each user's net position within one group:
// positive means the user is owed money overall, negative means they owe.
//
// Payers gain the expense total, split participants lose their share,
// settlement payers gain the settled amount and payees lose it. Over a
// closed group (every expense and settlement references only members)
// the returned amounts sum to exactly zero.
func NetBalances(expenses []*models.Expense, settlements []*models.Settlement) map[string]money.Paise {
	net := make(map[string]money.Paise)

	for _, e := range expenses {
		net[e.PaidByID] += e.Amount
		for _, s := range e.Splits {
			net[s.UserID] -= s.Amount
		}
	}

	for _, s := range settlements {
		net[s.FromUserID] += s.Amount
		net[s.ToUserID] -= s.Amount
	}

	for userID, amount := range net {
		if amount == 0 {
			delete(net, userID)
		}
	}
	return net
}
