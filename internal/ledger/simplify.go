package ledger

import (
	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/money"
)

// Transfer is one suggested payment in a settlement plan.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     money.Paise
}

// SimplifyDebts turns a set of net balances into a short list of
// transfers that zero every balance.
//
// Greedy matching: the largest debtor pays the largest creditor the
// smaller of the two magnitudes, both shrink, and whoever hits zero
// drops out. Ties in magnitude break by user ID ascending so the plan
// is deterministic. The transfer count is not guaranteed minimal
// (exact minimization is NP-hard); greedy is bounded and good enough.
//
// The balance engine guarantees zero-sum over a closed group. If the
// balances do not sum to exactly zero the input is corrupt, and a
// consistency error is returned rather than an unbalanced plan.
func SimplifyDebts(net map[string]money.Paise) ([]Transfer, error) {
	var sum money.Paise
	debtors := make(map[string]money.Paise)
	creditors := make(map[string]money.Paise)
	for userID, amount := range net {
		sum += amount
		switch {
		case amount < 0:
			debtors[userID] = -amount
		case amount > 0:
			creditors[userID] = amount
		}
	}
	if sum != 0 {
		return nil, errs.Newf(errs.KindConsistency,
			"net balances sum to %s, not zero; ledger data is corrupt", sum.String())
	}

	var transfers []Transfer
	for len(debtors) > 0 {
		debtor := largest(debtors)
		creditor := largest(creditors)

		amount := debtors[debtor]
		if creditors[creditor] < amount {
			amount = creditors[creditor]
		}

		transfers = append(transfers, Transfer{
			FromUserID: debtor,
			ToUserID:   creditor,
			Amount:     amount,
		})

		debtors[debtor] -= amount
		creditors[creditor] -= amount
		if debtors[debtor] == 0 {
			delete(debtors, debtor)
		}
		if creditors[creditor] == 0 {
			delete(creditors, creditor)
		}
	}
	return transfers, nil
}

// largest returns the key with the greatest amount, ties broken by
// user ID ascending.
func largest(m map[string]money.Paise) string {
	var best string
	var bestAmount money.Paise = -1
	for userID, amount := range m {
		if amount > bestAmount || (amount == bestAmount && userID < best) {
			best = userID
			bestAmount = amount
		}
	}
	return best
}
