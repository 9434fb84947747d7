// Package ledger holds the pure computation at the heart of Hisab:
// building splits, netting balances, and simplifying debts.
//
// Every function here is stateless and side-effect-free: it depends only
// on the snapshot passed in, so callers may run computations for
// different groups or users concurrently. All arithmetic is in integer
// minor units.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
)

// SplitInput is one participant's entry in a split request. Which fields
// matter depends on the split type: Amount for exact, Percentage for
// percentage, Shares for shares. Equal splits use only UserID.
type SplitInput struct {
	UserID     string
	Amount     money.Paise
	Percentage decimal.Decimal
	Shares     int64
}

// Share is one participant's computed owed amount.
type Share struct {
	UserID string
	Amount money.Paise
}

// BuildSplits divides total among the participants according to splitType.
//
// The result is deterministic: participants are processed in user-ID
// order, and any remainder that integer division cannot distribute is
// assigned to the first participant by user ID. The returned shares
// always sum exactly to total; if the inputs cannot satisfy that (exact
// amounts that do not add up, percentages not totalling 100), a
// validation error is returned instead.
func BuildSplits(total money.Paise, splitType models.SplitType, inputs []SplitInput) ([]Share, error) {
	if total <= 0 {
		return nil, errs.New(errs.KindValidation, "expense amount must be positive")
	}
	if len(inputs) == 0 {
		return nil, errs.New(errs.KindValidation, "at least one split participant required")
	}

	sorted := make([]SplitInput, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UserID < sorted[j].UserID })

	seen := make(map[string]bool, len(sorted))
	for _, in := range sorted {
		if in.UserID == "" {
			return nil, errs.New(errs.KindValidation, "split participant missing user id")
		}
		if seen[in.UserID] {
			return nil, errs.Newf(errs.KindValidation, "duplicate split participant %s", in.UserID)
		}
		seen[in.UserID] = true
	}

	switch splitType {
	case models.SplitEqual:
		return equalSplits(total, sorted), nil
	case models.SplitExact:
		return exactSplits(total, sorted)
	case models.SplitPercentage:
		return percentageSplits(total, sorted)
	case models.SplitShares:
		return sharesSplits(total, sorted)
	default:
		return nil, errs.Newf(errs.KindValidation, "unknown split type %q", splitType)
	}
}

func equalSplits(total money.Paise, inputs []SplitInput) []Share {
	n := money.Paise(len(inputs))
	base := total / n
	remainder := total % n

	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		shares[i] = Share{UserID: in.UserID, Amount: base}
	}
	// Residue goes to the first participant by user ID.
	shares[0].Amount += remainder
	return shares
}

func exactSplits(total money.Paise, inputs []SplitInput) ([]Share, error) {
	var sum money.Paise
	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		if in.Amount < 0 {
			return nil, errs.Newf(errs.KindValidation, "negative split amount for %s", in.UserID)
		}
		shares[i] = Share{UserID: in.UserID, Amount: in.Amount}
		sum += in.Amount
	}
	if sum != total {
		return nil, errs.Newf(errs.KindValidation,
			"split amounts sum to %s, expense total is %s", sum.String(), total.String())
	}
	return shares, nil
}

func percentageSplits(total money.Paise, inputs []SplitInput) ([]Share, error) {
	var pctSum decimal.Decimal
	for _, in := range inputs {
		if in.Percentage.IsNegative() {
			return nil, errs.Newf(errs.KindValidation, "negative percentage for %s", in.UserID)
		}
		pctSum = pctSum.Add(in.Percentage)
	}
	if !pctSum.Equal(decimal.NewFromInt(100)) {
		return nil, errs.Newf(errs.KindValidation, "percentages sum to %s, want 100", pctSum.String())
	}

	hundred := decimal.NewFromInt(100)
	shares := make([]Share, len(inputs))
	var sum money.Paise
	for i, in := range inputs {
		amt := money.Paise(decimal.NewFromInt(int64(total)).Mul(in.Percentage).Div(hundred).Floor().IntPart())
		shares[i] = Share{UserID: in.UserID, Amount: amt}
		sum += amt
	}
	shares[0].Amount += total - sum
	return shares, nil
}

func sharesSplits(total money.Paise, inputs []SplitInput) ([]Share, error) {
	var totalShares int64
	for _, in := range inputs {
		if in.Shares <= 0 {
			return nil, errs.Newf(errs.KindValidation, "non-positive share count for %s", in.UserID)
		}
		totalShares += in.Shares
	}

	shares := make([]Share, len(inputs))
	var sum money.Paise
	for i, in := range inputs {
		amt := money.Paise(int64(total) * in.Shares / totalShares)
		shares[i] = Share{UserID: in.UserID, Amount: amt}
		sum += amt
	}
	shares[0].Amount += total - sum
	return shares, nil
}
