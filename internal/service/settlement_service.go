package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"unicode"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
	"github.com/hisab-app/hisab/internal/storage"
)

// SettlementService records real-world payments against the ledger.
//
// Recording a settlement does not move money and does not rewrite the
// expense history: it appends one entry that the balance engine nets
// against outstanding debt. Balances are recomputed by readers, not
// here; a stale balance view elsewhere is acceptable for the moment it
// takes the next read to pick the settlement up.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// SettlementInput carries the fields for recording a settlement.
type SettlementInput struct {
	// ID is optional; offline creates carry their client-generated UUID.
	ID string

	// FromUserID defaults to the caller when empty.
	FromUserID string

	ToUserID string
	Amount   money.Paise

	// GroupID scopes the settlement to a group. Optional.
	GroupID string

	PaymentMethod  models.PaymentMethod
	TransactionRef string
	Notes          string
}

// Record validates and persists a settlement.
//
// Rejected as validation errors: non-positive amounts, payer equal to
// payee, and (for group settlements) either party not being a current
// member. The caller must be one of the two parties.
func (s *SettlementService) Record(ctx context.Context, callerID string, in SettlementInput) (*models.Settlement, error) {
	if in.Amount <= 0 {
		return nil, errs.New(errs.KindValidation, "settlement amount must be positive")
	}

	fromID := in.FromUserID
	if fromID == "" {
		fromID = callerID
	}
	if fromID == in.ToUserID {
		return nil, errs.New(errs.KindValidation, "cannot settle with yourself")
	}
	if in.ToUserID == "" {
		return nil, errs.New(errs.KindValidation, "payee user id required")
	}
	if callerID != fromID && callerID != in.ToUserID {
		return nil, errs.New(errs.KindPermission, "you can only record settlements you are involved in")
	}

	if _, err := s.store.GetUser(ctx, in.ToUserID); err != nil {
		return nil, err
	}
	if fromID != callerID {
		if _, err := s.store.GetUser(ctx, fromID); err != nil {
			return nil, err
		}
	}

	if in.GroupID != "" {
		for _, userID := range []string{fromID, in.ToUserID} {
			member, err := s.store.IsGroupMember(ctx, in.GroupID, userID)
			if err != nil {
				return nil, err
			}
			if !member {
				return nil, errs.Newf(errs.KindValidation, "user %s is not a member of group %s", userID, in.GroupID)
			}
		}
	}

	settlement := &models.Settlement{
		ID:             in.ID,
		GroupID:        in.GroupID,
		FromUserID:     fromID,
		ToUserID:       in.ToUserID,
		Amount:         in.Amount,
		PaymentMethod:  in.PaymentMethod,
		TransactionRef: in.TransactionRef,
		Notes:          in.Notes,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"from", fromID,
		"to", in.ToUserID,
		"amount", in.Amount.String(),
		"group_id", in.GroupID,
	)
	return settlement, nil
}

// List returns the settlements the caller is a party to, optionally
// scoped to one group.
func (s *SettlementService) List(ctx context.Context, callerID, groupID string) ([]*models.Settlement, error) {
	if groupID == "" {
		return s.store.ListSettlementsByUser(ctx, callerID)
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	var mine []*models.Settlement
	for _, settlement := range settlements {
		if settlement.FromUserID == callerID || settlement.ToUserID == callerID {
			mine = append(mine, settlement)
		}
	}
	return mine, nil
}

// Delete soft-deletes a settlement, restoring the debt it had cleared.
// Only a party to the settlement may delete it.
func (s *SettlementService) Delete(ctx context.Context, callerID, settlementID string) error {
	settlements, err := s.store.ListSettlementsByUser(ctx, callerID)
	if err != nil {
		return err
	}
	for _, settlement := range settlements {
		if settlement.ID == settlementID {
			if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
				return err
			}
			slog.Info("Settlement deleted", "settlement_id", settlementID, "user_id", callerID)
			return nil
		}
	}
	return errs.Newf(errs.KindNotFound, "settlement not found: %s", settlementID)
}

// UPIPaymentInfo is a ready-to-open UPI deep link for settling up.
type UPIPaymentInfo struct {
	PayeeName       string
	Amount          money.Paise
	TransactionNote string
	Link            string
}

// UPILink builds a upi://pay deep link for paying payeeID. The amount is
// formatted with exactly two decimal places; UPI apps reject anything
// else. When the payee has no stored UPI handle the pa parameter is
// omitted and the payment app matches the recipient by name from the
// user's contacts.
func (s *SettlementService) UPILink(ctx context.Context, callerID, payeeID string, amount money.Paise, groupID string) (*UPIPaymentInfo, error) {
	if amount <= 0 {
		return nil, errs.New(errs.KindValidation, "amount must be positive")
	}

	payee, err := s.store.GetUser(ctx, payeeID)
	if err != nil {
		return nil, err
	}
	name := cleanUPIName(payee.Name)
	if name == "" {
		return nil, errs.New(errs.KindValidation, "payee has no usable display name")
	}

	note := "Hisab settlement"
	if caller, err := s.store.GetUser(ctx, callerID); err == nil && caller.Name != "" {
		note = "Hisab settlement from " + caller.Name
	}
	if groupID != "" {
		if group, err := s.store.GetGroup(ctx, groupID); err == nil {
			note = "Hisab: " + group.Name + " settlement"
		}
	}

	params := url.Values{}
	if payee.UPIID != "" {
		params.Set("pa", payee.UPIID)
	}
	params.Set("pn", name)
	params.Set("am", amount.String())
	params.Set("cu", "INR")
	params.Set("tn", note)

	return &UPIPaymentInfo{
		PayeeName:       name,
		Amount:          amount,
		TransactionNote: note,
		Link:            "upi://pay?" + params.Encode(),
	}, nil
}

// cleanUPIName strips characters that break UPI intents, keeping
// letters, digits, and spaces, capped at 50 runes.
func cleanUPIName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	runes := []rune(cleaned)
	if len(runes) > 50 {
		cleaned = string(runes[:50])
	}
	return cleaned
}
