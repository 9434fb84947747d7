package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/money"
)

// CreateSettlement persists a settlement. Like expenses, the ID may be
// client-generated; a replayed duplicate changes nothing.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.PaymentMethod == "" {
		settlement.PaymentMethod = models.PaymentOther
	}
	settlement.IsActive = true

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settlements
		 (id, group_id, from_user_id, to_user_id, amount, payment_method, transaction_ref, notes, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		settlement.ID, nullable(settlement.GroupID), settlement.FromUserID, settlement.ToUserID,
		int64(settlement.Amount), string(settlement.PaymentMethod),
		nullable(settlement.TransactionRef), nullable(settlement.Notes), settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check settlement insert: %w", err)
	} else if n == 0 {
		return errs.Newf(errs.KindDuplicate, "settlement %s already exists", settlement.ID)
	}
	return nil
}

const selectSettlement = `SELECT id, group_id, from_user_id, to_user_id, amount, payment_method, transaction_ref, notes, is_active, created_at FROM settlements`

// ListSettlementsByGroup returns the active settlements of a group,
// oldest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		selectSettlement+" WHERE group_id = ? AND is_active = 1 ORDER BY created_at, id", groupID)
}

// ListSettlementsByUser returns the active settlements the user paid or
// received.
func (s *SQLiteStore) ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		selectSettlement+` WHERE is_active = 1 AND (from_user_id = ? OR to_user_id = ?)
		 ORDER BY created_at, id`, userID, userID)
}

func (s *SQLiteStore) listSettlements(ctx context.Context, query string, args ...any) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var groupID, transactionRef, notes sql.NullString
		var amount int64
		var method string

		if err := rows.Scan(&settlement.ID, &groupID, &settlement.FromUserID, &settlement.ToUserID,
			&amount, &method, &transactionRef, &notes, &settlement.IsActive, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		if groupID.Valid {
			settlement.GroupID = groupID.String
		}
		if transactionRef.Valid {
			settlement.TransactionRef = transactionRef.String
		}
		if notes.Valid {
			settlement.Notes = notes.String
		}
		settlement.Amount = money.Paise(amount)
		settlement.PaymentMethod = models.PaymentMethod(method)
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// DeleteSettlement soft-deletes a settlement.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET is_active = 0 WHERE id = ? AND is_active = 1",
		settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check settlement delete: %w", err)
	} else if n == 0 {
		return errs.Newf(errs.KindNotFound, "settlement not found: %s", settlementID)
	}
	return nil
}
