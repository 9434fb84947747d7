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

// CreateExpense persists an expense together with its splits in one
// transaction. The expense ID may be client-generated (offline sync);
// replaying a create whose ID already exists changes nothing and is
// reported as a duplicate so the sync processor can treat it as done.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.ExpenseDate == 0 {
		expense.ExpenseDate = now
	}
	if expense.Currency == "" {
		expense.Currency = "INR"
	}
	if expense.Category == "" {
		expense.Category = "other"
	}
	if expense.SplitType == "" {
		expense.SplitType = models.SplitEqual
	}
	expense.IsActive = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO expenses
		 (id, group_id, paid_by, amount, currency, description, category, notes, split_type, expense_date, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		expense.ID, nullable(expense.GroupID), expense.PaidByID, int64(expense.Amount), expense.Currency,
		expense.Description, expense.Category, nullable(expense.Notes), string(expense.SplitType),
		expense.ExpenseDate, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check expense insert: %w", err)
	} else if n == 0 {
		return errs.Newf(errs.KindDuplicate, "expense %s already exists", expense.ID)
	}

	if err := insertSplits(ctx, tx, expense.ID, expense.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID string, splits []models.ExpenseSplit) error {
	for _, split := range splits {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount) VALUES (?, ?, ?)",
			expenseID, split.UserID, int64(split.Amount),
		); err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an active expense with its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.scanExpense(s.db.QueryRowContext(ctx,
		selectExpense+" WHERE id = ? AND is_active = 1", expenseID,
	))
	if err == sql.ErrNoRows {
		return nil, errs.Newf(errs.KindNotFound, "expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadSplits(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

const selectExpense = `SELECT id, group_id, paid_by, amount, currency, description, category, notes, split_type, expense_date, is_active, created_at FROM expenses`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var groupID, notes sql.NullString
	var amount int64
	var splitType string

	err := row.Scan(&expense.ID, &groupID, &expense.PaidByID, &amount, &expense.Currency,
		&expense.Description, &expense.Category, &notes, &splitType,
		&expense.ExpenseDate, &expense.IsActive, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		expense.GroupID = groupID.String
	}
	if notes.Valid {
		expense.Notes = notes.String
	}
	expense.Amount = money.Paise(amount)
	expense.SplitType = models.SplitType(splitType)
	return expense, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount FROM expense_splits WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		split := models.ExpenseSplit{ExpenseID: expense.ID}
		var amount int64
		if err := rows.Scan(&split.UserID, &amount); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		split.Amount = money.Paise(amount)
		expense.Splits = append(expense.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return nil
}

// UpdateExpense replaces an expense and its splits.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET group_id = ?, paid_by = ?, amount = ?, currency = ?, description = ?,
		 category = ?, notes = ?, split_type = ?, expense_date = ?
		 WHERE id = ? AND is_active = 1`,
		nullable(expense.GroupID), expense.PaidByID, int64(expense.Amount), expense.Currency,
		expense.Description, expense.Category, nullable(expense.Notes), string(expense.SplitType),
		expense.ExpenseDate, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check expense update: %w", err)
	} else if n == 0 {
		return errs.Newf(errs.KindNotFound, "expense not found: %s", expense.ID)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM expense_splits WHERE expense_id = ?", expense.ID,
	); err != nil {
		return fmt.Errorf("failed to clear expense splits: %w", err)
	}
	if err := insertSplits(ctx, tx, expense.ID, expense.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense soft-deletes an expense. The splits stay in place; the
// is_active predicate hides them from every query.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET is_active = 0 WHERE id = ? AND is_active = 1",
		expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check expense delete: %w", err)
	} else if n == 0 {
		return errs.Newf(errs.KindNotFound, "expense not found: %s", expenseID)
	}
	return nil
}

// ListExpensesByGroup returns the active expenses of a group, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		selectExpense+" WHERE group_id = ? AND is_active = 1 ORDER BY created_at, id", groupID)
}

// ListExpensesByUser returns the active expenses the user paid or
// participates in, across groups and personal expenses.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		selectExpense+` WHERE is_active = 1 AND (paid_by = ? OR id IN
		 (SELECT expense_id FROM expense_splits WHERE user_id = ?))
		 ORDER BY created_at, id`, userID, userID)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := s.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadSplits(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}
