package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/models"
)

// UpsertUser creates or refreshes a user profile. The ID comes from the
// identity provider and is never generated here.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errs.New(errs.KindValidation, "user id required")
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, upi_id, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, upi_id = excluded.upi_id`,
		user.ID, user.Name, user.Email, nullable(user.UPIID), user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{}
	var upiID sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, upi_id, created_at FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &upiID, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.Newf(errs.KindNotFound, "user not found: %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if upiID.Valid {
		user.UPIID = upiID.String
	}
	return user, nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
