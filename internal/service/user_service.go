package service

import (
	"context"
	"log/slog"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/storage"
)

// UserService manages the profile data attached to externally-issued
// identities. It never creates identities; the ID always comes from the
// identity provider's token.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// Get retrieves a user's profile.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name  string
	Email string
	UPIID string
}

// UpdateProfile creates or refreshes the caller's own profile record.
func (s *UserService) UpdateProfile(ctx context.Context, callerID string, in ProfileInput) (*models.User, error) {
	if in.Name == "" {
		return nil, errs.New(errs.KindValidation, "display name required")
	}

	user := &models.User{
		ID:    callerID,
		Name:  in.Name,
		Email: in.Email,
		UPIID: in.UPIID,
	}
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("Profile updated", "user_id", callerID)
	return s.store.GetUser(ctx, callerID)
}
