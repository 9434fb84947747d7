// Package service implements the operations the ledger exposes to its
// callers: group and expense management, balance computation, settlement
// recording, and replay of queued offline mutations.
//
// Services take the authenticated caller's user ID explicitly on every
// call; there is no ambient session state. They validate, delegate pure
// computation to the ledger package, and persist through storage.Store.
package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/hisab-app/hisab/internal/errs"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/storage"
)

// GroupService manages groups and their membership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroupInput carries the fields for a new group.
type CreateGroupInput struct {
	// ID is optional; offline creates carry their client-generated UUID.
	ID          string
	Name        string
	Description string
	Category    string
	MemberIDs   []string
}

// Create makes a new group. The caller becomes the creator and is always
// a member, whether or not they appear in MemberIDs.
func (s *GroupService) Create(ctx context.Context, callerID string, in CreateGroupInput) (*models.Group, error) {
	if in.Name == "" {
		return nil, errs.New(errs.KindValidation, "group name required")
	}

	members := in.MemberIDs
	if !slices.Contains(members, callerID) {
		members = append([]string{callerID}, members...)
	}

	group := &models.Group{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		CreatedBy:   callerID,
		MemberIDs:   members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "created_by", callerID, "members", len(members))
	return group, nil
}

// Get retrieves a group. Only members can see it.
func (s *GroupService) Get(ctx context.Context, callerID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(group.MemberIDs, callerID) {
		return nil, errs.New(errs.KindPermission, "you must be a member of this group")
	}
	return group, nil
}

// List returns the caller's groups.
func (s *GroupService) List(ctx context.Context, callerID string) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, callerID)
}

// UpdateGroupInput carries the editable group fields.
type UpdateGroupInput struct {
	Name        string
	Description string
	Category    string
}

// Update edits a group's name, description, and category. Members only.
func (s *GroupService) Update(ctx context.Context, callerID, groupID string, in UpdateGroupInput) (*models.Group, error) {
	group, err := s.Get(ctx, callerID, groupID)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, errs.New(errs.KindValidation, "group name required")
	}

	group.Name = in.Name
	group.Description = in.Description
	group.Category = in.Category
	if group.Category == "" {
		group.Category = "other"
	}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group updated", "group_id", groupID, "user_id", callerID)
	return group, nil
}

// Delete soft-deletes a group. Only the creator may delete it; the
// expense history underneath stays intact.
func (s *GroupService) Delete(ctx context.Context, callerID, groupID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != callerID {
		return errs.New(errs.KindPermission, "only the group creator can delete the group")
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}

	slog.Info("Group deleted", "group_id", groupID, "user_id", callerID)
	return nil
}

// AddMembers appends members to a group. Members only.
func (s *GroupService) AddMembers(ctx context.Context, callerID, groupID string, userIDs []string) (*models.Group, error) {
	if len(userIDs) == 0 {
		return nil, errs.New(errs.KindValidation, "at least one user id required")
	}
	if _, err := s.Get(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return nil, err
	}

	slog.Info("Group members added", "group_id", groupID, "user_id", callerID, "added", len(userIDs))
	return s.store.GetGroup(ctx, groupID)
}

// RemoveMember removes a member. A member may remove themselves; only
// the creator may remove others.
func (s *GroupService) RemoveMember(ctx context.Context, callerID, groupID, userID string) error {
	group, err := s.Get(ctx, callerID, groupID)
	if err != nil {
		return err
	}
	if userID != callerID && group.CreatedBy != callerID {
		return errs.New(errs.KindPermission, "only the group creator can remove other members")
	}
	if userID == group.CreatedBy {
		return errs.New(errs.KindValidation, "the group creator cannot be removed")
	}
	if err := s.store.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return err
	}

	slog.Info("Group member removed", "group_id", groupID, "user_id", callerID, "removed", userID)
	return nil
}
