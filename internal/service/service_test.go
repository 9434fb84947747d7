package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/storage"
	"github.com/hisab-app/hisab/internal/storage/sqlite"
)

// newTestStore opens a throwaway SQLite store for service tests.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "hisab-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUsers(t *testing.T, store storage.Store, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		err := store.UpsertUser(ctx, &models.User{
			ID:    id,
			Name:  id,
			Email: id + "@example.com",
		})
		if err != nil {
			t.Fatalf("UpsertUser(%s) failed: %v", id, err)
		}
	}
}

// seedGroup creates a group owned by the first member.
func seedGroup(t *testing.T, store storage.Store, name string, memberIDs ...string) *models.Group {
	t.Helper()
	group := &models.Group{
		Name:      name,
		CreatedBy: memberIDs[0],
		MemberIDs: memberIDs,
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}
