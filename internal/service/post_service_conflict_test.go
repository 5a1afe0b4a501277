package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/helpinghand/internal/db"
)

// The slug pre-check and the insert are not atomic; the unique index is the
// authority and a duplicate-key rejection re-runs generation. The tests here
// lose that race on purpose: a callback commits a rival post carrying the
// slug that just passed the pre-check, immediately before the write lands.
// SkipDefaultTransaction keeps the rival row from being rolled back together
// with the failed insert.
func setupConflictTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:conflict-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return gdb
}

// stealPendingSlugs commits, for the next `times` post writes, a rival post
// with the exact slug about to be written, after the pre-check has passed.
func stealPendingSlugs(t *testing.T, gdb *gorm.DB, rivalAuthor uint, times int) {
	t.Helper()

	injecting := false
	steal := func(tx *gorm.DB) {
		if injecting || times <= 0 {
			return
		}
		post, ok := tx.Statement.Dest.(*db.Post)
		if !ok {
			return
		}
		times--
		injecting = true
		defer func() { injecting = false }()

		rival := &db.Post{Title: post.Title, Slug: post.Slug, Body: "rival", UserID: rivalAuthor}
		if err := gdb.Create(rival).Error; err != nil {
			t.Fatalf("failed to commit rival post: %v", err)
		}
	}

	if err := gdb.Callback().Create().Before("gorm:create").Register("steal_pending_slug_create", steal); err != nil {
		t.Fatalf("failed to register create callback: %v", err)
	}
	if err := gdb.Callback().Update().Before("gorm:update").Register("steal_pending_slug_update", steal); err != nil {
		t.Fatalf("failed to register update callback: %v", err)
	}
}

func TestPostServiceCreateRetriesAfterInsertConflict(t *testing.T) {
	gdb := setupConflictTestDB(t)
	cleaner, _ := newTestCleaner(newFakeStore())
	svc := NewPostService(gdb, cleaner)
	author := seedUser(t, gdb, "author")
	rival := seedUser(t, gdb, "rival")

	stealPendingSlugs(t, gdb, rival.ID, 1)

	post, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.Slug != "hello-world-1" {
		t.Fatalf("expected retried slug hello-world-1, got %q", post.Slug)
	}

	var rivalPost db.Post
	if err := gdb.Where("user_id = ?", rival.ID).First(&rivalPost).Error; err != nil {
		t.Fatalf("rival post missing: %v", err)
	}
	if rivalPost.Slug != "hello-world" {
		t.Fatalf("rival slug = %q, want hello-world", rivalPost.Slug)
	}
}

func TestPostServiceCreateSurfacesConflictWhenRacedRepeatedly(t *testing.T) {
	gdb := setupConflictTestDB(t)
	cleaner, _ := newTestCleaner(newFakeStore())
	svc := NewPostService(gdb, cleaner)
	author := seedUser(t, gdb, "author")
	rival := seedUser(t, gdb, "rival")

	// Lose the race on every bounded attempt.
	stealPendingSlugs(t, gdb, rival.ID, slugAssignAttempts)

	if _, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID); !errors.Is(err, ErrSlugConflict) {
		t.Fatalf("expected ErrSlugConflict after exhausted retries, got %v", err)
	}
}

func TestPostServiceRenameRetriesAfterInsertConflict(t *testing.T) {
	gdb := setupConflictTestDB(t)
	cleaner, _ := newTestCleaner(newFakeStore())
	svc := NewPostService(gdb, cleaner)
	author := seedUser(t, gdb, "author")
	rival := seedUser(t, gdb, "rival")

	post, err := svc.Create(PostInput{Title: "Old Title", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	stealPendingSlugs(t, gdb, rival.ID, 1)

	updated, err := svc.Update(context.Background(), post.ID, author.ID, false, PostInput{
		Title: "Fresh Title",
		Body:  "body",
	})
	if err != nil {
		t.Fatalf("rename post: %v", err)
	}
	if updated.Slug != "fresh-title-1" {
		t.Fatalf("expected retried slug fresh-title-1, got %q", updated.Slug)
	}
}
