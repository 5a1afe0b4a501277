package service

import (
	"context"
	"errors"
	"testing"

	"github.com/helpinghand/internal/db"
)

func setupPostService(t *testing.T) (*PostService, *fakeStore) {
	t.Helper()
	gdb := setupServiceTestDB(t)
	store := newFakeStore()
	cleaner, _ := newTestCleaner(store)
	return NewPostService(gdb, cleaner), store
}

func TestPostServiceCreateAssignsSlug(t *testing.T) {
	svc, _ := setupPostService(t)
	author := seedUser(t, svc.db, "author")

	post, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Fatalf("expected slug hello-world, got %q", post.Slug)
	}
}

func TestPostServiceCreateBackToBackDisambiguates(t *testing.T) {
	svc, _ := setupPostService(t)
	author := seedUser(t, svc.db, "author")

	first, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create first post: %v", err)
	}
	second, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create second post: %v", err)
	}

	if first.Slug != "hello-world" || second.Slug != "hello-world-1" {
		t.Fatalf("expected hello-world and hello-world-1, got %q and %q", first.Slug, second.Slug)
	}
}

func TestPostServiceCreateValidation(t *testing.T) {
	svc, _ := setupPostService(t)
	author := seedUser(t, svc.db, "author")

	if _, err := svc.Create(PostInput{Title: "  ", Body: "body"}, author.ID); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.Create(PostInput{Title: "Hi", Body: " "}, author.ID); !errors.Is(err, ErrBodyRequired) {
		t.Fatalf("expected ErrBodyRequired, got %v", err)
	}
}

func TestPostServiceUpdateKeepsSlugWhenTitleUnchanged(t *testing.T) {
	svc, _ := setupPostService(t)
	author := seedUser(t, svc.db, "author")

	post, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	updated, err := svc.Update(context.Background(), post.ID, author.ID, false, PostInput{Title: "Hello World", Body: "new body"})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Slug != "hello-world" {
		t.Fatalf("expected slug unchanged, got %q", updated.Slug)
	}
	if updated.Body != "new body" {
		t.Fatalf("expected body updated, got %q", updated.Body)
	}
}

func TestPostServiceUpdateRegeneratesSlugOnTitleChange(t *testing.T) {
	svc, _ := setupPostService(t)
	author := seedUser(t, svc.db, "author")

	post, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	updated, err := svc.Update(context.Background(), post.ID, author.ID, false, PostInput{Title: "Goodbye World", Body: "body"})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Slug != "goodbye-world" {
		t.Fatalf("expected slug goodbye-world, got %q", updated.Slug)
	}
}

func TestPostServiceUpdateDeletesReplacedCover(t *testing.T) {
	svc, store := setupPostService(t)
	author := seedUser(t, svc.db, "author")
	store.objects["upload/posts/old.png"] = "upload/posts/old.png"

	post, err := svc.Create(PostInput{
		Title:    "Hello World",
		Body:     "body",
		CoverURL: "http://assets.test/helpinghand/upload/posts/old.png",
	}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	_, err = svc.Update(context.Background(), post.ID, author.ID, false, PostInput{
		Title:    "Hello World",
		Body:     "body",
		CoverURL: "http://assets.test/helpinghand/upload/posts/new.png",
	})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}

	if _, exists := store.objects["upload/posts/old.png"]; exists {
		t.Fatal("expected orphaned cover to be deleted from store")
	}
}

func TestPostServiceDeleteCascades(t *testing.T) {
	svc, store := setupPostService(t)
	author := seedUser(t, svc.db, "author")
	reader := seedUser(t, svc.db, "reader")
	store.objects["upload/posts/cover.png"] = "upload/posts/cover.png"

	post, err := svc.Create(PostInput{
		Title:    "Hello World",
		Body:     "body",
		CoverURL: "http://assets.test/helpinghand/upload/posts/cover.png",
	}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	comments := NewCommentService(svc.db)
	if _, err := comments.Create(post.ID, author.ID, "first"); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if _, err := comments.Create(post.ID, reader.ID, "second"); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	report, err := svc.Delete(context.Background(), post.ID, author.ID, false)
	if err != nil {
		t.Fatalf("delete post: %v", err)
	}

	if report.CommentsDeleted != 2 {
		t.Fatalf("expected 2 comments deleted, got %d", report.CommentsDeleted)
	}
	if report.PostsDeleted != 1 {
		t.Fatalf("expected 1 post deleted, got %d", report.PostsDeleted)
	}
	if len(report.Assets) != 1 || report.Assets[0].Outcome != AssetDeleted {
		t.Fatalf("expected one deleted asset, got %+v", report.Assets)
	}

	var commentCount int64
	if err := svc.db.Model(&db.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if commentCount != 0 {
		t.Fatalf("expected comments removed, %d remain", commentCount)
	}

	if _, err := svc.Get(post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected post gone, got %v", err)
	}
}

func TestPostServiceDeleteIsNotIdempotentlySilent(t *testing.T) {
	svc, _ := setupPostService(t)
	author := seedUser(t, svc.db, "author")

	post, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := svc.Delete(context.Background(), post.ID, author.ID, false); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	if _, err := svc.Delete(context.Background(), post.ID, author.ID, false); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on second delete, got %v", err)
	}
}

func TestPostServiceDeleteForbiddenForNonOwner(t *testing.T) {
	svc, _ := setupPostService(t)
	author := seedUser(t, svc.db, "author")
	stranger := seedUser(t, svc.db, "stranger")

	post, err := svc.Create(PostInput{Title: "Hello World", Body: "body"}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := svc.Delete(context.Background(), post.ID, stranger.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Elevated privilege overrides ownership.
	if _, err := svc.Delete(context.Background(), post.ID, stranger.ID, true); err != nil {
		t.Fatalf("expected admin delete to succeed, got %v", err)
	}
}

func TestPostServiceDeleteSurvivesAssetFailure(t *testing.T) {
	svc, store := setupPostService(t)
	author := seedUser(t, svc.db, "author")
	store.objects["upload/posts/cover.png"] = "upload/posts/cover.png"
	store.failures = 3

	post, err := svc.Create(PostInput{
		Title:    "Hello World",
		Body:     "body",
		CoverURL: "http://assets.test/helpinghand/upload/posts/cover.png",
	}, author.ID)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	report, err := svc.Delete(context.Background(), post.ID, author.ID, false)
	if err != nil {
		t.Fatalf("expected delete to succeed despite asset failure, got %v", err)
	}

	if len(report.Assets) != 1 || report.Assets[0].Outcome != AssetError {
		t.Fatalf("expected asset outcome error, got %+v", report.Assets)
	}
	if report.Assets[0].Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", report.Assets[0].Attempts)
	}

	if _, err := svc.Get(post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected post record gone, got %v", err)
	}
}
