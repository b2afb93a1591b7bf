package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"moviegram/internal/model"
	"moviegram/internal/repository"
)

// =============================================================================
// Test Helpers
// =============================================================================

const testMovieID = "tt-repo-test"

func setupTestDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=moviegram_test port=5432 sslmode=disable"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Postgres not available, skipping test: %v", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS comments (
			id BIGSERIAL PRIMARY KEY,
			movie_id TEXT NOT NULL,
			user_id BIGINT NOT NULL,
			author_username TEXT NOT NULL,
			content TEXT NOT NULL,
			parent_comment_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS comment_likes (
			comment_id BIGINT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			PRIMARY KEY (comment_id, user_id)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Scope cleanup to this suite's movie so dev rows are untouched
	if _, err := db.Exec(`DELETE FROM comments WHERE movie_id = $1`, testMovieID); err != nil {
		t.Fatalf("Failed to clean test rows: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM comments WHERE movie_id = $1`, testMovieID)
		db.Close()
	})

	return db
}

func mustCreate(t *testing.T, repo repository.CommentRepository, content string, parentID *int64) *model.Comment {
	t.Helper()
	comment, err := repo.Create(context.Background(), testMovieID, 1, "moviebuff", content, parentID)
	if err != nil {
		t.Fatalf("Failed to create comment %q: %v", content, err)
	}
	return comment
}

// =============================================================================
// DELETE CASCADE
// =============================================================================

// Deleting a comment removes it and its direct replies only. A reply to a
// reply keeps its row, left behind with a dangling parent reference.
func TestCommentRepository_DeleteCascadesOneHopOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCommentRepository(db)
	ctx := context.Background()

	root := mustCreate(t, repo, "root", nil)
	child := mustCreate(t, repo, "child", &root.ID)
	grandchild := mustCreate(t, repo, "grandchild", &child.ID)

	deleted, err := repo.DeleteWithReplies(ctx, root.ID)
	if err != nil {
		t.Fatalf("DeleteWithReplies failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 rows deleted (root + direct reply), got %d", deleted)
	}

	if _, err := repo.GetByID(ctx, root.ID); !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("expected root gone, got err=%v", err)
	}
	if _, err := repo.GetByID(ctx, child.ID); !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("expected child gone, got err=%v", err)
	}

	survivor, err := repo.GetByID(ctx, grandchild.ID)
	if err != nil {
		t.Fatalf("expected grandchild to survive, got err=%v", err)
	}
	if survivor.ParentID == nil || *survivor.ParentID != child.ID {
		t.Errorf("expected grandchild to keep its dangling parent reference %d, got %v", child.ID, survivor.ParentID)
	}

	flat, err := repo.ListByMovieID(ctx, testMovieID, 0)
	if err != nil {
		t.Fatalf("ListByMovieID failed: %v", err)
	}
	if len(flat) != 1 || flat[0].ID != grandchild.ID {
		t.Errorf("expected the flat store to hold only the grandchild, got %d rows", len(flat))
	}
}

func TestCommentRepository_DeleteUnknownIDIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCommentRepository(db)
	ctx := context.Background()

	keeper := mustCreate(t, repo, "keeper", nil)

	deleted, err := repo.DeleteWithReplies(ctx, keeper.ID+1000)
	if err != nil {
		t.Fatalf("DeleteWithReplies failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 rows deleted for unknown id, got %d", deleted)
	}

	if _, err := repo.GetByID(ctx, keeper.ID); err != nil {
		t.Errorf("expected unrelated comment untouched, got err=%v", err)
	}
}

func TestCommentRepository_DeleteRemovesLikesWithComment(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCommentRepository(db)
	ctx := context.Background()

	root := mustCreate(t, repo, "root", nil)
	reply := mustCreate(t, repo, "reply", &root.ID)

	if _, err := repo.AddLike(ctx, reply.ID, 7); err != nil {
		t.Fatalf("AddLike failed: %v", err)
	}

	if _, err := repo.DeleteWithReplies(ctx, root.ID); err != nil {
		t.Fatalf("DeleteWithReplies failed: %v", err)
	}

	count, err := repo.CountLikes(ctx, reply.ID)
	if err != nil {
		t.Fatalf("CountLikes failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected likes to cascade away with the comment, got %d", count)
	}
}
