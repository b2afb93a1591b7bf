package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"moviegram/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment. The author username is snapshotted into the
// row so comment history shows the name the author had when posting.
// parent_comment_id carries no foreign key, so a reply whose parent is later
// removed keeps its reference as a dangling pointer.
func (r *commentRepository) Create(ctx context.Context, movieID string, userID int64, authorUsername, content string, parentID *int64) (*model.Comment, error) {
	query := `
		INSERT INTO comments (movie_id, user_id, author_username, content, parent_comment_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	comment := model.Comment{
		MovieID:  movieID,
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
		Author: &model.CommentAuthor{
			UserID:   userID,
			Username: authorUsername,
		},
	}

	err := r.db.QueryRowxContext(ctx, query, movieID, userID, authorUsername, content, parentID).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	return &comment, nil
}

// GetByID retrieves a single comment without like enrichment.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, movie_id, user_id, author_username, content, parent_comment_id, created_at
		FROM comments
		WHERE id = $1
	`

	var row commentRow
	err := r.db.GetContext(ctx, &row, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	comment := row.toComment()
	return &comment, nil
}

// commentRow scans a comment row with its denormalized author columns.
type commentRow struct {
	ID             int64     `db:"id"`
	MovieID        string    `db:"movie_id"`
	UserID         int64     `db:"user_id"`
	AuthorUsername string    `db:"author_username"`
	Content        string    `db:"content"`
	ParentID       *int64    `db:"parent_comment_id"`
	CreatedAt      time.Time `db:"created_at"`
	LikesCount     int       `db:"likes_count"`
	LikedByViewer  bool      `db:"liked_by_viewer"`
}

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:        row.ID,
		MovieID:   row.MovieID,
		UserID:    row.UserID,
		Content:   row.Content,
		ParentID:  row.ParentID,
		CreatedAt: row.CreatedAt,
		Author: &model.CommentAuthor{
			UserID:   row.UserID,
			Username: row.AuthorUsername,
		},
		LikesCount:    row.LikesCount,
		LikedByViewer: row.LikedByViewer,
	}
}

// ListByMovieID returns the full flat comment set for one movie, oldest first.
// created_at is the sole sort key; id breaks ties for rows created in the same
// instant. No pagination: the client renders a movie's whole thread at once.
func (r *commentRepository) ListByMovieID(ctx context.Context, movieID string, viewerID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.movie_id, c.user_id, c.author_username, c.content, c.parent_comment_id, c.created_at,
		       COUNT(l.user_id) AS likes_count,
		       COALESCE(BOOL_OR(l.user_id = $2), FALSE) AS liked_by_viewer
		FROM comments c
		LEFT JOIN comment_likes l ON l.comment_id = c.id
		WHERE c.movie_id = $1
		GROUP BY c.id
		ORDER BY c.created_at ASC, c.id ASC
	`

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, movieID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}

	return comments, nil
}

// DeleteWithReplies removes the comment and its direct replies in one
// statement. The cascade is one hop only: replies-to-replies keep their rows
// and become orphans, invisible once the tree is rebuilt. Likes go with their
// comments via ON DELETE CASCADE on comment_likes.
func (r *commentRepository) DeleteWithReplies(ctx context.Context, commentID int64) (int64, error) {
	query := `DELETE FROM comments WHERE id = $1 OR parent_comment_id = $1`

	result, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}

	return result.RowsAffected()
}

// AddLike records a like. ON CONFLICT DO NOTHING makes the insert a single
// atomic statement, so two near-simultaneous likes by the same user cannot
// both succeed.
func (r *commentRepository) AddLike(ctx context.Context, commentID, userID int64) (bool, error) {
	query := `
		INSERT INTO comment_likes (comment_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (comment_id, user_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add like rows affected: %w", err)
	}
	return rows > 0, nil
}

// RemoveLike removes a like if present.
func (r *commentRepository) RemoveLike(ctx context.Context, commentID, userID int64) (bool, error) {
	query := `DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("remove like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove like rows affected: %w", err)
	}
	return rows > 0, nil
}

// CountLikes returns the like count for a comment.
func (r *commentRepository) CountLikes(ctx context.Context, commentID int64) (int, error) {
	query := `SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, commentID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}
