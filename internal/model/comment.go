package model

import (
	"errors"
	"time"
)

// CommentAuthor is the denormalized author snapshot stored with each comment.
// The username is copied at creation time and never reconciled with later
// profile edits.
type CommentAuthor struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Comment represents a single comment on a movie or TV show. Comments are
// stored flat; ParentID links a reply to the comment it answers. A ParentID
// that no longer resolves (the parent was deleted) is tolerated and the
// comment is simply invisible in the assembled tree.
type Comment struct {
	ID            int64          `db:"id" json:"id"`
	MovieID       string         `db:"movie_id" json:"movie_id"`
	UserID        int64          `db:"user_id" json:"-"`
	Content       string         `db:"content" json:"content"`
	ParentID      *int64         `db:"parent_comment_id" json:"parent_id,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	Author        *CommentAuthor `json:"author,omitempty"`
	LikesCount    int            `db:"likes_count" json:"likes_count"`
	LikedByViewer bool           `db:"liked_by_viewer" json:"liked_by_viewer"`
}

// CommentNode is a comment with its replies attached. Nodes are materialized
// fresh on every retrieval and never persisted.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

// CreateCommentRequest is the request body for creating a comment or reply.
type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// CommentListResponse carries both the flat list and the assembled tree so
// clients can pick whichever shape they render from.
type CommentListResponse struct {
	Comments []Comment      `json:"comments"`
	Tree     []*CommentNode `json:"tree"`
}

// LikeResult is returned by the like toggle endpoint.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// Comment constraints
const (
	MaxCommentLength = 2200
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrContentRequired = errors.New("comment content is required")
	ErrContentTooLong  = errors.New("comment content too long")
	ErrMovieIDRequired = errors.New("movie id is required")
	ErrParentMismatch  = errors.New("parent comment belongs to a different movie")
)
