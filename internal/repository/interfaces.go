package repository

import (
	"context"
	"time"

	"moviegram/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateUsername(ctx context.Context, userID int64, username string) error
	UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHashed string) error
	UpdateAvatar(ctx context.Context, userID int64, avatarURL, avatarKey string) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CommentRepository interface {
	// Create inserts a comment with the author snapshot taken at creation time.
	Create(ctx context.Context, movieID string, userID int64, authorUsername, content string, parentID *int64) (*model.Comment, error)
	// GetByID retrieves a single comment without like enrichment.
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// ListByMovieID returns every comment for a movie ordered by creation time
	// ascending, with like counts and the viewer's like flag joined in.
	// viewerID 0 means anonymous.
	ListByMovieID(ctx context.Context, movieID string, viewerID int64) ([]model.Comment, error)
	// DeleteWithReplies removes the comment and its direct replies only.
	// Returns the number of rows removed; 0 for an unknown id (no-op).
	DeleteWithReplies(ctx context.Context, commentID int64) (int64, error)
	// AddLike records a like; returns false if the user already liked it.
	AddLike(ctx context.Context, commentID, userID int64) (bool, error)
	// RemoveLike removes a like; returns false if there was nothing to remove.
	RemoveLike(ctx context.Context, commentID, userID int64) (bool, error)
	// CountLikes returns the current like count for a comment.
	CountLikes(ctx context.Context, commentID int64) (int, error)
}

type WishlistRepository interface {
	Add(ctx context.Context, item *model.WishlistItem) error
	Remove(ctx context.Context, userID int64, movieID string) error
	ListByUser(ctx context.Context, userID int64) ([]model.WishlistItem, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListByUser returns the newest notifications first, plus the user's total
	// unread count.
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, int, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	// Delete removes a notification owned by the user. Unknown ids are a no-op.
	Delete(ctx context.Context, userID, notificationID int64) error
}

type OTPRepository interface {
	// Replace deletes any earlier codes for the email and stores the new one.
	Replace(ctx context.Context, otp *model.PasswordOTP) error
	Find(ctx context.Context, email, code string) (*model.PasswordOTP, error)
	DeleteByEmail(ctx context.Context, email string) error
}
