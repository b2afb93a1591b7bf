package model

import (
	"errors"
	"time"
)

// Notification types
const (
	NotificationTypeReply  = "comment_reply"
	NotificationTypeLike   = "comment_like"
	NotificationTypeSystem = "system"
)

// Notification is an in-app notification delivered by polling.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	ActorID   *int64    `db:"actor_id" json:"actor_id,omitempty"`
	Type      string    `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	CommentID *int64    `db:"comment_id" json:"comment_id,omitempty"`
	MovieID   *string   `db:"movie_id" json:"movie_id,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateNotificationRequest is the request body for POST /notifications.
// Used by the client for system-style toasts it wants persisted.
type CreateNotificationRequest struct {
	Message string `json:"message"`
}

// MarkReadRequest is the request body for POST /notifications/read.
type MarkReadRequest struct {
	IDs []int64 `json:"ids"`
}

// NotificationListResponse is the notification list with its unread count.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMessageRequired      = errors.New("notification message is required")
)
