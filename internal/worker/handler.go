package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"moviegram/internal/model"
	"moviegram/internal/queue"
)

// NotificationCreator defines the interface for persisting notifications.
// This abstracts the service layer so workers don't depend on it directly.
type NotificationCreator interface {
	// CreateFromEvent writes a notification row for an engagement event.
	CreateFromEvent(ctx context.Context, n *model.Notification) error
}

// Handler turns engagement events into notification rows.
type Handler struct {
	notifCreator NotificationCreator
}

// NewHandler creates a new event handler.
func NewHandler(notifCreator NotificationCreator) *Handler {
	return &Handler{notifCreator: notifCreator}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.EngagementEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventCommentReplied:
		err = h.handleCommentReplied(ctx, event)
	case queue.EventCommentLiked:
		err = h.handleCommentLiked(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleCommentReplied notifies the author of the parent comment.
func (h *Handler) handleCommentReplied(ctx context.Context, event queue.EngagementEvent) error {
	// Self-replies need no notification
	if event.RecipientID == event.ActorID {
		return nil
	}

	n := &model.Notification{
		UserID:    event.RecipientID,
		ActorID:   &event.ActorID,
		Type:      model.NotificationTypeReply,
		Message:   event.ActorUsername + " replied to your comment",
		CommentID: &event.CommentID,
		MovieID:   &event.MovieID,
	}

	if err := h.notifCreator.CreateFromEvent(ctx, n); err != nil {
		return fmt.Errorf("create reply notification: %w", err)
	}

	log.Printf("[Worker] CommentReplied: notified user=%d actor=%d comment=%d",
		event.RecipientID, event.ActorID, event.CommentID)
	return nil
}

// handleCommentLiked notifies the author of the liked comment.
func (h *Handler) handleCommentLiked(ctx context.Context, event queue.EngagementEvent) error {
	if event.RecipientID == event.ActorID {
		return nil
	}

	n := &model.Notification{
		UserID:    event.RecipientID,
		ActorID:   &event.ActorID,
		Type:      model.NotificationTypeLike,
		Message:   event.ActorUsername + " liked your comment",
		CommentID: &event.CommentID,
		MovieID:   &event.MovieID,
	}

	if err := h.notifCreator.CreateFromEvent(ctx, n); err != nil {
		return fmt.Errorf("create like notification: %w", err)
	}

	log.Printf("[Worker] CommentLiked: notified user=%d actor=%d comment=%d",
		event.RecipientID, event.ActorID, event.CommentID)
	return nil
}
