package worker

import (
	"context"
	"testing"

	"moviegram/internal/model"
	"moviegram/internal/queue"
)

type mockNotificationCreator struct {
	created []*model.Notification
	err     error
}

func (m *mockNotificationCreator) CreateFromEvent(ctx context.Context, n *model.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, n)
	return nil
}

func TestHandler_CommentReplied(t *testing.T) {
	creator := &mockNotificationCreator{}
	h := NewHandler(creator)

	event := queue.NewCommentRepliedEvent("m1", 12, 5, 7, "moviebuff", 3)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	n := creator.created[0]
	if n.UserID != 3 {
		t.Errorf("recipient = %d, want parent author 3", n.UserID)
	}
	if n.Type != model.NotificationTypeReply {
		t.Errorf("type = %q, want %q", n.Type, model.NotificationTypeReply)
	}
	if n.Message != "moviebuff replied to your comment" {
		t.Errorf("message = %q", n.Message)
	}
	if n.ActorID == nil || *n.ActorID != 7 {
		t.Errorf("actor = %v, want 7", n.ActorID)
	}
}

func TestHandler_CommentLiked(t *testing.T) {
	creator := &mockNotificationCreator{}
	h := NewHandler(creator)

	event := queue.NewCommentLikedEvent("m1", 42, 7, "moviebuff", 3)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(creator.created))
	}
	if creator.created[0].Message != "moviebuff liked your comment" {
		t.Errorf("message = %q", creator.created[0].Message)
	}
}

func TestHandler_SkipsSelfEngagement(t *testing.T) {
	creator := &mockNotificationCreator{}
	h := NewHandler(creator)

	// Actor and recipient are the same user: no notification either way
	replied := queue.NewCommentRepliedEvent("m1", 12, 5, 7, "moviebuff", 7)
	liked := queue.NewCommentLikedEvent("m1", 42, 7, "moviebuff", 7)

	if err := h.HandleEvent(context.Background(), replied); err != nil {
		t.Fatalf("self reply: %v", err)
	}
	if err := h.HandleEvent(context.Background(), liked); err != nil {
		t.Fatalf("self like: %v", err)
	}
	if len(creator.created) != 0 {
		t.Errorf("created %d notifications for self-engagement, want 0", len(creator.created))
	}
}

func TestHandler_UnknownEventType(t *testing.T) {
	h := NewHandler(&mockNotificationCreator{})

	err := h.HandleEvent(context.Background(), queue.EngagementEvent{Type: "mystery"})
	if err == nil {
		t.Error("expected error for unknown event type")
	}
}
