package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the engagement stream
const (
	EventCommentReplied = "comment_replied"
	EventCommentLiked   = "comment_liked"
)

// Stream names
const (
	StreamEngagement = "stream:engagement"
)

// Consumer group name for engagement workers
const (
	ConsumerGroupEngagement = "engagement_workers"
)

// EngagementEvent is published whenever a user interacts with someone else's
// comment. Workers turn these into notification rows; request handlers never
// write notifications directly.
type EngagementEvent struct {
	Type      string `json:"type"`      // EventCommentReplied, EventCommentLiked
	Timestamp int64  `json:"timestamp"` // Unix timestamp when the event occurred

	MovieID   string `json:"movie_id"`
	CommentID int64  `json:"comment_id"` // The comment acted on (the reply itself for replies)

	// ActorID is who replied or liked; ActorUsername is their name at event
	// time for notification text.
	ActorID       int64  `json:"actor_id"`
	ActorUsername string `json:"actor_username"`

	// RecipientID is the author of the comment being answered or liked.
	RecipientID int64 `json:"recipient_id"`

	// ParentCommentID is set on reply events: the comment that was answered.
	ParentCommentID int64 `json:"parent_comment_id,omitempty"`
}

// NewCommentRepliedEvent creates the event fired when a reply lands under
// someone's comment.
func NewCommentRepliedEvent(movieID string, replyID, parentID, actorID int64, actorUsername string, recipientID int64) EngagementEvent {
	return EngagementEvent{
		Type:            EventCommentReplied,
		Timestamp:       time.Now().Unix(),
		MovieID:         movieID,
		CommentID:       replyID,
		ParentCommentID: parentID,
		ActorID:         actorID,
		ActorUsername:   actorUsername,
		RecipientID:     recipientID,
	}
}

// NewCommentLikedEvent creates the event fired when a like toggles on.
// Unlikes publish nothing: removing a like is not worth a notification.
func NewCommentLikedEvent(movieID string, commentID, actorID int64, actorUsername string, recipientID int64) EngagementEvent {
	return EngagementEvent{
		Type:          EventCommentLiked,
		Timestamp:     time.Now().Unix(),
		MovieID:       movieID,
		CommentID:     commentID,
		ActorID:       actorID,
		ActorUsername: actorUsername,
		RecipientID:   recipientID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e EngagementEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEngagementEvent parses an EngagementEvent from Redis stream message values.
func ParseEngagementEvent(values map[string]interface{}) (EngagementEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return EngagementEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event EngagementEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return EngagementEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
