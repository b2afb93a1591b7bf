package service

import (
	"context"
	"log"
	"strings"

	"moviegram/internal/model"
	"moviegram/internal/repository"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List returns the user's newest notifications plus their unread count.
// limit <= 0 falls back to the default page size.
func (s *NotificationService) List(ctx context.Context, userID int64, limit int) (*model.NotificationListResponse, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	notifications, unread, err := s.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// CreateSystem stores a free-form notification addressed to the user
// themselves, used by clients to surface app-level messages.
func (s *NotificationService) CreateSystem(ctx context.Context, userID int64, req model.CreateNotificationRequest) (*model.Notification, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, model.ErrMessageRequired
	}

	n := &model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypeSystem,
		Message: message,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateFromEvent persists a notification produced by the engagement worker.
func (s *NotificationService) CreateFromEvent(ctx context.Context, n *model.Notification) error {
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	log.Printf("[NotificationService] Stored %s notification for user %d", n.Type, n.UserID)
	return nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.notificationRepo.MarkRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, notificationID int64) error {
	return s.notificationRepo.Delete(ctx, userID, notificationID)
}
