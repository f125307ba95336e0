// Package service contains the business logic for the application.
package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"
)

// NotificationService is the append-only sink for engagement events.
// Emit never deduplicates: follow/unfollow/follow cycles and
// like/unlike/like cycles each produce a fresh record.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// Emit appends a notification of the given type from one user to another.
func (s *NotificationService) Emit(ctx context.Context, fromID, toID uint, typ models.NotificationType) error {
	n := &models.Notification{
		FromID: fromID,
		ToID:   toID,
		Type:   typ,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return err
	}
	observability.NotificationsEmitted.WithLabelValues(string(typ)).Inc()
	return nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID, limit, offset)
}
