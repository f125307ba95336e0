package service

import (
	"context"

	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
)

// FollowService manages the follow graph between users.
type FollowService struct {
	followRepo    repository.FollowRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, notifications *NotificationService) *FollowService {
	return &FollowService{
		followRepo:    followRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// Toggle follows the target if not currently followed, otherwise unfollows.
// Returns true if the caller is following the target after the call.
//
// The check and the write are separate statements; two racing toggles for
// the same pair can both read "not following" and both follow. The unique
// edge index keeps the data consistent, but the outcome depends on timing.
func (s *FollowService) Toggle(ctx context.Context, userID, targetID uint) (bool, error) {
	if userID == targetID {
		return false, models.NewSelfReferenceError("You cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	following, err := s.followRepo.IsFollowing(ctx, userID, targetID)
	if err != nil {
		return false, err
	}

	if following {
		if err := s.followRepo.Unfollow(ctx, userID, targetID); err != nil {
			return false, err
		}
		// Unfollowing is silent.
		return false, nil
	}

	if err := s.followRepo.Follow(ctx, userID, targetID); err != nil {
		return false, err
	}
	if err := s.notifications.Emit(ctx, userID, targetID, models.NotificationTypeFollow); err != nil {
		// The follow itself succeeded; losing the notification is not
		// worth failing the request over.
		middleware.Logger.ErrorContext(ctx, "failed to emit follow notification",
			"from_id", userID, "to_id", targetID, "error", err)
	}
	return true, nil
}

// Followers returns the users following the given user.
func (s *FollowService) Followers(ctx context.Context, username string) ([]models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, user.ID)
}

// Following returns the users the given user follows.
func (s *FollowService) Following(ctx context.Context, username string) ([]models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, user.ID)
}
