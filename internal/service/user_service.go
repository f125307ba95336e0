package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// suggestedUserLimit caps how many suggestions a single request returns.
const suggestedUserLimit = 4

// UserService provides user profile and discovery logic.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// GetByID returns the user with the given ID.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the public profile for a username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// GetSuggested returns up to four users the caller does not already
// follow, picked at random.
func (s *UserService) GetSuggested(ctx context.Context, userID uint) ([]models.User, error) {
	followingIDs, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.ListSuggested(ctx, userID, followingIDs, suggestedUserLimit)
}
