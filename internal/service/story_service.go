package service

import (
	"context"
	"time"

	"ripple/internal/cache"
	"ripple/internal/media"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
)

// StoryService provides the ephemeral story lifecycle. Every story lives
// exactly models.StoryTTL from creation; visibility is decided per query
// against the current time, never stored.
type StoryService struct {
	storyRepo  repository.StoryRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	media      media.Store

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

// NewStoryService returns a new StoryService.
func NewStoryService(storyRepo repository.StoryRepository, followRepo repository.FollowRepository, userRepo repository.UserRepository, mediaStore media.Store) *StoryService {
	return &StoryService{
		storyRepo:  storyRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
		media:      mediaStore,
		now:        time.Now,
	}
}

// Create publishes a story for the user from the given media input, which
// is either raw bytes or an already-encoded reference. The media upload
// happens first; if it fails nothing is persisted.
func (s *StoryService) Create(ctx context.Context, userID uint, input media.Input, kind models.StoryKind, caption string) (*models.Story, error) {
	if input == nil {
		return nil, models.NewValidationError("Story must have media")
	}
	if kind == "" {
		kind = models.StoryKindImage
	}
	if kind != models.StoryKindImage && kind != models.StoryKindVideo {
		return nil, models.NewValidationError("Story type must be image or video")
	}

	upload, err := s.media.Upload(ctx, input, media.Kind(kind))
	if err != nil {
		return nil, models.NewUpstreamError("Media upload failed", err)
	}

	now := s.now()
	story := &models.Story{
		UserID:        userID,
		MediaURL:      upload.URL,
		MediaDeleteID: upload.DeleteID,
		Kind:          kind,
		Caption:       caption,
		ExpiresAt:     now.Add(models.StoryTTL),
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	cache.InvalidateUserStories(ctx, userID)
	return s.storyRepo.GetByID(ctx, story.ID)
}

// ListForUser returns the user's unexpired stories, newest first.
func (s *StoryService) ListForUser(ctx context.Context, userID uint) ([]models.Story, error) {
	var stories []models.Story
	err := cache.Aside(ctx, cache.UserStoriesKey(userID), &stories, cache.StoryListTTL, func() error {
		var err error
		stories, err = s.storyRepo.ListActiveByUser(ctx, userID, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// ListFeed returns the unexpired stories of the user and everyone they
// follow, newest first.
func (s *StoryService) ListFeed(ctx context.Context, userID uint) ([]models.Story, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var stories []models.Story
	err := cache.Aside(ctx, cache.StoryFeedKey(userID), &stories, cache.StoryListTTL, func() error {
		ownerIDs, err := s.followRepo.FollowingIDs(ctx, userID)
		if err != nil {
			return err
		}
		ownerIDs = append(ownerIDs, userID)
		stories, err = s.storyRepo.ListActiveByOwners(ctx, ownerIDs, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// MarkViewed records that the viewer has seen the story. Marking is
// idempotent, and an expired-but-not-yet-purged story can still be marked;
// only a story that no longer exists is an error.
func (s *StoryService) MarkViewed(ctx context.Context, storyID, viewerID uint) error {
	if _, err := s.storyRepo.GetByID(ctx, storyID); err != nil {
		return err
	}
	return s.storyRepo.MarkViewed(ctx, storyID, viewerID)
}

// Delete removes the user's story before its natural expiry. Only the
// owner may delete. Media cleanup is best-effort.
func (s *StoryService) Delete(ctx context.Context, userID, storyID uint) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != userID {
		return models.NewForbiddenError("You can only delete your own stories")
	}

	if err := s.storyRepo.Delete(ctx, storyID); err != nil {
		return err
	}
	cache.InvalidateUserStories(ctx, userID)

	if story.MediaDeleteID != "" {
		if err := s.media.Delete(ctx, story.MediaDeleteID); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete story media",
				"story_id", storyID, "delete_id", story.MediaDeleteID, "error", err)
		}
	}
	return nil
}
