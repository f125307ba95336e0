package repository

import (
	"context"
	"errors"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines persistence operations for stories and their
// viewer sets. Visibility is a pure time predicate, so every listing
// method takes the caller's notion of now instead of reading the clock.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uint) (*models.Story, error)
	ListActiveByUser(ctx context.Context, userID uint, now time.Time) ([]models.Story, error)
	ListActiveByOwners(ctx context.Context, ownerIDs []uint, now time.Time) ([]models.Story, error)
	MarkViewed(ctx context.Context, storyID, viewerID uint) error
	Delete(ctx context.Context, id uint) error
	PurgeExpired(ctx context.Context, now time.Time) ([]models.Story, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository returns a new StoryRepository implementation.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID fetches a story regardless of expiry. Callers that need the
// visibility predicate apply it themselves; view marking deliberately
// accepts expired stories.
func (r *storyRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Views").
		First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Story", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &story, nil
}

func (r *storyRepository) ListActiveByUser(ctx context.Context, userID uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Views").
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		Find(&stories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

func (r *storyRepository) ListActiveByOwners(ctx context.Context, ownerIDs []uint, now time.Time) ([]models.Story, error) {
	if len(ownerIDs) == 0 {
		return []models.Story{}, nil
	}
	var stories []models.Story
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Views").
		Where("user_id IN ? AND expires_at > ?", ownerIDs, now).
		Order("created_at DESC").
		Find(&stories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

func (r *storyRepository) MarkViewed(ctx context.Context, storyID, viewerID uint) error {
	// Idempotent on the unique (story_id, viewer_id) index.
	view := models.StoryView{StoryID: storyID, ViewerID: viewerID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&view).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete hard-deletes a story and its views. Stories have no soft-delete
// lifecycle; once gone they are gone.
func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Story{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

// PurgeExpired removes every story past its expiry and returns the purged
// rows so the caller can release their media.
func (r *storyRepository) PurgeExpired(ctx context.Context, now time.Time) ([]models.Story, error) {
	var expired []models.Story
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expires_at <= ?", now).Find(&expired).Error; err != nil {
			return models.NewInternalError(err)
		}
		if len(expired) == 0 {
			return nil
		}
		ids := make([]uint, len(expired))
		for i := range expired {
			ids[i] = expired[i].ID
		}
		if err := tx.Where("story_id IN ?", ids).Delete(&models.StoryView{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Story{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}
