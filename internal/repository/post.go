package repository

import (
	"context"
	"errors"

	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines persistence operations for posts and their
// engagement records (comments and likes).
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Delete(ctx context.Context, id uint) error

	ListAll(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Post, error)
	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)

	AddComment(ctx context.Context, comment *models.Comment) error

	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	LikerIDs(ctx context.Context, postID uint) ([]uint, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.populateLikes(ctx, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// feedQuery applies the preloads and ordering shared by every feed. All
// feeds are reverse chronological by creation time.
func (r *postRepository) feedQuery(ctx context.Context, limit, offset int) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.User").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset)
}

func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.feedQuery(ctx, limit, offset).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.populateLikesAll(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	var posts []models.Post
	if err := r.feedQuery(ctx, limit, offset).
		Where("posts.user_id IN ?", authorIDs).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.populateLikesAll(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.feedQuery(ctx, limit, offset).
		Where("posts.user_id = ?", userID).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.populateLikesAll(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.feedQuery(ctx, limit, offset).
		Joins("JOIN likes l ON l.post_id = posts.id").
		Where("l.user_id = ?", userID).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.populateLikesAll(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// The unique (user_id, post_id) index absorbs concurrent duplicate likes.
	like := models.Like{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) LikerIDs(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Order("id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *postRepository) populateLikes(ctx context.Context, post *models.Post) error {
	ids, err := r.LikerIDs(ctx, post.ID)
	if err != nil {
		return err
	}
	post.LikerIDs = ids
	return nil
}

func (r *postRepository) populateLikesAll(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	postIDs := make([]uint, len(posts))
	for i := range posts {
		postIDs[i] = posts[i].ID
	}
	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("id").
		Find(&likes).Error; err != nil {
		return models.NewInternalError(err)
	}
	byPost := make(map[uint][]uint, len(posts))
	for _, l := range likes {
		byPost[l.PostID] = append(byPost[l.PostID], l.UserID)
	}
	for i := range posts {
		if ids, ok := byPost[posts[i].ID]; ok {
			posts[i].LikerIDs = ids
		} else {
			posts[i].LikerIDs = []uint{}
		}
	}
	return nil
}
