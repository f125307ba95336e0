package service

import (
	"context"
	"strings"

	"ripple/internal/media"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
)

// PostService provides post business logic: creation, deletion, likes,
// comments and the feed queries.
type PostService struct {
	postRepo      repository.PostRepository
	userRepo      repository.UserRepository
	followRepo    repository.FollowRepository
	notifications *NotificationService
	media         media.Store
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	notifications *NotificationService,
	mediaStore media.Store,
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		userRepo:      userRepo,
		followRepo:    followRepo,
		notifications: notifications,
		media:         mediaStore,
	}
}

// Create creates a post for the user. Text and media are each optional but
// at least one must be present. Media is uploaded before anything is
// persisted; an upload failure aborts the whole operation.
func (s *PostService) Create(ctx context.Context, userID uint, text string, mediaInput media.Input) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" && mediaInput == nil {
		return nil, models.NewValidationError("Post must have text or media")
	}

	post := &models.Post{
		UserID: userID,
		Text:   text,
	}

	if mediaInput != nil {
		upload, err := s.media.Upload(ctx, mediaInput, media.KindImage)
		if err != nil {
			return nil, models.NewUpstreamError("Media upload failed", err)
		}
		post.MediaURL = upload.URL
		post.MediaDeleteID = upload.DeleteID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Delete removes the user's post. Only the author may delete. The stored
// media is released best-effort after the post row is gone; a failed media
// delete is logged and swallowed.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if post.MediaDeleteID != "" {
		if err := s.media.Delete(ctx, post.MediaDeleteID); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete post media",
				"post_id", postID, "delete_id", post.MediaDeleteID, "error", err)
		}
	}
	return nil
}

// ToggleLike likes the post if the user has not liked it, otherwise removes
// the like. Returns the post's liker IDs after the call. A notification is
// emitted only on the unliked-to-liked transition; unliking is silent.
//
// The liked check and the write are separate statements, so two racing
// toggles can both observe "not liked". The unique like index keeps at most
// one like row per user, but both callers may emit a notification.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) ([]uint, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.Like(ctx, userID, postID); err != nil {
			return nil, err
		}
		if err := s.notifications.Emit(ctx, userID, post.UserID, models.NotificationTypeLike); err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to emit like notification",
				"from_id", userID, "to_id", post.UserID, "post_id", postID, "error", err)
		}
	}

	return s.postRepo.LikerIDs(ctx, postID)
}

// Comment appends a comment to the post. Comments never notify anyone.
func (s *PostService) Comment(ctx context.Context, userID, postID uint, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// GetByID returns a single post with its author, comments and liker IDs.
func (s *PostService) GetByID(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// FeedAll returns every post, newest first.
func (s *PostService) FeedAll(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.postRepo.ListAll(ctx, limit, offset)
}

// FeedFollowing returns posts from the users the caller follows, newest
// first. The caller's own posts are not included.
func (s *PostService) FeedFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	authorIDs, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.postRepo.ListByAuthors(ctx, authorIDs, limit, offset)
}

// FeedByUsername returns the named user's posts, newest first.
func (s *PostService) FeedByUsername(ctx context.Context, username string, limit, offset int) ([]models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.postRepo.ListByUserID(ctx, user.ID, limit, offset)
}

// FeedLikedBy returns the posts the given user has liked, newest first.
func (s *PostService) FeedLikedBy(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.ListLikedBy(ctx, userID, limit, offset)
}
