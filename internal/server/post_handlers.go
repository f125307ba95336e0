package server

import (
	"io"

	"ripple/internal/media"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Text  string `json:"text"`
	Media string `json:"media"`
}

type createCommentRequest struct {
	Text string `json:"text"`
}

// mediaFromRequest extracts the optional media payload from a request:
// a multipart file under the "media" field wins, otherwise a non-empty
// encoded reference from the JSON body. Returns nil when neither is present.
func mediaFromRequest(c *fiber.Ctx, encoded string) (media.Input, error) {
	file, err := c.FormFile("media")
	if err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return nil, models.NewValidationError("Could not read media file")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, models.NewValidationError("Could not read media file")
		}
		return media.Bytes{Data: data, Filename: file.Filename}, nil
	}
	if encoded != "" {
		return media.EncodedRef(encoded), nil
	}
	return nil, nil
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req createPostRequest
	// Body parsing is best-effort: a pure multipart request has no JSON body.
	_ = c.BodyParser(&req)
	if req.Text == "" {
		req.Text = c.FormValue("text")
	}
	if req.Media == "" {
		req.Media = c.FormValue("media")
	}

	mediaInput, err := mediaFromRequest(c, req.Media)
	if err != nil {
		return respondServiceError(c, err)
	}

	post, err := s.postService.Create(ctx, userID, req.Text, mediaInput)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(ctx, userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikePost handles POST /api/posts/:id/like.
// Toggles the caller's like and returns the post's liker IDs after the call.
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likerIDs, err := s.postService.ToggleLike(ctx, userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(likerIDs)
}

// CreateComment handles POST /api/posts/:id/comment
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Comment(ctx, userID, postID, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetAllPosts handles GET /api/posts/all
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	p := parsePagination(c, 20)

	posts, err := s.postService.FeedAll(ctx, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetFollowingPosts handles GET /api/posts/following
func (s *Server) GetFollowingPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	posts, err := s.postService.FeedFollowing(ctx, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/user/:username
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	username := c.Params("username")
	p := parsePagination(c, 20)

	posts, err := s.postService.FeedByUsername(ctx, username, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetLikedPosts handles GET /api/posts/likes/:id
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.FeedLikedBy(ctx, targetID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}
