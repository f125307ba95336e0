package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createStoryRequest struct {
	Type    string `json:"type"`
	Caption string `json:"caption"`
	Media   string `json:"media"`
}

type markViewedRequest struct {
	StoryID uint `json:"story_id"`
}

// CreateStory handles POST /api/stories.
// The media payload is either a multipart file under "media" or an
// encoded reference in the JSON body; the story expires 24 hours from now.
func (s *Server) CreateStory(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req createStoryRequest
	_ = c.BodyParser(&req)
	if req.Type == "" {
		req.Type = c.FormValue("type")
	}
	if req.Caption == "" {
		req.Caption = c.FormValue("caption")
	}
	if req.Media == "" {
		req.Media = c.FormValue("media")
	}

	mediaInput, err := mediaFromRequest(c, req.Media)
	if err != nil {
		return respondServiceError(c, err)
	}

	story, err := s.storyService.Create(ctx, userID, mediaInput, models.StoryKind(req.Type), req.Caption)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// GetUserStories handles GET /api/stories/user/:userId.
// Returns only the user's unexpired stories.
func (s *Server) GetUserStories(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	stories, err := s.storyService.ListForUser(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stories)
}

// GetStoryFeed handles GET /api/stories/feed/:userId.
// Returns unexpired stories from the user and everyone they follow.
func (s *Server) GetStoryFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	stories, err := s.storyService.ListFeed(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stories)
}

// MarkStoryViewed handles POST /api/stories/viewed.
// Idempotent; an expired-but-unpurged story can still be marked.
func (s *Server) MarkStoryViewed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req markViewedRequest
	if err := c.BodyParser(&req); err != nil || req.StoryID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("story_id is required"))
	}

	if err := s.storyService.MarkViewed(ctx, req.StoryID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteStory handles DELETE /api/stories/:storyId
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	storyID, err := s.parseID(c, "storyId")
	if err != nil {
		return nil
	}

	if err := s.storyService.Delete(ctx, userID, storyID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
