package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/follow/:id.
// Toggles the follow edge: following an unfollowed user follows (and
// notifies them), following an already-followed user unfollows silently.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.Toggle(ctx, userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "User unfollowed successfully"
	if following {
		message = "User followed successfully"
	}
	return c.JSON(fiber.Map{"message": message})
}

// GetFollowers handles GET /api/users/:username/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.Context()
	username := c.Params("username")

	users, err := s.followService.Followers(ctx, username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:username/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	username := c.Params("username")

	users, err := s.followService.Following(ctx, username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/profile/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	username := c.Params("username")

	user, err := s.userService.GetProfile(ctx, username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetSuggestedUsers handles GET /api/users/suggested
func (s *Server) GetSuggestedUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.userService.GetSuggested(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}
