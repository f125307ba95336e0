package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStory(t *testing.T) {
	srv, db, store := setupTestServer(t)
	alice := createUser(t, db, "alice")

	app := fiber.New()
	app.Post("/stories", authAs(alice.ID), srv.CreateStory)

	t.Run("EncodedRef", func(t *testing.T) {
		before := time.Now()
		req := jsonRequest(t, http.MethodPost, "/stories", fiber.Map{
			"type": "image", "caption": "sunset", "media": "data:image/png;base64,abc",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var story models.Story
		decodeBody(t, resp, &story)
		assert.Equal(t, alice.ID, story.UserID)
		assert.Equal(t, models.StoryKindImage, story.Kind)
		assert.Equal(t, "sunset", story.Caption)
		assert.NotEmpty(t, story.MediaURL)
		assert.Equal(t, 1, store.UploadCount())

		// Fixed 24h lifetime
		lifetime := story.ExpiresAt.Sub(story.CreatedAt)
		assert.Equal(t, models.StoryTTL, lifetime)
		assert.WithinDuration(t, before.Add(models.StoryTTL), story.ExpiresAt, 5*time.Second)
	})

	t.Run("MissingMedia", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/stories", fiber.Map{"type": "image"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("BadKind", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/stories", fiber.Map{"type": "gif", "media": "ref"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestStoryListings(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID}).Error)

	now := time.Now()
	live := &models.Story{UserID: bob.ID, MediaURL: "u1", Kind: models.StoryKindImage,
		CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(23 * time.Hour)}
	expired := &models.Story{UserID: bob.ID, MediaURL: "u2", Kind: models.StoryKindImage,
		CreatedAt: now.Add(-25 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	strangers := &models.Story{UserID: carol.ID, MediaURL: "u3", Kind: models.StoryKindImage,
		CreatedAt: now, ExpiresAt: now.Add(models.StoryTTL)}
	for _, s := range []*models.Story{live, expired, strangers} {
		require.NoError(t, db.Create(s).Error)
	}

	app := fiber.New()
	app.Get("/stories/user/:userId", srv.GetUserStories)
	app.Get("/stories/feed/:userId", srv.GetStoryFeed)

	get := func(t *testing.T, url string) []models.Story {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var stories []models.Story
		decodeBody(t, resp, &stories)
		return stories
	}

	t.Run("UserStoriesHideExpired", func(t *testing.T) {
		stories := get(t, fmt.Sprintf("/stories/user/%d", bob.ID))
		require.Len(t, stories, 1)
		assert.Equal(t, live.ID, stories[0].ID)
	})

	t.Run("FeedCoversSelfAndFollowed", func(t *testing.T) {
		own := &models.Story{UserID: alice.ID, MediaURL: "u4", Kind: models.StoryKindImage,
			CreatedAt: now, ExpiresAt: now.Add(models.StoryTTL)}
		require.NoError(t, db.Create(own).Error)

		stories := get(t, fmt.Sprintf("/stories/feed/%d", alice.ID))
		require.Len(t, stories, 2)
		// Newest first: alice's fresh story before bob's hour-old one.
		assert.Equal(t, own.ID, stories[0].ID)
		assert.Equal(t, live.ID, stories[1].ID)
	})

	t.Run("FeedForUnknownUser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stories/feed/9999", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestMarkStoryViewed(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	now := time.Now()
	expired := &models.Story{UserID: bob.ID, MediaURL: "u", Kind: models.StoryKindImage,
		CreatedAt: now.Add(-25 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, db.Create(expired).Error)

	app := fiber.New()
	app.Post("/stories/viewed", authAs(alice.ID), srv.MarkStoryViewed)

	mark := func(t *testing.T, storyID uint) *http.Response {
		req := jsonRequest(t, http.MethodPost, "/stories/viewed", fiber.Map{"story_id": storyID})
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("IdempotentEvenWhenExpired", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp := mark(t, expired.ID)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}

		var views int64
		db.Model(&models.StoryView{}).Where("story_id = ?", expired.ID).Count(&views)
		assert.Equal(t, int64(1), views)
	})

	t.Run("MissingStory", func(t *testing.T) {
		resp := mark(t, 9999)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("MissingStoryID", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/stories/viewed", fiber.Map{})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteStory(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	now := time.Now()
	story := &models.Story{UserID: alice.ID, MediaURL: "u", Kind: models.StoryKindImage,
		CreatedAt: now, ExpiresAt: now.Add(models.StoryTTL)}
	require.NoError(t, db.Create(story).Error)

	deleteAs := func(t *testing.T, userID uint, storyID string) *http.Response {
		app := fiber.New()
		app.Delete("/stories/:storyId", authAs(userID), srv.DeleteStory)
		req := httptest.NewRequest(http.MethodDelete, "/stories/"+storyID, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		resp := deleteAs(t, bob.ID, fmt.Sprint(story.ID))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("OwnerDeletes", func(t *testing.T) {
		resp := deleteAs(t, alice.ID, fmt.Sprint(story.ID))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		db.Model(&models.Story{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Missing", func(t *testing.T) {
		resp := deleteAs(t, alice.ID, "9999")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
