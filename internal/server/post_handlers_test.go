package server

import (
	"bytes"
	"encoding/json"
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

func jsonRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreatePost(t *testing.T) {
	srv, db, store := setupTestServer(t)
	alice := createUser(t, db, "alice")

	app := fiber.New()
	app.Post("/posts", authAs(alice.ID), srv.CreatePost)

	t.Run("TextOnly", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts", fiber.Map{"text": "hello world"})
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var post models.Post
		decodeBody(t, resp, &post)
		assert.Equal(t, "hello world", post.Text)
		assert.Equal(t, alice.ID, post.UserID)
		assert.NotNil(t, post.LikerIDs)
	})

	t.Run("EncodedMedia", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts", fiber.Map{"media": "data:image/png;base64,abc"})
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var post models.Post
		decodeBody(t, resp, &post)
		assert.NotEmpty(t, post.MediaURL)
		assert.Equal(t, 1, store.UploadCount())
	})

	t.Run("EmptyRejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts", fiber.Map{"text": ""})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UploadFailure", func(t *testing.T) {
		store.FailUploads = true
		defer func() { store.FailUploads = false }()

		req := jsonRequest(t, http.MethodPost, "/posts", fiber.Map{"media": "ref"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var count int64
		db.Model(&models.Post{}).Count(&count)
		assert.Equal(t, int64(2), count, "failed upload persisted nothing")
	})
}

func TestDeletePost(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	post := &models.Post{UserID: alice.ID, Text: "mine"}
	require.NoError(t, db.Create(post).Error)

	deleteAs := func(t *testing.T, userID uint, postID string) *http.Response {
		app := fiber.New()
		app.Delete("/posts/:id", authAs(userID), srv.DeletePost)
		req := httptest.NewRequest(http.MethodDelete, "/posts/"+postID, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("NonAuthorRejected", func(t *testing.T) {
		resp := deleteAs(t, bob.ID, fmt.Sprint(post.ID))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("AuthorDeletes", func(t *testing.T) {
		resp := deleteAs(t, alice.ID, fmt.Sprint(post.ID))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		db.Model(&models.Post{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Missing", func(t *testing.T) {
		resp := deleteAs(t, alice.ID, "9999")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLikePostToggle(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	post := &models.Post{UserID: bob.ID, Text: "likeable"}
	require.NoError(t, db.Create(post).Error)

	app := fiber.New()
	app.Post("/posts/:id/like", authAs(alice.ID), srv.LikePost)

	like := func(t *testing.T) []uint {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%d/like", post.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var ids []uint
		decodeBody(t, resp, &ids)
		return ids
	}

	// Like
	ids := like(t)
	assert.Equal(t, []uint{alice.ID}, ids)

	var notifs int64
	db.Model(&models.Notification{}).Where("type = ?", models.NotificationTypeLike).Count(&notifs)
	assert.Equal(t, int64(1), notifs)

	// Unlike: inverse, and silent
	ids = like(t)
	assert.Empty(t, ids)
	db.Model(&models.Notification{}).Where("type = ?", models.NotificationTypeLike).Count(&notifs)
	assert.Equal(t, int64(1), notifs)

	// Re-like appends a second notification; the sink never merges
	ids = like(t)
	assert.Equal(t, []uint{alice.ID}, ids)
	db.Model(&models.Notification{}).Where("type = ?", models.NotificationTypeLike).Count(&notifs)
	assert.Equal(t, int64(2), notifs)
}

func TestCreateComment(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	post := &models.Post{UserID: bob.ID, Text: "discuss"}
	require.NoError(t, db.Create(post).Error)

	app := fiber.New()
	app.Post("/posts/:id/comment", authAs(alice.ID), srv.CreateComment)

	t.Run("Success", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, fmt.Sprintf("/posts/%d/comment", post.ID), fiber.Map{"text": "nice"})
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var updated models.Post
		decodeBody(t, resp, &updated)
		require.Len(t, updated.Comments, 1)
		assert.Equal(t, "nice", updated.Comments[0].Text)

		var notifs int64
		db.Model(&models.Notification{}).Count(&notifs)
		assert.Zero(t, notifs, "comments never notify")
	})

	t.Run("EmptyText", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, fmt.Sprintf("/posts/%d/comment", post.ID), fiber.Map{"text": " "})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MissingPost", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts/9999/comment", fiber.Map{"text": "hi"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPostFeeds(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID}).Error)

	base := time.Now().Add(-time.Hour)
	posts := []*models.Post{
		{UserID: alice.ID, Text: "mine", CreatedAt: base},
		{UserID: bob.ID, Text: "followed", CreatedAt: base.Add(time.Minute)},
		{UserID: carol.ID, Text: "stranger", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, p := range posts {
		require.NoError(t, db.Create(p).Error)
	}
	require.NoError(t, db.Create(&models.Like{UserID: alice.ID, PostID: posts[1].ID}).Error)

	app := fiber.New()
	app.Use(authAs(alice.ID))
	app.Get("/posts/all", srv.GetAllPosts)
	app.Get("/posts/following", srv.GetFollowingPosts)
	app.Get("/posts/user/:username", srv.GetUserPosts)
	app.Get("/posts/likes/:id", srv.GetLikedPosts)

	get := func(t *testing.T, url string) []models.Post {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var feed []models.Post
		decodeBody(t, resp, &feed)
		return feed
	}

	t.Run("AllNewestFirst", func(t *testing.T) {
		feed := get(t, "/posts/all")
		require.Len(t, feed, 3)
		assert.Equal(t, "stranger", feed[0].Text)
		assert.Equal(t, "followed", feed[1].Text)
		assert.Equal(t, "mine", feed[2].Text)
	})

	t.Run("FollowingExcludesSelfAndStrangers", func(t *testing.T) {
		feed := get(t, "/posts/following")
		require.Len(t, feed, 1)
		assert.Equal(t, "followed", feed[0].Text)
	})

	t.Run("ByUsername", func(t *testing.T) {
		feed := get(t, "/posts/user/carol")
		require.Len(t, feed, 1)
		assert.Equal(t, "stranger", feed[0].Text)

		req := httptest.NewRequest(http.MethodGet, "/posts/user/ghost", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("LikedBy", func(t *testing.T) {
		feed := get(t, fmt.Sprintf("/posts/likes/%d", alice.ID))
		require.Len(t, feed, 1)
		assert.Equal(t, "followed", feed[0].Text)
		assert.Equal(t, []uint{alice.ID}, feed[0].LikerIDs)
	})
}
