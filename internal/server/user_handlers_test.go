package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUser(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	app := fiber.New()
	app.Post("/users/follow/:id", authAs(alice.ID), srv.FollowUser)

	follow := func(t *testing.T, id string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/users/follow/"+id, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("FollowThenUnfollow", func(t *testing.T) {
		resp := follow(t, strconv.Itoa(int(bob.ID)))
		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "User followed successfully", body["message"])

		var edges int64
		db.Model(&models.Follow{}).Count(&edges)
		assert.Equal(t, int64(1), edges)

		var notifs int64
		db.Model(&models.Notification{}).
			Where("type = ?", models.NotificationTypeFollow).Count(&notifs)
		assert.Equal(t, int64(1), notifs)

		resp = follow(t, strconv.Itoa(int(bob.ID)))
		decodeBody(t, resp, &body)
		assert.Equal(t, "User unfollowed successfully", body["message"])

		db.Model(&models.Follow{}).Count(&edges)
		assert.Zero(t, edges)

		// Unfollow is silent: still one notification
		db.Model(&models.Notification{}).
			Where("type = ?", models.NotificationTypeFollow).Count(&notifs)
		assert.Equal(t, int64(1), notifs)
	})

	t.Run("SelfFollowRejected", func(t *testing.T) {
		resp := follow(t, strconv.Itoa(int(alice.ID)))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		resp := follow(t, "9999")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("InvalidID", func(t *testing.T) {
		resp := follow(t, "abc")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestFollowListings(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID}).Error)

	app := fiber.New()
	app.Get("/users/:username/followers", srv.GetFollowers)
	app.Get("/users/:username/following", srv.GetFollowing)

	t.Run("Followers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/bob/followers", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		var users []models.User
		decodeBody(t, resp, &users)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Username)
	})

	t.Run("Following", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/alice/following", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		var users []models.User
		decodeBody(t, resp, &users)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Username)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/ghost/followers", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetUserProfile(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")

	app := fiber.New()
	app.Get("/users/profile/:username", authAs(alice.ID), srv.GetUserProfile)

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/profile/alice", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "alice", body["username"])
		_, hasPassword := body["password"]
		assert.False(t, hasPassword, "credentials never serialized")
	})

	t.Run("NotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/profile/ghost", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetSuggestedUsers(t *testing.T) {
	srv, db, _ := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	createUser(t, db, "carol")
	createUser(t, db, "dave")
	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID}).Error)

	app := fiber.New()
	app.Get("/users/suggested", authAs(alice.ID), srv.GetSuggestedUsers)

	req := httptest.NewRequest(http.MethodGet, "/users/suggested", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var users []models.User
	decodeBody(t, resp, &users)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotEqual(t, alice.ID, u.ID)
		assert.NotEqual(t, bob.ID, u.ID, "already-followed users are not suggested")
	}
}
