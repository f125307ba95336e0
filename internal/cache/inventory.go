package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	StoryFeedKeyPrefix   = "stories:feed:%d"
	UserStoriesKeyPrefix = "stories:user:%d"
)

const (
	UserTTL = 5 * time.Minute
	// Story lists expire quickly: the visibility predicate is time-based,
	// so a long TTL would keep dead stories visible.
	StoryListTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func StoryFeedKey(viewerID uint) string {
	return fmt.Sprintf(StoryFeedKeyPrefix, viewerID)
}

func UserStoriesKey(userID uint) string {
	return fmt.Sprintf(UserStoriesKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateUserStories drops the owner's own story list and feed entries.
// Followers' cached feeds are not enumerable from here; they age out via
// StoryListTTL instead.
func InvalidateUserStories(ctx context.Context, userID uint) {
	Invalidate(ctx, UserStoriesKey(userID))
	Invalidate(ctx, StoryFeedKey(userID))
}
