package service

import (
	"context"
	"time"

	"ripple/internal/middleware"
	"ripple/internal/observability"
)

// StoryReaper periodically purges stories past their expiry and releases
// their media. The reaper is an optimization: expired stories are already
// invisible to every query, so a missed or late run only leaves dead rows.
type StoryReaper struct {
	stories  *StoryService
	interval time.Duration
}

// NewStoryReaper returns a reaper that runs every interval.
func NewStoryReaper(stories *StoryService, interval time.Duration) *StoryReaper {
	return &StoryReaper{stories: stories, interval: interval}
}

// Run blocks, purging on every tick until the context is cancelled.
func (r *StoryReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	middleware.Logger.InfoContext(ctx, "story reaper started", "interval", r.interval.String())
	for {
		select {
		case <-ctx.Done():
			middleware.Logger.InfoContext(ctx, "story reaper stopped")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				middleware.Logger.ErrorContext(ctx, "story reaper sweep failed", "error", err)
			}
		}
	}
}

// Sweep purges everything currently expired. Media deletes are
// best-effort; a failed delete is logged and does not stop the sweep.
func (r *StoryReaper) Sweep(ctx context.Context) error {
	purged, err := r.stories.storyRepo.PurgeExpired(ctx, r.stories.now())
	if err != nil {
		return err
	}
	if len(purged) == 0 {
		return nil
	}

	for _, story := range purged {
		if story.MediaDeleteID == "" {
			continue
		}
		if err := r.stories.media.Delete(ctx, story.MediaDeleteID); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete expired story media",
				"story_id", story.ID, "delete_id", story.MediaDeleteID, "error", err)
		}
	}

	observability.StoriesPurged.Add(float64(len(purged)))
	middleware.Logger.InfoContext(ctx, "purged expired stories", "count", len(purged))
	return nil
}
