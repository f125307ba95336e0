package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine-level metrics exposed alongside the HTTP metrics on /metrics.
var (
	// NotificationsEmitted counts notifications written to the sink, by type.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_notifications_emitted_total",
		Help: "Notifications emitted by engagement transitions",
	}, []string{"type"})

	// StoriesPurged counts stories physically removed by the reaper.
	StoriesPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ripple_stories_purged_total",
		Help: "Expired stories deleted by the reaper",
	})

	// RedisErrors counts failed Redis commands, by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_redis_errors_total",
		Help: "Redis command failures",
	}, []string{"command"})

	// MediaUploadFailures counts rejected or failed media store uploads.
	MediaUploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ripple_media_upload_failures_total",
		Help: "Media store upload failures",
	})
)
