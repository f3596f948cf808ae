package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BadgesAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Badges newly awarded to users",
		},
		[]string{"badge_type"},
	)
	BadgeAwardConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_award_conflicts_total",
			Help: "Badge awards skipped because the user already held the badge",
		},
	)
	ClampedRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_clamped_records_total",
			Help: "Daily records with a negative drinks count treated as zero",
		},
	)
	ProgressRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "progress_refresh_duration_seconds",
			Help:    "Time spent recomputing progress, points and badges for a user",
			Buckets: prometheus.DefBuckets,
		},
	)
	PushResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Push notification dispatch outcomes",
		},
		[]string{"status"},
	)
)

// Register adds the domain collectors to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(BadgesAwarded, BadgeAwardConflicts, ClampedRecords, ProgressRefreshDuration, PushResults)
}
