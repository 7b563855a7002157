package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SwipesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_swipes_total",
			Help: "Total number of recorded swipes.",
		},
		[]string{"decision"},
	)

	MatchesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "match_matches_created_total",
			Help: "Total number of mutual matches created.",
		},
	)

	RewindsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_rewinds_total",
			Help: "Total number of rewind attempts.",
		},
		[]string{"result"},
	)

	PushEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_push_events_total",
			Help: "Push events by name and delivery outcome.",
		},
		[]string{"event", "outcome"},
	)
)

var registered bool

// MustRegister registers all collectors with the default registry.
// Safe to call once per process; tests use collectors directly.
func MustRegister() {
	if registered {
		return
	}
	registered = true
	prometheus.MustRegister(
		SwipesTotal,
		MatchesCreatedTotal,
		RewindsTotal,
		PushEventsTotal,
	)
}
