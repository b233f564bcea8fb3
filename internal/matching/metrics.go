// internal/matching/metrics.go

package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_likes_total",
			Help: "Total number of like operations",
		},
		[]string{"result"},
	)

	unlikesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_unlikes_total",
			Help: "Total number of successful unlike operations",
		},
	)

	mutualMatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_mutual_matches_total",
			Help: "Total number of pairs promoted to a mutual match",
		},
	)

	statusChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_status_checks_total",
			Help: "Total number of pair status checks",
		},
	)
)

func recordLike(result string) {
	likesTotal.WithLabelValues(result).Inc()
}

func recordUnlike() {
	unlikesTotal.Inc()
}

func recordMutualMatch() {
	mutualMatchesTotal.Inc()
}

func recordStatusCheck() {
	statusChecksTotal.Inc()
}
