// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "groupswipe"

var (
	// SwipesTotal counts recorded swipes by decision ("like" or "pass").
	SwipesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "swipes_total",
		Help:      "Swipes recorded, by decision.",
	}, []string{"decision"})

	MatchesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_created_total",
		Help:      "Matches created.",
	})

	// MatchConflicts counts CreateMatch calls that lost the race to the
	// other group's client.
	MatchConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_conflicts_total",
		Help:      "CreateMatch calls rejected because the pair already matched.",
	})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Chat messages stored.",
	})

	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_subscribers",
		Help:      "Open SubscribeMessages streams.",
	})

	// PushNotifications counts push messages by result ("sent", "failed", "skipped").
	PushNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_notifications_total",
		Help:      "Push notifications handed to the gateway, by result.",
	}, []string{"result"})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)

// Decision returns the SwipesTotal label for a swipe.
func Decision(liked bool) string {
	if liked {
		return "like"
	}
	return "pass"
}
