package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sigmat_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FriendRequestTransitions counts lifecycle transitions by outcome state.
	FriendRequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sigmat_friend_request_transitions_total",
		Help: "Total friend request lifecycle transitions by resulting state",
	}, []string{"state"})

	// FriendRequestConflicts counts sends lost to the pair-uniqueness check.
	FriendRequestConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sigmat_friend_request_conflicts_total",
		Help: "Total friend request sends rejected by the pair uniqueness check",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the HTTP metrics collection handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
