package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "domemarket_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// BookingToggles counts booking toggle operations by resulting state.
var BookingToggles = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "domemarket_booking_toggles_total",
	Help: "Total number of booking toggles, labeled by the resulting state.",
}, []string{"state"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
