package api

import (
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"restaurant_reservation/internal/booking"    // Admission engine
	"restaurant_reservation/internal/middleware" // Request id and logging

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// NewRouter wires every route. rdb may be nil, which disables listing cache.
func NewRouter(engine *booking.Engine, rdb *redis.Client, cacheTTL time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	r.GET("/health", Health) // Liveness check

	// User routes
	r.POST("/api/users", RegisterUserHandler(engine)) // Registration endpoint

	// Reservation routes
	res := r.Group("/api/reservations")
	res.POST("", CreateReservationHandler(engine, rdb))         // Create reservation endpoint
	res.GET("", ListReservationsHandler(engine, rdb, cacheTTL)) // List reservations endpoint
	res.GET("/availability", AvailabilityHandler(engine))       // Free tables of a slot
	res.DELETE("/:id", DeleteReservationHandler(engine, rdb))   // Delete reservation endpoint
	return r
}

// Health answers load balancer checks
func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
