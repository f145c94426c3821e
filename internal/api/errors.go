package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"restaurant_reservation/internal/booking" // Engine rejections

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusFor maps an engine rejection to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrValidation),
		errors.Is(err, booking.ErrPastReservation),
		errors.Is(err, booking.ErrOutsideBusinessHours),
		errors.Is(err, booking.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrUserNotFound),
		errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrDuplicateEmail),
		errors.Is(err, booking.ErrSlotFull),
		errors.Is(err, booking.ErrNoTableAvailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err. Storage details are logged, never returned.
func respondError(c *gin.Context, err error) {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		// Field level details for malformed input
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": verr.Fields})
		return
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("requestID"), // Correlates with the access log
			"path":       c.FullPath(),             // Route pattern
			"error":      err.Error(),              // Internal detail
		}).Error("Unhandled error")
		c.JSON(status, gin.H{"error": "Server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest reports a body or query that could not be decoded
func badRequest(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": gin.H{field: msg}})
}
