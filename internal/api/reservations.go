package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Timestamps and durations

	"restaurant_reservation/internal/booking" // Admission engine
	"restaurant_reservation/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// listCacheNamespace prefixes every cached listing page
const listCacheNamespace = "reservations:list"

// CreateReservationRequest represents a reservation request
type CreateReservationRequest struct {
	Email string    `json:"email"` // Email of a registered user
	Seats int       `json:"seats"` // Seats at the table
	Date  time.Time `json:"date"`  // Requested time, RFC 3339
}

// CreateReservationHandler admits a reservation and assigns its table
func CreateReservationHandler(engine *booking.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReservationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "body", "must be a JSON object with email, seats and an RFC 3339 date")
			return
		}
		res, err := engine.CreateReservation(c.Request.Context(), booking.ReservationRequest{
			Email: req.Email,
			Seats: req.Seats,
			Date:  req.Date,
		})
		if err != nil {
			respondError(c, err) // Every rejection stops here
			return
		}
		invalidateListings(rdb)         // Listing pages are now stale
		c.JSON(http.StatusCreated, res) // Return the created reservation
	}
}

// ListReservationsHandler returns reservations in a date range, paginated and cached
func ListReservationsHandler(engine *booking.Engine, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, ok := queryTime(c, "from")
		if !ok {
			return
		}
		to, ok := queryTime(c, "to")
		if !ok {
			return
		}
		page, ok := queryInt(c, "page", 1) // Default page number
		if !ok {
			return
		}
		limit, ok := queryInt(c, "limit", 10) // Default page size
		if !ok {
			return
		}

		ctx := c.Request.Context()
		version, err := utils.CacheVersion(ctx, rdb, listCacheNamespace) // Current cache generation
		cacheKey := ""
		if err == nil {
			cacheKey = utils.VersionedKey(listCacheNamespace, version,
				from.UTC().Format(time.RFC3339Nano), to.UTC().Format(time.RFC3339Nano),
				strconv.Itoa(page), strconv.Itoa(limit))
			var cached booking.Page
			// If cached data found, return it
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, listBody(&cached, true))
				return
			}
		}

		result, err := engine.ListReservations(ctx, booking.ListQuery{From: from, To: to, Page: page, Limit: limit})
		if err != nil {
			respondError(c, err)
			return
		}
		if cacheKey != "" {
			_ = utils.SetCache(ctx, rdb, cacheKey, result, ttl) // Cache the response for future requests
		}
		c.JSON(http.StatusOK, listBody(result, false))
	}
}

// DeleteReservationHandler removes a reservation by id
func DeleteReservationHandler(engine *booking.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			badRequest(c, "id", "must be a positive integer")
			return
		}
		if err := engine.DeleteReservation(c.Request.Context(), uint(id)); err != nil {
			respondError(c, err) // Not found or storage failure
			return
		}
		invalidateListings(rdb)
		c.Status(http.StatusNoContent)
	}
}

// AvailabilityHandler reports the free tables of the slot containing ?date=
func AvailabilityHandler(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, ok := queryTime(c, "date")
		if !ok {
			return
		}
		avail, err := engine.Availability(c.Request.Context(), date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, avail)
	}
}

// listBody shapes a listing page for the response
func listBody(p *booking.Page, cached bool) gin.H {
	return gin.H{
		"current_page": p.Page,       // Current page
		"total_pages":  p.TotalPages, // Total pages
		"total_items":  p.TotalItems, // Total matching reservations
		"limit":        p.Limit,      // Page size
		"reservations": p.Items,      // Reservations with their users
		"cached":       cached,       // Indicate whether the response is from cache
	}
}

// invalidateListings bumps the listing cache generation
func invalidateListings(rdb *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := utils.BumpCacheVersion(ctx, rdb, listCacheNamespace); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to invalidate listing cache")
	}
}

// queryTime parses a required RFC 3339 query parameter, writing a 400 on failure
func queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		badRequest(c, name, "is required")
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		badRequest(c, name, "must be an RFC 3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}

// queryInt parses an optional integer query parameter, writing a 400 on failure
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name, "must be an integer")
		return 0, false
	}
	return v, true
}
