package api

import (
	"net/http" // HTTP status codes

	"restaurant_reservation/internal/booking" // Admission engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name  string `json:"name"`  // Display name
	Email string `json:"email"` // Unique email
}

// RegisterUserHandler creates a user with a unique email
func RegisterUserHandler(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "body", "must be a JSON object with name and email")
			return
		}
		user, err := engine.RegisterUser(c.Request.Context(), booking.UserRequest{
			Name:  req.Name,
			Email: req.Email,
		})
		if err != nil {
			respondError(c, err) // Validation, duplicate email or storage failure
			return
		}
		c.JSON(http.StatusCreated, user) // Return the created user
	}
}
