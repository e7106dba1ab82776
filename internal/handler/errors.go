package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webapp-template/auth-service/internal/dto"
	"github.com/webapp-template/auth-service/internal/service"
)

// writeError is the single place where service errors become HTTP
// responses. Unauthorized variants share one uninformative message per
// status so the response cannot be used to enumerate accounts, and
// internal details never leave the process.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid credentials.",
		})
	case errors.Is(err, service.ErrInvalidMagicLink):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid or expired magic link.",
		})
	case errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid or expired token.",
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "Something went wrong. Please try again.",
		})
	}
}

func writeValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Validation failed",
		Message: err.Error(),
	})
}
