package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/internal/dto"
	"github.com/webapp-template/auth-service/internal/service"
)

const contextUserKey = "user"

// AuthMiddleware validates the bearer token (Authorization header or
// session cookie) and loads the user fresh from storage, so a deleted
// user is rejected even while their token is cryptographically valid.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "Authorization is required")
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token.")
			return
		}

		user, err := authService.GetProfile(c.Request.Context(), claims.Subject)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token.")
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRoles allows the request only when the authenticated user's
// role is in the allowed set. Must run after AuthMiddleware.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, "Authorization is required")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "Forbidden",
			Message: "Insufficient permissions",
		})
		c.Abort()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware, or
// nil when the request is unauthenticated.
func CurrentUser(c *gin.Context) *domain.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
	})
	c.Abort()
}
