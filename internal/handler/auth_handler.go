package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/internal/dto"
	"github.com/webapp-template/auth-service/internal/service"
)

// sessionCookieName is the HTTP-only cookie mirroring the bearer token.
const sessionCookieName = "jwt"

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. secureCookies should be
// true in production so the session cookie is HTTPS-only.
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", h.secureCookies, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", h.secureCookies, true)
}

// SignUp handles user registration
// @Summary Register a new user
// @Description Register a new user with email, password and name
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Signup request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, result.AccessToken, result.ExpiresIn)
	c.JSON(http.StatusCreated, authResponse(result))
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, result.AccessToken, result.ExpiresIn)
	c.JSON(http.StatusOK, authResponse(result))
}

// Logout handles user logout. The session is a stateless bearer token,
// so logout only clears the cookie; a copy of the token stays valid
// until its natural expiry.
// @Summary Logout user
// @Description Clear the session cookie
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// RequestMagicLink handles a passwordless login request. The response is
// identical whether the account existed, was just created, or the email
// failed to send.
// @Summary Request a magic login link
// @Description Email a single-use login link to the given address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MagicLinkRequest true "Magic link request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/magic-link/request [post]
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req dto.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	h.authService.RequestMagicLink(c.Request.Context(), req.Email)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: service.MagicLinkSentMessage,
	})
}

// VerifyMagicLink redeems an emailed login link
// @Summary Verify a magic login link
// @Description Redeem a single-use login token for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyMagicLinkRequest true "Verification request"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/magic-link/verify [post]
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req dto.VerifyMagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	result, err := h.authService.VerifyMagicLink(c.Request.Context(), req.Email, req.Token)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, result.AccessToken, result.ExpiresIn)
	c.JSON(http.StatusOK, authResponse(result))
}

// Profile returns the current user's profile, freshly fetched by the
// auth middleware so out-of-band changes are visible immediately.
// @Summary Get current user profile
// @Description Get information about the current authenticated user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid or expired token.",
		})
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// Admin is a role-gated resource demonstrating forbidden vs unauthorized
// @Summary Admin-only resource
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /auth/admin [get]
func (h *AuthHandler) Admin(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "This is an admin-only resource.",
	})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        userInfo(result.User),
	}
}

func userInfo(user *domain.User) dto.UserInfo {
	return dto.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      string(user.Role),
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
