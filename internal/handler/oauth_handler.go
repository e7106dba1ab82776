package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/webapp-template/auth-service/internal/oauth"
	"github.com/webapp-template/auth-service/internal/service"
	"go.uber.org/zap"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600 // seconds
)

// OAuthHandler drives the federated login flows. Start redirects to the
// provider's consent page; Callback exchanges the code, resolves the
// identity to a local user and redirects back to the frontend with a
// bearer token in the URL. All callback failures redirect to the
// frontend with an error marker instead of rendering a response.
type OAuthHandler struct {
	authService   service.AuthService
	providers     map[string]oauth.Provider
	frontendURL   string
	secureCookies bool
	logger        *zap.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(
	authService service.AuthService,
	providers map[string]oauth.Provider,
	frontendURL string,
	secureCookies bool,
	logger *zap.Logger,
) *OAuthHandler {
	return &OAuthHandler{
		authService:   authService,
		providers:     providers,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Start returns the handler initiating the flow for one provider.
func (h *OAuthHandler) Start(providerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider, ok := h.providers[providerName]
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}

		state := uuid.New().String()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.secureCookies, true)

		h.logger.Info("starting oauth flow", zap.String("provider", providerName))
		c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
	}
}

// Callback returns the handler completing the flow for one provider.
func (h *OAuthHandler) Callback(providerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider, ok := h.providers[providerName]
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}

		state := c.Query("state")
		cookieState, err := c.Cookie(oauthStateCookie)
		if err != nil || state == "" || state != cookieState {
			h.logger.Warn("oauth state mismatch", zap.String("provider", providerName))
			h.redirectError(c, providerName)
			return
		}

		// The state cookie is single-use.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookies, true)

		code := c.Query("code")
		if code == "" {
			h.logger.Warn("oauth callback without code", zap.String("provider", providerName))
			h.redirectError(c, providerName)
			return
		}

		profile, err := provider.FetchProfile(c.Request.Context(), code)
		if err != nil {
			h.logger.Error("oauth profile fetch failed",
				zap.String("provider", providerName),
				zap.Error(err),
			)
			h.redirectError(c, providerName)
			return
		}

		result, err := h.authService.ResolveProviderUser(c.Request.Context(), providerName, profile)
		if err != nil {
			h.logger.Error("oauth identity resolution failed",
				zap.String("provider", providerName),
				zap.Error(err),
			)
			h.redirectError(c, providerName)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookieName, result.AccessToken, result.ExpiresIn, "/", "", h.secureCookies, true)

		redirect := fmt.Sprintf("%s/auth/callback/%s?token=%s",
			h.frontendURL, providerName, url.QueryEscape(result.AccessToken))
		c.Redirect(http.StatusFound, redirect)
	}
}

func (h *OAuthHandler) redirectError(c *gin.Context, providerName string) {
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/auth?error=%s_oauth_failed", h.frontendURL, providerName))
}
