package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/webapp-template/auth-service/internal/config"
	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/internal/handler"
	"github.com/webapp-template/auth-service/internal/mailer"
	"github.com/webapp-template/auth-service/internal/oauth"
	"github.com/webapp-template/auth-service/internal/repository"
	"github.com/webapp-template/auth-service/internal/service"
	"github.com/webapp-template/auth-service/internal/utils"
	"github.com/webapp-template/auth-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenExpiry.Duration)

	magicLinkMailer, err := mailer.New(cfg.SMTP, cfg.FrontendURL, infra.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos,
		jwtManager,
		magicLinkMailer,
		cfg.Security.BCryptCost,
		infra.Logger(),
	)
	waitlistService := service.NewWaitlistService(repos.Waitlist, infra.Logger())

	secureCookies := cfg.Env == "production"

	providers := make(map[string]oauth.Provider)
	if cfg.OAuth.Google.Enabled() {
		providers["google"] = oauth.NewGoogle(cfg.OAuth.Google)
	}
	if cfg.OAuth.GitHub.Enabled() {
		providers["github"] = oauth.NewGitHub(cfg.OAuth.GitHub)
	}

	authHandler := handler.NewAuthHandler(authService, secureCookies)
	oauthHandler := handler.NewOAuthHandler(authService, providers, cfg.FrontendURL, secureCookies, infra.Logger())
	waitlistHandler := handler.NewWaitlistHandler(waitlistService)

	router := gin.Default()
	router.Use(otelgin.Middleware("auth-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, oauthHandler, waitlistHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	oauthHandler *handler.OAuthHandler,
	waitlistHandler *handler.WaitlistHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	rateLimited := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)
	authenticated := handler.AuthMiddleware(authService)
	adminOnly := handler.RequireRoles(domain.RoleAdmin)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", rateLimited, authHandler.SignUp)
		auth.POST("/login", rateLimited, authHandler.Login)
		auth.POST("/logout", authenticated, authHandler.Logout)

		auth.POST("/magic-link/request", rateLimited, authHandler.RequestMagicLink)
		auth.POST("/magic-link/verify", authHandler.VerifyMagicLink)

		auth.GET("/profile", authenticated, authHandler.Profile)
		auth.GET("/admin", authenticated, adminOnly, authHandler.Admin)

		// Static routes and a :provider wildcard cannot share this group,
		// so each provider is registered explicitly.
		auth.GET("/google", oauthHandler.Start("google"))
		auth.GET("/google/callback", oauthHandler.Callback("google"))
		auth.GET("/github", oauthHandler.Start("github"))
		auth.GET("/github/callback", oauthHandler.Callback("github"))
	}

	router.POST("/waitlist", rateLimited, waitlistHandler.Join)
	router.GET("/waitlist", authenticated, adminOnly, waitlistHandler.List)
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
