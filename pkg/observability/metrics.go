package observability

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}

// AuthMetrics counts authentication events. All methods are safe to call
// on a nil receiver, so callers never have to guard metric recording.
type AuthMetrics struct {
	signups            metric.Int64Counter
	logins             metric.Int64Counter
	magicLinksIssued   metric.Int64Counter
	magicLinksRedeemed metric.Int64Counter
	oauthLogins        metric.Int64Counter
}

// NewAuthMetrics registers the auth event counters on the global meter.
func NewAuthMetrics() (*AuthMetrics, error) {
	meter := otel.Meter("auth-service")

	signups, err := meter.Int64Counter("auth_signups_total",
		metric.WithDescription("Number of successful signups"))
	if err != nil {
		return nil, err
	}
	logins, err := meter.Int64Counter("auth_logins_total",
		metric.WithDescription("Number of successful password logins"))
	if err != nil {
		return nil, err
	}
	issued, err := meter.Int64Counter("auth_magic_links_issued_total",
		metric.WithDescription("Number of magic links issued"))
	if err != nil {
		return nil, err
	}
	redeemed, err := meter.Int64Counter("auth_magic_links_redeemed_total",
		metric.WithDescription("Number of magic links redeemed"))
	if err != nil {
		return nil, err
	}
	oauthLogins, err := meter.Int64Counter("auth_oauth_logins_total",
		metric.WithDescription("Number of successful federated logins"))
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{
		signups:            signups,
		logins:             logins,
		magicLinksIssued:   issued,
		magicLinksRedeemed: redeemed,
		oauthLogins:        oauthLogins,
	}, nil
}

func (m *AuthMetrics) Signup(ctx context.Context) {
	if m == nil {
		return
	}
	m.signups.Add(ctx, 1)
}

func (m *AuthMetrics) Login(ctx context.Context) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1)
}

func (m *AuthMetrics) MagicLinkIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.magicLinksIssued.Add(ctx, 1)
}

func (m *AuthMetrics) MagicLinkRedeemed(ctx context.Context) {
	if m == nil {
		return
	}
	m.magicLinksRedeemed.Add(ctx, 1)
}

func (m *AuthMetrics) OAuthLogin(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.oauthLogins.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}
