package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wneessen/go-mail"
	"github.com/webapp-template/auth-service/internal/config"
	"go.uber.org/zap"
)

// Mailer sends templated messages through an SMTP relay. When the relay
// is not fully configured the mailer is created in disabled mode: sends
// are logged and dropped instead of failing, so a missing mail setup
// never breaks the auth flows that absorb delivery errors anyway.
type Mailer struct {
	client      *mail.Client
	sender      string
	frontendURL string
	logger      *zap.Logger
}

// New creates a mailer from SMTP configuration.
func New(cfg config.SMTPConfig, frontendURL string, logger *zap.Logger) (*Mailer, error) {
	m := &Mailer{
		sender:      cfg.Sender,
		frontendURL: frontendURL,
		logger:      logger,
	}

	if cfg.Host == "" || cfg.Username == "" || cfg.Sender == "" {
		logger.Warn("SMTP is not fully configured, email sending is disabled")
		return m, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	m.client = client
	return m, nil
}

// SendMagicLink emails a login link embedding the token and email.
func (m *Mailer) SendMagicLink(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/auth/verify-magic-link?token=%s&email=%s",
		m.frontendURL, url.QueryEscape(token), url.QueryEscape(to))

	subject := "Your login link"
	html := fmt.Sprintf(`<p>Hello,</p>
<p>Click the link below to log in to your account:</p>
<p><a href="%s">Log in</a></p>
<p>This link will expire in 15 minutes.</p>
<p>If you did not request this, you can ignore this email.</p>`, link)

	return m.send(ctx, to, subject, html)
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	if m.client == nil {
		m.logger.Warn("email not sent, SMTP is disabled",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
