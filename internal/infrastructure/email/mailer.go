package email

import (
	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
	"github.com/meidasupport/supportdesk/internal/shared/config"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// NewMailer returns the SMTP sender when email is enabled and configured, otherwise a
// mailer that only logs and reports ErrEmailServiceNotConfigured.
func NewMailer(cfg config.EmailConfig, resetHours int, log logger.Interface) usecases.Mailer {
	if !cfg.Enabled || cfg.SMTPHost == "" {
		log.Warnw("email service not configured, outgoing mail is disabled")
		return &disabledMailer{logger: log}
	}
	log.Infow("email service initialized",
		"host", cfg.SMTPHost,
		"port", cfg.SMTPPort,
		"from", cfg.FromAddress,
	)
	return NewSMTPEmailService(SMTPConfigFrom(cfg, resetHours))
}

type disabledMailer struct {
	logger logger.Interface
}

func (d *disabledMailer) SendPasswordResetEmail(to, resetURL string) error {
	d.logger.Warnw("email service not configured, cannot send password reset email", "to", to)
	return ErrEmailServiceNotConfigured
}

func (d *disabledMailer) SendWelcomeEmail(to, displayName, password string) error {
	d.logger.Warnw("email service not configured, cannot send welcome email", "to", to)
	return ErrEmailServiceNotConfigured
}
