package email

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"gopkg.in/gomail.v2"

	"github.com/meidasupport/supportdesk/internal/shared/config"
)

var ErrEmailServiceNotConfigured = errors.New("email service is not configured")

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	ResetTTL    string // Human readable reset link lifetime, e.g. "1 hour"
}

func SMTPConfigFrom(cfg config.EmailConfig, resetHours int) SMTPConfig {
	ttl := fmt.Sprintf("%d hours", resetHours)
	if resetHours == 1 {
		ttl = "1 hour"
	}
	return SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
		ResetTTL:    ttl,
	}
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer sender
	md     goldmark.Markdown
}

func NewSMTPEmailService(cfg SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		md:     goldmark.New(),
	}
}

var passwordResetTemplate = template.Must(template.New("reset").Parse(`# Password reset request

We received a request to reset the password of your SupportDesk account.

[Reset your password]({{.URL}})

Or paste this address into your browser:

{{.URL}}

The link expires in {{.TTL}} and works only once. If you did not ask for a reset, ignore this email and your password stays unchanged.
`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`# Welcome to SupportDesk, {{.Name}}

An administrator created an account for you.

- **Login:** {{.Email}}
- **Temporary password:** ` + "`{{.Password}}`" + `

Please sign in and change the password right away.
`))

func (s *SMTPEmailService) SendPasswordResetEmail(to, resetURL string) error {
	body, err := render(passwordResetTemplate, map[string]string{"URL": resetURL, "TTL": s.config.ResetTTL})
	if err != nil {
		return err
	}
	return s.sendMarkdown(to, "Reset your password", body)
}

func (s *SMTPEmailService) SendWelcomeEmail(to, displayName, password string) error {
	name := displayName
	if strings.TrimSpace(name) == "" {
		name = to
	}
	body, err := render(welcomeTemplate, map[string]string{"Name": name, "Email": to, "Password": password})
	if err != nil {
		return err
	}
	return s.sendMarkdown(to, "Your SupportDesk account", body)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

// sendMarkdown sends markdown as the plain text part and its rendering as the HTML alternative.
func (s *SMTPEmailService) sendMarkdown(to, subject, markdown string) error {
	var html bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &html); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}
	return s.sendEmail(to, subject, "<html><body>"+html.String()+"</body></html>", markdown)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
