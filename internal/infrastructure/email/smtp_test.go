package email

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"gopkg.in/gomail.v2"

	"github.com/meidasupport/supportdesk/internal/shared/config"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return c.err
}

func newTestService(s sender) *SMTPEmailService {
	return &SMTPEmailService{
		config: SMTPConfig{FromAddress: "noreply@example.com", FromName: "Support", ResetTTL: "1 hour"},
		dialer: s,
		md:     goldmark.New(),
	}
}

func raw(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendPasswordResetEmail(t *testing.T) {
	cap := &captureSender{}
	svc := newTestService(cap)

	require.NoError(t, svc.SendPasswordResetEmail("a@example.com", "https://desk.example.com/reset?token=abc"))
	require.Len(t, cap.messages, 1)

	m := cap.messages[0]
	assert.Equal(t, []string{"a@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Reset your password"}, m.GetHeader("Subject"))

	body := raw(t, m)
	assert.Contains(t, body, "text/html")
	assert.Contains(t, body, "<h1>Password reset request</h1>")
	assert.Contains(t, body, "1 hour")
}

func TestSendWelcomeEmail(t *testing.T) {
	cap := &captureSender{}
	svc := newTestService(cap)

	require.NoError(t, svc.SendWelcomeEmail("new@example.com", "", "Tmp12345"))
	body := raw(t, cap.messages[0])
	assert.Contains(t, body, "Welcome to SupportDesk, new@example.com")
	assert.Contains(t, body, "Tmp12345")
	assert.True(t, strings.Contains(body, "<code>Tmp12345</code>"))
}

func TestSendEmail_PropagatesDialError(t *testing.T) {
	svc := newTestService(&captureSender{err: errors.New("connection refused")})
	err := svc.SendWelcomeEmail("x@example.com", "X", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewMailer_Disabled(t *testing.T) {
	m := NewMailer(config.EmailConfig{Enabled: false}, 1, logger.NewNopLogger())
	assert.ErrorIs(t, m.SendPasswordResetEmail("a@example.com", "u"), ErrEmailServiceNotConfigured)
	assert.ErrorIs(t, m.SendWelcomeEmail("a@example.com", "A", "p"), ErrEmailServiceNotConfigured)

	enabled := NewMailer(config.EmailConfig{Enabled: true, SMTPHost: "smtp.example.com", SMTPPort: 587}, 1, logger.NewNopLogger())
	_, ok := enabled.(*SMTPEmailService)
	assert.True(t, ok)
}
