package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

// TOTPProvider issues and checks RFC 6238 codes.
type TOTPProvider struct {
	issuer string
	now    func() time.Time
}

func NewTOTPProvider(issuer string) *TOTPProvider {
	if issuer == "" {
		issuer = "SupportDesk"
	}
	return &TOTPProvider{issuer: issuer, now: biztime.NowUTC}
}

func (p *TOTPProvider) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: accountName,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// Validate accepts the current code and one period of clock skew either way.
func (p *TOTPProvider) Validate(code, secret string) bool {
	code = strings.TrimSpace(code)
	if code == "" || secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, p.now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
