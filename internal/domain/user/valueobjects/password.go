package valueobjects

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

const DefaultMinPasswordLength = 8

// ValidatePassword enforces the minimum length and requires a letter and a digit.
func ValidatePassword(password string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}
	if len(password) < minLength {
		return fmt.Errorf("password must be at least %d characters long", minLength)
	}
	if len(password) > 72 {
		return fmt.Errorf("password must be at most 72 bytes long")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}

const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// GenerateTempPassword returns a random password that satisfies ValidatePassword.
func GenerateTempPassword(length int) (string, error) {
	if length < DefaultMinPasswordLength {
		length = DefaultMinPasswordLength
	}
	for {
		var b strings.Builder
		for i := 0; i < length; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordAlphabet))))
			if err != nil {
				return "", err
			}
			b.WriteByte(tempPasswordAlphabet[n.Int64()])
		}
		pw := b.String()
		if ValidatePassword(pw, length) == nil {
			return pw, nil
		}
	}
}
