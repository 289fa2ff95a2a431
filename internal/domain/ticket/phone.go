package ticket

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	minPhoneLength = 5
	maxPhoneLength = 30
)

// NormalizePhone folds full-width digits to ASCII (NFKC) and drops whitespace,
// so the same number typed on different keyboards hashes identically.
func NormalizePhone(raw string) string {
	folded := norm.NFKC.String(raw)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// HashPhone returns the hex sha256 of the normalized phone number.
func HashPhone(raw string) (string, error) {
	phone := NormalizePhone(raw)
	n := utf8.RuneCountInString(phone)
	if n < minPhoneLength || n > maxPhoneLength {
		return "", fmt.Errorf("phone must be between %d and %d characters", minPhoneLength, maxPhoneLength)
	}
	sum := sha256.Sum256([]byte(phone))
	return hex.EncodeToString(sum[:]), nil
}
