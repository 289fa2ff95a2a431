package valueobjects

import (
	"fmt"
	"net/mail"
	"strings"
)

const maxEmailLength = 255

// Email is a bare, lower-cased address. Display-name forms such as "Bob <bob@example.com>"
// are rejected.
type Email struct {
	value string
}

func NewEmail(value string) (*Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch {
	case normalized == "":
		return nil, fmt.Errorf("email cannot be empty")
	case len(normalized) > maxEmailLength:
		return nil, fmt.Errorf("email cannot exceed %d characters", maxEmailLength)
	case strings.ContainsAny(normalized, " \t\r\n<>"):
		return nil, fmt.Errorf("invalid email format: %s", value)
	}

	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return nil, fmt.Errorf("invalid email format: %s", value)
	}
	at := strings.LastIndexByte(normalized, '@')
	if domain := normalized[at+1:]; !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return nil, fmt.Errorf("invalid email domain: %s", value)
	}
	return &Email{value: normalized}, nil
}

func (e *Email) String() string {
	return e.value
}

// Domain returns the part after the @.
func (e *Email) Domain() string {
	return e.value[strings.LastIndexByte(e.value, '@')+1:]
}

func (e *Email) Equals(other *Email) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.value == other.value
}
