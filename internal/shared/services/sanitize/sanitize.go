// Package sanitize removes markup from user supplied plain text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips every HTML element and keeps the text content.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// StripTags returns s without markup. Entities produced by the policy are decoded
// back so stored text reads as typed; angle brackets stay escaped.
func (s *Sanitizer) StripTags(in string) string {
	if !strings.ContainsAny(in, "<>&") {
		return in
	}
	out := html.UnescapeString(s.policy.Sanitize(in))
	return strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(out)
}
