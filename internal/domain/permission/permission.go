package permission

import (
	"fmt"
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)+$`)

type Permission struct {
	id          uint
	code        string
	description string
	category    string
}

func NewPermission(code, description, category string) (*Permission, error) {
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return nil, fmt.Errorf("invalid permission code %q", code)
	}
	if category == "" {
		category = DefaultCategory
	}
	return &Permission{code: code, description: description, category: category}, nil
}

func ReconstructPermission(id uint, code, description, category string) *Permission {
	if category == "" {
		category = DefaultCategory
	}
	return &Permission{id: id, code: code, description: description, category: category}
}

func (p *Permission) ID() uint            { return p.id }
func (p *Permission) Code() string        { return p.code }
func (p *Permission) Description() string { return p.description }
func (p *Permission) Category() string    { return p.category }

func (p *Permission) SetID(id uint) {
	p.id = id
}

// GroupByCategory buckets permissions by category, preserving input order inside each bucket.
func GroupByCategory(perms []*Permission) map[string][]*Permission {
	out := make(map[string][]*Permission)
	for _, p := range perms {
		out[p.category] = append(out[p.category], p)
	}
	return out
}
