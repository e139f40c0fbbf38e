package models

import (
	"strings"
)

// TypePolicy is the explicit allow-list of MIME types a user may select.
// Entries are exact types ("application/pdf") or wildcards ("image/*").
type TypePolicy struct {
	allowed map[string]bool
	order   []string
}

func DefaultTypePolicy() *TypePolicy {
	return NewTypePolicy([]string{"application/pdf", "image/*"})
}

func NewTypePolicy(types []string) *TypePolicy {
	p := &TypePolicy{allowed: make(map[string]bool, len(types))}
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || p.allowed[t] {
			continue
		}
		p.allowed[t] = true
		p.order = append(p.order, t)
	}
	return p
}

func (p *TypePolicy) Allows(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" {
		return false
	}
	if p.allowed[mimeType] {
		return true
	}
	if i := strings.IndexByte(mimeType, '/'); i > 0 {
		return p.allowed[mimeType[:i]+"/*"]
	}
	return false
}

// String renders the list the way the selection error shows it.
func (p *TypePolicy) String() string {
	return strings.Join(p.order, ",")
}
