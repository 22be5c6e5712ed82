package models

import (
	"strings"
	"time"
)

// Session holds the credentials for a portal and the token derived from them.
// It is built once at login and only read afterwards.
type Session struct {
	Username string
	Password string
	Portal   string // e.g. "https://www.arcgis.com"
	ClientID string // sent as the token referer, "arcgisonline" by default
	Token    string
	Expires  time.Time
}

// RestURL returns the sharing REST root for this session's portal.
func (s Session) RestURL() string {
	base := strings.TrimRight(s.Portal, "/")
	if strings.HasSuffix(base, "/sharing/rest") {
		return base
	}
	return base + "/sharing/rest"
}

// Expired reports whether the token is past its expiry. A zero expiry never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.Expires.IsZero() && now.After(s.Expires)
}

// MaskedPassword returns a masked version of the password for display.
func (s Session) MaskedPassword() string {
	if s.Password == "" {
		return ""
	}
	return "••••••••"
}
