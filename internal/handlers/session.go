package handlers

import (
	"net"
	"net/http"
	"strings"
)

const fallbackSessionID = "anonymous"

// ResolveSession derives a stable session key from request metadata:
// explicit session header, then network identity, then user agent, then a
// fixed literal. Pure, never fails.
func ResolveSession(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Session-Id")); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); v != "" {
		// first hop is the original client
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && strings.TrimSpace(host) != "" {
		return host
	}
	if v := strings.TrimSpace(r.RemoteAddr); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get("User-Agent")); v != "" {
		return v
	}
	return fallbackSessionID
}
