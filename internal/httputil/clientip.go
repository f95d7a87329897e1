package httputil

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP extracts the real client IP from the request.
// It checks X-Forwarded-For first (taking the first IP in the chain), then
// the RFC 7239 Forwarded header, then X-Real-IP, and finally falls back to
// RemoteAddr. Properly handles IPv6 addresses including bracketed notation.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			if ip := strings.TrimSpace(ips[0]); ip != "" {
				return ip
			}
		}
	}

	if fwd := r.Header.Get("Forwarded"); fwd != "" {
		if ip := parseForwardedFor(fwd); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// parseForwardedFor returns the node of the first for= parameter in a
// Forwarded header, or "" when it is missing, "unknown" or obfuscated.
// Example: `for="[2001:db8::17]:4711";proto=https, for=192.0.2.1` -> "2001:db8::17"
func parseForwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	for _, pair := range strings.Split(first, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || !strings.EqualFold(name, "for") {
			continue
		}
		node := strings.Trim(strings.TrimSpace(value), `"`)
		if node == "" || strings.EqualFold(node, "unknown") || strings.HasPrefix(node, "_") {
			return ""
		}
		if strings.HasPrefix(node, "[") {
			if end := strings.Index(node, "]"); end > 0 {
				return node[1:end]
			}
			return ""
		}
		if host, _, err := net.SplitHostPort(node); err == nil {
			return host
		}
		return node
	}
	return ""
}
