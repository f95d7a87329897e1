package privacy

import (
	"net"
	"net/http"
	"strings"
)

const redacted = "[REDACTED]"

var sensitiveKeys = []string{
	"password", "passwd", "secret", "token", "key", "salt",
	"authorization", "cookie", "session", "credential", "plaintext",
}

// IsSensitiveKey reports whether a log field or header name likely carries a
// secret. Matching is case-insensitive and by substring, so "api_key",
// "X-Auth-Token" and "Set-Cookie" all match.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// MaskSecret hides a secret entirely. The length is not preserved.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return redacted
}

// MaskAuthorization keeps the scheme of an Authorization header value and
// hides the credentials.
// Example: "Bearer abc.def.ghi" -> "Bearer [REDACTED]"
func MaskAuthorization(value string) string {
	if value == "" {
		return ""
	}
	scheme, _, found := strings.Cut(value, " ")
	if !found {
		return redacted
	}
	return scheme + " " + redacted
}

// MaskIP zeroes the host part of an address: the last octet for IPv4 and
// the last 80 bits for IPv6. Values that do not parse are returned masked.
// Example: "203.0.113.42" -> "203.0.113.0"
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return maskString(ip, 0)
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.Mask(net.CIDRMask(24, 32)).String()
	}
	return parsed.Mask(net.CIDRMask(48, 128)).String()
}

// MaskHeaders returns a copy of h with sensitive header values masked.
func MaskHeaders(h http.Header) map[string]string {
	if h == nil {
		return nil
	}
	masked := make(map[string]string, len(h))
	for name, values := range h {
		value := strings.Join(values, ", ")
		switch {
		case strings.EqualFold(name, "Authorization"), strings.EqualFold(name, "Proxy-Authorization"):
			masked[name] = MaskAuthorization(value)
		case IsSensitiveKey(name):
			masked[name] = MaskSecret(value)
		default:
			masked[name] = value
		}
	}
	return masked
}

// maskString masks a string showing only the last n characters
func maskString(s string, keepLast int) string {
	if s == "" {
		return ""
	}

	if len(s) <= keepLast {
		return strings.Repeat("*", len(s))
	}

	return strings.Repeat("*", len(s)-keepLast) + s[len(s)-keepLast:]
}

// MaskSensitiveFields applies appropriate masking to common logging fields
func MaskSensitiveFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}

	masked := make(map[string]interface{})
	for k, v := range fields {
		s, isString := v.(string)
		switch {
		case !isString:
			masked[k] = v
		case k == "remote_ip" || k == "client_ip":
			masked[k] = MaskIP(s)
		case strings.EqualFold(k, "authorization"):
			masked[k] = MaskAuthorization(s)
		case IsSensitiveKey(k):
			masked[k] = MaskSecret(s)
		default:
			masked[k] = v
		}
	}

	return masked
}
