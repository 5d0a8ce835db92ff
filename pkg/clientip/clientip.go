package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders are consulted in order when proxy headers are trusted.
var proxyHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// GetIP returns the address of the peer that opened the connection.
func GetIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// GetForwardedIP returns the first valid address from the proxy headers,
// falling back to GetIP. Only use it behind a reverse proxy that rewrites
// these headers; otherwise clients can spoof them.
func GetForwardedIP(r *http.Request) string {
	for _, h := range proxyHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for ip := range strings.SplitSeq(v, ",") {
			if parsed := parseIP(ip); parsed != "" {
				return parsed
			}
		}
	}
	return GetIP(r)
}

// parseIP validates and normalizes an IP address string.
// Returns empty string if the IP is invalid.
func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
