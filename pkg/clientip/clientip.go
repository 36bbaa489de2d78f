package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultHeaders are consulted, in order, before RemoteAddr.
var DefaultHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// FromRequest returns the client address of r. Each header in headers is
// checked in order; comma separated lists yield their first valid address.
// RemoteAddr is the fallback. The result is "" when nothing parses.
func FromRequest(r *http.Request, headers ...string) string {
	for _, h := range headers {
		for candidate := range strings.SplitSeq(r.Header.Get(h), ",") {
			if ip := normalize(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

func normalize(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
