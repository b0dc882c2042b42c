package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid checks that the address has a domain part that
// resolves, either through MX records or a plain host lookup.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}

	domain := strings.TrimSpace(email[at+1:])
	if domain == "" {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
