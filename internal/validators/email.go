package validators

import (
	"net"
	"strings"
)

// EmailDomainCheck reports whether an address can plausibly receive mail.
type EmailDomainCheck func(email string) bool

// IsEmailDomainValid accepts an address whose domain has an MX record or at
// least resolves.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

// AnyEmailDomain skips the DNS lookup.
func AnyEmailDomain(string) bool { return true }
