package validators

import (
	"net"
	"net/mail"
	"strings"
)

// NormalizeEmail lowercases and trims; it returns "" for unparsable input.
func NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return ""
	}
	return email
}

// DomainChecker confirms that an email domain can receive mail.
type DomainChecker struct {
	LookupMX func(string) ([]*net.MX, error)
	LookupIP func(string) ([]net.IP, error)
}

func NewDomainChecker() *DomainChecker {
	return &DomainChecker{LookupMX: net.LookupMX, LookupIP: net.LookupIP}
}

func (d *DomainChecker) Valid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := d.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := d.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
