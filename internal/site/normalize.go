package site

import (
	"strings"
	"unicode"
)

// schemes are stripped from the front of the input, longest first.
var schemes = []string{"https://", "http://"}

// Normalize returns the canonical domain for raw input: lowercase, without
// scheme, without leading "www." labels, and without any path, query or
// fragment. A port is kept so local test servers stay addressable.
//
// Normalize is idempotent: Normalize(Normalize(d)) == Normalize(d).
func Normalize(raw string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(raw))

	for _, scheme := range schemes {
		if strings.HasPrefix(d, scheme) {
			d = d[len(scheme):]
			break
		}
	}

	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}

	for strings.HasPrefix(d, "www.") {
		d = strings.TrimPrefix(d, "www.")
	}

	if Host(d) == "" || !validPort(d) || strings.IndexFunc(d, unicode.IsSpace) >= 0 {
		return "", &InvalidDomainError{Input: raw}
	}
	return d, nil
}

// validPort reports whether the port of domain, if any, is a non-empty
// run of digits. A leftover scheme such as "https:" has an empty port.
func validPort(domain string) bool {
	i := strings.LastIndexByte(domain, ':')
	if i < 0 {
		return true
	}
	port := domain[i+1:]
	if port == "" {
		return false
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Host returns the domain without its port.
func Host(domain string) string {
	if i := strings.LastIndexByte(domain, ':'); i >= 0 {
		return domain[:i]
	}
	return domain
}

// TLD returns the last label of the domain host, without the dot.
// It returns "" for single-label hosts.
func TLD(domain string) string {
	host := Host(domain)
	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return ""
	}
	return host[i+1:]
}

// Name returns the registrable name without the TLD, e.g. "shopfast" for
// "shopfast.com". Subdomain labels are kept.
func Name(domain string) string {
	host := Host(domain)
	if i := strings.LastIndexByte(host, '.'); i >= 0 {
		return host[:i]
	}
	return host
}
