package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var hexRe = regexp.MustCompile(`^(0x)?[0-9a-fA-F]+$`)

// IsHexString reports whether s is a non-empty hex string, with or without
// a 0x prefix.
func IsHexString(s string) bool {
	return hexRe.MatchString(s)
}

// HostOf extracts the lowercased hostname of a URL, without any port. It
// returns "" when the URL cannot be parsed or carries no host.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(u.Hostname())
}

// DigestHash extracts the hash part of a digest header value shaped like
// "SHA-256=<hex>". Everything after the first '=' is taken and the
// algorithm prefix is not checked; a value without '=' is returned whole.
func DigestHash(header string) string {
	if i := strings.Index(header, "="); i >= 0 {
		return header[i+1:]
	}

	return header
}
