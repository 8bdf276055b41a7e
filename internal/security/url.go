package security

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

var privateCIDRs = mustCIDRs([]string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"100.64.0.0/10",
	"0.0.0.0/8",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
})

func mustCIDRs(cidrs []string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(cidr)
		if err == nil {
			out = append(out, block)
		}
	}
	return out
}

// URLValidator gates outbound fetch targets to reduce SSRF risk. Hosts on
// the allowlist bypass the private-network checks, which is what lets a
// deployment point the crawler or a searxng engine at an instance on its
// own network.
type URLValidator struct {
	allowPrivate bool
	allowedHosts map[string]struct{}
}

// ValidatorOption configures a URLValidator.
type ValidatorOption func(*URLValidator)

// AllowPrivate disables the private/loopback network checks entirely.
func AllowPrivate() ValidatorOption {
	return func(v *URLValidator) { v.allowPrivate = true }
}

// AllowHosts exempts specific hostnames from the private-network checks.
func AllowHosts(hosts ...string) ValidatorOption {
	return func(v *URLValidator) {
		for _, h := range hosts {
			v.allowedHosts[strings.ToLower(h)] = struct{}{}
		}
	}
}

// NewURLValidator creates a validator with the default deny-private policy.
func NewURLValidator(opts ...ValidatorOption) *URLValidator {
	v := &URLValidator{allowedHosts: make(map[string]struct{})}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks a URL before an outbound fetch.
func (v *URLValidator) Validate(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("empty url")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported url scheme: %s", parsed.Scheme)
	}

	host := strings.ToLower(strings.TrimSpace(parsed.Hostname()))
	if host == "" {
		return fmt.Errorf("url host is required")
	}
	if v.allowPrivate {
		return nil
	}
	if _, ok := v.allowedHosts[host]; ok {
		return nil
	}

	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("ssrf blocked: local hostname is not allowed")
	}

	if ip := net.ParseIP(host); ip != nil {
		if isPrivateOrLocalIP(ip) {
			return fmt.Errorf("ssrf blocked: private or local ip is not allowed")
		}
		return nil
	}

	addrs, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("failed to resolve host: %w", err)
	}
	if len(addrs) == 0 {
		return fmt.Errorf("host resolution returned no addresses")
	}
	for _, ip := range addrs {
		if isPrivateOrLocalIP(ip) {
			return fmt.Errorf("ssrf blocked: host resolves to private or local ip")
		}
	}
	return nil
}

func isPrivateOrLocalIP(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
