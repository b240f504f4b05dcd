package gather

import (
	"net/url"
	"strings"
)

// TrustList is the fixed allow-list of institutional domains permitted as
// evidence sources. It is a hard trust boundary: content from any other
// domain never reaches the synthesizer.
type TrustList struct {
	domains map[string]bool
}

// NewTrustList builds a trust list from configured domains
func NewTrustList(domains []string) *TrustList {
	t := &TrustList{domains: make(map[string]bool, len(domains))}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			t.domains[d] = true
		}
	}
	return t
}

// Allows reports whether the link's host is an allow-listed domain or a
// subdomain of one. Unparseable links are never allowed.
func (t *TrustList) Allows(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}

	if t.domains[host] {
		return true
	}
	for domain := range t.domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// Len returns the number of allow-listed domains
func (t *TrustList) Len() int {
	return len(t.domains)
}
