// Package images decides which remote hosts event images may be served from.
//
// Patterns look like protocol://hostname[/pathname]. In the hostname "*"
// matches one label and "**" any number of labels; in the pathname they
// match one segment and any number of segments. A pattern without a
// pathname allows every path on the host.
package images

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RemotePattern is one parsed allowlist entry.
type RemotePattern struct {
	Protocol string
	Hostname string
	Port     string
	Pathname string
}

// ParseRemotePattern parses a pattern such as "https://**.example.com/uploads/**".
func ParseRemotePattern(raw string) (RemotePattern, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(raw), "://")
	if !ok || scheme == "" || rest == "" {
		return RemotePattern{}, fmt.Errorf("remote pattern %q: expected protocol://hostname[/pathname]", raw)
	}

	host, path, hasPath := strings.Cut(rest, "/")
	if host == "" {
		return RemotePattern{}, fmt.Errorf("remote pattern %q: missing hostname", raw)
	}

	p := RemotePattern{Protocol: strings.ToLower(scheme), Pathname: "/**"}
	p.Hostname, p.Port, _ = strings.Cut(strings.ToLower(host), ":")
	if hasPath && path != "" {
		p.Pathname = "/" + path
	}

	for _, glob := range []string{hostGlob(p.Hostname), p.Pathname} {
		if !doublestar.ValidatePattern(glob) {
			return RemotePattern{}, fmt.Errorf("remote pattern %q: invalid glob %q", raw, glob)
		}
	}

	return p, nil
}

// Matches reports whether u is covered by the pattern.
func (p RemotePattern) Matches(u *url.URL) bool {
	if !strings.EqualFold(u.Scheme, p.Protocol) {
		return false
	}
	if p.Port != "" && u.Port() != p.Port {
		return false
	}

	hostOK, err := doublestar.Match(hostGlob(p.Hostname), hostGlob(strings.ToLower(u.Hostname())))
	if err != nil || !hostOK {
		return false
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	pathOK, err := doublestar.Match(p.Pathname, path)
	return err == nil && pathOK
}

// hostGlob maps hostname labels onto path segments so doublestar's
// "*" and "**" apply per label.
func hostGlob(host string) string {
	return strings.ReplaceAll(host, ".", "/")
}

// Policy is an allowlist of remote patterns.
type Policy struct {
	patterns []RemotePattern
}

// NewPolicy parses every pattern; an empty list allows nothing.
func NewPolicy(raw []string) (*Policy, error) {
	patterns := make([]RemotePattern, 0, len(raw))
	for _, r := range raw {
		p, err := ParseRemotePattern(r)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return &Policy{patterns: patterns}, nil
}

// Allowed reports whether rawURL is an absolute URL matching one of the patterns.
func (p *Policy) Allowed(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}

	for _, pattern := range p.patterns {
		if pattern.Matches(u) {
			return true
		}
	}
	return false
}
