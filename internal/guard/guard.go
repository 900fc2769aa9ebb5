// Package guard decides, from the request path and the caller's session,
// whether a request proceeds or is redirected.
package guard

import (
	"net/url"
	"strings"

	"wedding/site/internal/model"
)

const (
	SignInPath  = "/auth/signin"
	SignUpPath  = "/auth/signup"
	AdminPath   = "/admin"
	RSVPPath    = "/rsvp"
	HomePath    = "/"
	RedirectKey = "redirectedFrom"
)

// Paths anyone may visit. "/" matches only the home page itself.
var publicPrefixes = []string{
	"/auth",
	"/gifts",
	"/bridal-crew",
	"/public",
	"/static",
	"/invite",
	"/healthz",
	"/metrics",
	"/api/v1/auth",
	"/api/v1/gifts",
	"/api/v1/crew",
	"/api/v1/site",
}

var adminPrefixes = []string{
	"/admin",
	"/api/v1/admin",
	"/api/add-gift",
}

type Action int

const (
	Allow Action = iota
	// RedirectSignIn sends an anonymous visitor to sign in.
	RedirectSignIn
	// RedirectAway sends a signed-in visitor somewhere they may be.
	RedirectAway
)

type Decision struct {
	Action   Action
	Location string
}

// Subject is what the guard knows about the caller.
type Subject struct {
	HasSession bool
	Role       model.Role
}

// Evaluate is a pure function of the URL and the subject.
func Evaluate(u *url.URL, s Subject) Decision {
	path := cleanPath(u.Path)

	if s.HasSession && (path == SignInPath || path == SignUpPath) {
		return Decision{Action: RedirectAway, Location: AfterSignIn(u.Query().Get(RedirectKey), s.Role)}
	}

	if IsPublic(path) {
		return Decision{Action: Allow}
	}

	if !s.HasSession {
		return Decision{Action: RedirectSignIn, Location: SignInURL(u.RequestURI())}
	}

	if IsAdminPath(path) && s.Role != model.RoleAdmin {
		return Decision{Action: RedirectAway, Location: HomePath}
	}

	return Decision{Action: Allow}
}

func IsPublic(path string) bool {
	if path == HomePath {
		return true
	}
	return matchesAny(path, publicPrefixes)
}

func IsAdminPath(path string) bool {
	return matchesAny(path, adminPrefixes)
}

// SignInURL builds the sign-in link that remembers where the visitor was headed.
func SignInURL(from string) string {
	q := url.Values{}
	q.Set(RedirectKey, from)
	return SignInPath + "?" + q.Encode()
}

// Landing is where a role goes after sign-in when nothing else was requested.
func Landing(role model.Role) string {
	if role == model.RoleAdmin {
		return AdminPath
	}
	return RSVPPath
}

// AfterSignIn picks the post sign-in destination. The remembered path wins
// unless it is unsafe or an admin page the role cannot open.
func AfterSignIn(redirectedFrom string, role model.Role) string {
	if !isLocalPath(redirectedFrom) {
		return Landing(role)
	}
	target, err := url.Parse(redirectedFrom)
	if err != nil {
		return Landing(role)
	}
	path := cleanPath(target.Path)
	if path == SignInPath || path == SignUpPath {
		return Landing(role)
	}
	if IsAdminPath(path) && role != model.RoleAdmin {
		return RSVPPath
	}
	return redirectedFrom
}

// isLocalPath rejects absolute and protocol-relative URLs.
func isLocalPath(p string) bool {
	if p == "" || !strings.HasPrefix(p, "/") {
		return false
	}
	return !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func cleanPath(p string) string {
	if p == "" {
		return HomePath
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
