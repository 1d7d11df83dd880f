package session

import "strings"

// Realm is an independently protected route tree with its own login page.
type Realm struct {
	Prefix    string
	LoginPath string
}

// DefaultRealms returns the two realms of the application: the admin
// back-office and the user profile area.
func DefaultRealms() []Realm {
	return []Realm{
		{Prefix: "/admin", LoginPath: "/admin/login"},
		{Prefix: "/profile", LoginPath: "/login"},
	}
}

// Decision is the outcome of evaluating a request path against the policy.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Policy decides, for a request path and the presence of a valid session,
// whether to allow the request or redirect to the realm's login page.
type Policy struct {
	realms []Realm
}

// NewPolicy constructs a policy over the given realms, defaulting to the
// application realms when none are provided.
func NewPolicy(realms ...Realm) *Policy {
	if len(realms) == 0 {
		realms = DefaultRealms()
	}
	return &Policy{realms: realms}
}

// Evaluate applies the access table. Login pages are always reachable so a
// redirect can never loop. An unauthenticated request to a protected prefix
// redirects to that realm's own login page, never another realm's. Every
// undecodable or absent session counts as unauthenticated (fail closed).
func (p *Policy) Evaluate(path string, authenticated bool) Decision {
	for _, realm := range p.realms {
		if path == realm.LoginPath {
			return Decision{Allow: true}
		}
	}

	realm := p.match(path)
	if realm == nil {
		return Decision{Allow: true}
	}
	if authenticated {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: realm.LoginPath}
}

// match returns the longest-prefix realm containing the path, honoring path
// segment boundaries so /administrator does not match /admin.
func (p *Policy) match(path string) *Realm {
	var best *Realm
	for i := range p.realms {
		realm := &p.realms[i]
		if !strings.HasPrefix(path, realm.Prefix) {
			continue
		}
		if len(path) > len(realm.Prefix) && path[len(realm.Prefix)] != '/' {
			continue
		}
		if best == nil || len(realm.Prefix) > len(best.Prefix) {
			best = realm
		}
	}
	return best
}
