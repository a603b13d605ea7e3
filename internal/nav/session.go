package nav

import "github.com/sudo-init-do/khadamni/internal/marketplace"

// Session is the identity the screens act on behalf of. It is owned by a
// Shell and replaced wholesale on login, demo entry and logout.
type Session struct {
	User  *marketplace.User
	Guest bool
}

// DemoUser is the identity fabricated for guests; it never reaches the API.
func DemoUser() marketplace.User {
	return marketplace.User{ID: 1, Username: "مستخدم تجريبي", Email: "demo@example.com"}
}

// SignedIn reports whether the session belongs to an account the API issued.
func (s Session) SignedIn() bool {
	return s.User != nil && !s.Guest
}

// Targets lists the moves from s the session can make: without a user only
// the public screens are reachable.
func (s Session) Targets(from Screen) []Screen {
	all := Targets(from)
	if s.User != nil {
		return all
	}
	out := all[:0]
	for _, t := range all {
		if t.Public() {
			out = append(out, t)
		}
	}
	return out
}
