package nav

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
)

// Token identifies one mount of a screen. Its context is cancelled as soon as
// the shell mounts another screen.
type Token struct {
	gen    uint64
	screen Screen
	ctx    context.Context
}

func (t Token) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

func (t Token) Screen() Screen { return t.screen }

// Shell holds the navigation state of one client.
type Shell struct {
	ID string

	mu       sync.Mutex
	current  Screen
	session  Session
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	state    any
	flash    string
	lastSeen time.Time
}

func NewShell(id string) *Shell {
	s := &Shell{ID: id, current: Login, lastSeen: time.Now()}
	s.mountLocked(Login)
	return s
}

func (s *Shell) Current() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Shell) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Token returns the token of the current mount.
func (s *Shell) Token() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenLocked()
}

// IsCurrent reports whether t belongs to the mounted screen.
func (s *Shell) IsCurrent(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.gen == s.gen
}

// Navigate moves to another screen. Navigating to the mounted screen keeps the
// mount (and its state); any other move cancels the old mount. Screens other
// than login, demo and register need a session user.
func (s *Shell) Navigate(to Screen) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(to)
}

// NavigateFrom is Navigate for moves caused by a response: it fails with
// ErrStaleToken when t no longer belongs to the mounted screen.
func (s *Shell) NavigateFrom(t Token, to Screen) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen {
		return s.tokenLocked(), ErrStaleToken
	}
	return s.navigateLocked(to)
}

// SignIn stores the user returned by the API and lands on the main screen.
// The login must have been issued from the mount t belongs to.
func (s *Shell) SignIn(t Token, u marketplace.User) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen {
		return s.tokenLocked(), ErrStaleToken
	}
	if !CanTransition(s.current, Main) {
		return s.tokenLocked(), fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.current, Main)
	}
	s.session = Session{User: &u}
	return s.navigateLocked(Main)
}

// EnterDemo passes through the demo screen: it fabricates the guest identity
// and lands on the main screen.
func (s *Shell) EnterDemo() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.navigateLocked(Demo); err != nil {
		return s.tokenLocked(), err
	}
	u := DemoUser()
	s.session = Session{User: &u, Guest: true}
	return s.navigateLocked(Main)
}

// Logout clears the session and returns to the login screen.
func (s *Shell) Logout() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.navigateLocked(Login)
	if err != nil {
		return t, err
	}
	s.session = Session{}
	return t, nil
}

// State returns the state stored by the mount t belongs to.
func (s *Shell) State(t Token) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen {
		return nil, false
	}
	return s.state, true
}

// Update replaces the mount's state with fn's result, only if t is still
// current. fn runs under the shell lock and must not block.
func (s *Shell) Update(t Token, fn func(state any) any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen {
		return false
	}
	s.state = fn(s.state)
	return true
}

// Flash leaves a one-shot notice for the next screen rendered.
func (s *Shell) Flash(msg string) {
	s.mu.Lock()
	s.flash = msg
	s.mu.Unlock()
}

// TakeFlash returns and clears the pending notice.
func (s *Shell) TakeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}

// Close cancels the current mount. The shell is unusable afterwards.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
}

func (s *Shell) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Shell) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Shell) navigateLocked(to Screen) (Token, error) {
	if !CanTransition(s.current, to) {
		return s.tokenLocked(), fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.current, to)
	}
	if !to.Public() && s.session.User == nil {
		return s.tokenLocked(), fmt.Errorf("%w: %s", ErrSignedOut, to)
	}
	if to != s.current {
		s.mountLocked(to)
	}
	return s.tokenLocked(), nil
}

func (s *Shell) mountLocked(to Screen) {
	if s.cancel != nil {
		s.cancel()
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.gen++
	s.current = to
	s.state = nil
}

func (s *Shell) tokenLocked() Token {
	return Token{gen: s.gen, screen: s.current, ctx: s.ctx}
}
