// Package nav is the navigation shell shared by every front end: which screen
// is mounted, who is signed in, and whether a response may still be applied.
package nav

import (
	"errors"
	"fmt"
)

type Screen int

const (
	Login Screen = iota
	Demo
	Main
	Browse
	CreatePost
	Chat
	Profile
	Register
)

var slugs = [...]string{
	Login:      "login",
	Demo:       "demo",
	Main:       "main",
	Browse:     "browse",
	CreatePost: "create-post",
	Chat:       "chat",
	Profile:    "profile",
	Register:   "register",
}

var (
	ErrUnknownScreen     = errors.New("unknown screen")
	ErrIllegalTransition = errors.New("illegal screen transition")
	ErrStaleToken        = errors.New("screen is no longer mounted")
	ErrSignedOut         = errors.New("screen needs a signed-in user")
)

// Public reports whether s can be mounted without a session user.
func (s Screen) Public() bool {
	return s == Login || s == Demo || s == Register
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(slugs) {
		return fmt.Sprintf("Screen(%d)", int(s))
	}
	return slugs[s]
}

func (s Screen) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(slugs) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScreen, int(s))
	}
	return []byte(slugs[s]), nil
}

func (s *Screen) UnmarshalText(b []byte) error {
	v, err := ParseScreen(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseScreen maps a slug such as "create-post" back to its Screen.
func ParseScreen(slug string) (Screen, error) {
	for i, s := range slugs {
		if s == slug {
			return Screen(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScreen, slug)
}

// transitions lists, per screen, the screens a user action may move to.
// Staying on the same screen is always allowed and is not listed.
var transitions = map[Screen][]Screen{
	Login:      {Main, Demo, Register},
	Demo:       {Main},
	Register:   {Login},
	Main:       {Browse, CreatePost, Chat, Profile, Login},
	Browse:     {Main, Chat, CreatePost, Profile},
	CreatePost: {Main, Browse, Profile},
	Chat:       {Main},
	Profile:    {Main, Browse, CreatePost, Login},
}

// CanTransition reports whether the shell may move from one screen to another.
func CanTransition(from, to Screen) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Targets returns the screens reachable from s, in table order.
func Targets(s Screen) []Screen {
	return append([]Screen(nil), transitions[s]...)
}
