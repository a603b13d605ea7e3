package screens

import (
	"github.com/sudo-init-do/khadamni/internal/marketplace"
	"github.com/sudo-init-do/khadamni/internal/nav"
)

// Frame is what every rendered screen carries: where the client is, who it is
// acting as, and where it may go next.
type Frame struct {
	Screen  nav.Screen        `json:"screen"`
	User    *marketplace.User `json:"user,omitempty"`
	Guest   bool              `json:"guest"`
	Targets []nav.Screen      `json:"targets"`
	Notice  string            `json:"notice,omitempty"`
}

type LoginView struct {
	Frame
	Email   string `json:"email"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type HomeView struct {
	Frame
	Recent []marketplace.Post `json:"recent"`
}

type BrowseView struct {
	Frame
	Filters marketplace.Filters `json:"filters"`
	Search  string              `json:"search"`
	Posts   []marketplace.Post  `json:"posts"`
	Total   int                 `json:"total"`
}

type CreatePostView struct {
	Frame
	Form    marketplace.NewPost `json:"form"`
	Missing []string            `json:"missing,omitempty"`
	Loading bool                `json:"loading"`
	Error   string              `json:"error,omitempty"`
	Created *marketplace.Post   `json:"created,omitempty"`
}

type ProfileView struct {
	Frame
	Rating  string `json:"rating"`
	Message string `json:"message,omitempty"`
}

// StubView is rendered by screens that only announce themselves.
type StubView struct {
	Frame
	Message string `json:"message"`
}
