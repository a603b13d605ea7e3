package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
	mware "github.com/sudo-init-do/khadamni/internal/middleware"
	"github.com/sudo-init-do/khadamni/internal/nav"
	"github.com/sudo-init-do/khadamni/internal/screens"
)

type Handler struct {
	Screens *screens.Controller
}

// Index sends the client to whatever screen its shell has mounted.
func (h *Handler) Index(c echo.Context) error {
	return current(c)
}

// LoginPage renders the login form. A signed-in client is sent back to its
// screen; logging out takes the POST /logout form.
func (h *Handler) LoginPage(c echo.Context) error {
	sh := mware.Shell(c)
	if sh.Session().User != nil && sh.Current() != nav.Login {
		return current(c)
	}
	view, err := h.Screens.Login(sh)
	if err != nil {
		return follow(c, err)
	}
	return c.Render(http.StatusOK, "login", view)
}

func (h *Handler) LoginSubmit(c echo.Context) error {
	var cred marketplace.Credentials
	if err := c.Bind(&cred); err != nil {
		return c.String(http.StatusBadRequest, "invalid form")
	}
	sh := mware.Shell(c)
	view, err := h.Screens.SubmitLogin(c.Request().Context(), sh, cred)
	if err != nil {
		return follow(c, err)
	}
	if sh.Current() != nav.Login {
		return current(c)
	}
	return c.Render(http.StatusOK, "login", view)
}

func (h *Handler) Demo(c echo.Context) error {
	if _, err := h.Screens.Demo(mware.Shell(c)); err != nil {
		return follow(c, err)
	}
	return current(c)
}

func (h *Handler) Register(c echo.Context) error {
	view, err := h.Screens.Register(mware.Shell(c))
	if err != nil {
		return follow(c, err)
	}
	return c.Render(http.StatusOK, "stub", view)
}

func (h *Handler) Main(c echo.Context) error {
	view, err := h.Screens.Home(c.Request().Context(), mware.Shell(c))
	if err != nil {
		return follow(c, err)
	}
	return c.Render(http.StatusOK, "main", view)
}

func (h *Handler) Browse(c echo.Context) error {
	q := screens.BrowseQuery{
		Filters: marketplace.FiltersFromQuery(c.QueryParams()),
		Search:  c.QueryParam("q"),
	}
	view, err := h.Screens.Browse(c.Request().Context(), mware.Shell(c), q)
	if err != nil {
		return follow(c, err)
	}
	return c.Render(http.StatusOK, "browse", view)
}

func (h *Handler) NewPost(c echo.Context) error {
	view, err := h.Screens.CreatePostForm(mware.Shell(c))
	if err != nil {
		return follow(c, err)
	}
	return c.Render(http.StatusOK, "create_post", view)
}

func (h *Handler) CreatePost(c echo.Context) error {
	var form marketplace.NewPost
	if err := c.Bind(&form); err != nil {
		return c.String(http.StatusBadRequest, "invalid form")
	}
	sh := mware.Shell(c)
	view, err := h.Screens.SubmitPost(c.Request().Context(), sh, form)
	if err != nil {
		return follow(c, err)
	}
	if sh.Current() != nav.CreatePost {
		if view.Notice != "" {
			sh.Flash(view.Notice)
		}
		return current(c)
	}
	return c.Render(http.StatusOK, "create_post", view)
}

func (h *Handler) Chat(c echo.Context) error {
	view, err := h.Screens.Chat(mware.Shell(c))
	if err != nil {
		return follow(c, err)
	}
	return c.Render(http.StatusOK, "stub", view)
}

func (h *Handler) Profile(c echo.Context) error {
	view, err := h.Screens.Profile(mware.Shell(c))
	if err != nil {
		return follow(c, err)
	}
	return c.Render(http.StatusOK, "profile", view)
}

func (h *Handler) Logout(c echo.Context) error {
	if _, err := h.Screens.Logout(mware.Shell(c)); err != nil {
		return follow(c, err)
	}
	return current(c)
}

func current(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, screenPath(mware.Shell(c).Current()))
}

// follow turns a refused navigation into a redirect to the mounted screen.
func follow(c echo.Context, err error) error {
	if errors.Is(err, nav.ErrIllegalTransition) || errors.Is(err, nav.ErrSignedOut) {
		return current(c)
	}
	return err
}
