// Package web serves the screens as server-rendered HTML pages.
package web

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	mware "github.com/sudo-init-do/khadamni/internal/middleware"
	"github.com/sudo-init-do/khadamni/internal/nav"
	"github.com/sudo-init-do/khadamni/internal/screens"
)

type Options struct {
	Screens  *screens.Controller
	Registry *nav.Registry
	Sessions sessions.Store
}

func NewServer(opts Options) (*echo.Echo, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	h := &Handler{Screens: opts.Screens}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "shells": opts.Registry.Len()})
	})

	ui := e.Group("")
	ui.Use(mware.ShellLoader(opts.Sessions, opts.Registry))
	ui.Use(mware.NoStore)

	ui.GET("/", h.Index)
	ui.GET("/login", h.LoginPage)
	ui.POST("/login", h.LoginSubmit, middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	ui.POST("/login/demo", h.Demo)
	ui.GET("/register", h.Register)

	app := ui.Group("")
	app.Use(mware.RequireSession("/login"))
	app.GET("/main", h.Main)
	app.GET("/browse", h.Browse)
	app.GET("/posts/new", h.NewPost)
	app.POST("/posts/new", h.CreatePost)
	app.GET("/chat", h.Chat)
	app.GET("/profile", h.Profile)
	app.POST("/logout", h.Logout)

	return e, nil
}
