// Package mobile serves the screens as a JSON API for the mobile client. Each
// client holds a bearer token naming its navigation shell.
package mobile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sudo-init-do/khadamni/internal/nav"
	"github.com/sudo-init-do/khadamni/internal/screens"
)

type Options struct {
	Screens   *screens.Controller
	Registry  *nav.Registry
	JWTSecret string
}

func NewServer(opts Options) *gin.Engine {
	h := &Handler{
		Screens:  opts.Screens,
		Registry: opts.Registry,
		Signer:   NewSigner(opts.JWTSecret),
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "shells": opts.Registry.Len()})
	})

	v1 := r.Group("/v1")
	v1.POST("/session", h.CreateSession)

	authed := v1.Group("")
	authed.Use(requireShell(h.Signer, h.Registry))
	authed.GET("/screen", h.Screen)
	authed.POST("/login", h.Login)
	authed.POST("/login/demo", h.Demo)
	authed.POST("/navigate", h.Navigate)
	authed.GET("/home", h.Home)
	authed.GET("/browse", h.Browse)
	authed.POST("/posts", h.CreatePost)
	authed.GET("/profile", h.Profile)
	authed.GET("/chat", h.Chat)
	authed.POST("/logout", h.Logout)

	return r
}
