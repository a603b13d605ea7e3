package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSession sends clients without a session user back to the login
// screen. Must run after ShellLoader.
func RequireSession(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sh := Shell(c)
			if sh == nil || sh.Session().User == nil {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			return next(c)
		}
	}
}

// NoStore keeps browsers from caching rendered screens, which depend on the
// shell state rather than the URL.
func NoStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "no-store")
		h.Set("Pragma", "no-cache")
		return next(c)
	}
}
