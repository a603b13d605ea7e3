package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/khadamni/internal/nav"
)

const (
	// SessionName is the cookie carrying the shell id.
	SessionName = "khadamni"
	shellKey    = "shell"
	shellIDKey  = "shell_id"
	savedAtKey  = "saved_at"
)

var now = time.Now

// ShellLoader resolves the client's navigation shell from the session cookie
// and stores it on the context. A client without a live shell gets a new one.
// The cookie is written again once half of its MaxAge has passed, so an active
// client keeps it.
func ShellLoader(store sessions.Store, reg *nav.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req, res := c.Request(), c.Response()

			// a cookie that fails to decode still yields a usable new session
			sess, _ := store.Get(req, SessionName)

			id, _ := sess.Values[shellIDKey].(string)
			sh, ok := reg.Get(id)
			if !ok {
				sh = reg.Create()
				sess.Values[shellIDKey] = sh.ID
			}
			if !ok || refreshDue(sess) {
				sess.Values[savedAtKey] = now().Unix()
				if err := sess.Save(req, res); err != nil {
					c.Logger().Errorf("save session: %v", err)
					return c.String(http.StatusInternalServerError, "session error")
				}
			}

			c.Set(shellKey, sh)
			return next(c)
		}
	}
}

func refreshDue(sess *sessions.Session) bool {
	if sess.Options == nil || sess.Options.MaxAge <= 0 {
		return false
	}
	saved, _ := sess.Values[savedAtKey].(int64)
	half := time.Duration(sess.Options.MaxAge) * time.Second / 2
	return now().Sub(time.Unix(saved, 0)) > half
}

// Shell returns the shell stored by ShellLoader.
func Shell(c echo.Context) *nav.Shell {
	sh, _ := c.Get(shellKey).(*nav.Shell)
	return sh
}

// NewCookieStore returns the cookie store used for shell sessions.
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
