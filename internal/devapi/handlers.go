package devapi

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
)

const msgInvalidCredentials = "البريد الإلكتروني أو كلمة المرور غير صحيحة"

type Handler struct {
	Store Store
}

// NewServer returns an echo instance serving the marketplace API from store.
func NewServer(store Store) *echo.Echo {
	h := &Handler{Store: store}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())

	e.GET("/healthz", h.Healthz)
	e.GET("/posts", h.ListPosts)
	e.POST("/posts", h.CreatePost)

	users := e.Group("/users")
	users.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	users.POST("/login", h.Login)

	return e
}

// ListPosts returns the posts matching the city, service_type and
// work_schedule query parameters, newest first.
func (h *Handler) ListPosts(c echo.Context) error {
	f := marketplace.FiltersFromQuery(c.QueryParams())
	posts, err := h.Store.ListPosts(c.Request().Context(), f)
	if err != nil {
		c.Logger().Errorf("list posts: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch posts"})
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost stores a post for an existing user and returns it with its
// author.
func (h *Handler) CreatePost(c echo.Context) error {
	var req marketplace.NewPost
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	req.Normalize()

	if missing := req.MissingFields(); len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "missing required fields",
			"missing": missing,
		})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}

	post, err := h.Store.CreatePost(c.Request().Context(), req)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown user"})
	}
	if err != nil {
		c.Logger().Errorf("create post: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create post"})
	}
	return c.JSON(http.StatusCreated, post)
}

// Login checks email and password. Both outcomes use the LoginResult shape.
func (h *Handler) Login(c echo.Context) error {
	var req marketplace.Credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, marketplace.LoginResult{Message: "invalid request"})
	}

	u, err := Authenticate(c.Request().Context(), h.Store, req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, marketplace.LoginResult{Message: msgInvalidCredentials})
	}
	if err != nil {
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, marketplace.LoginResult{Message: "login failed"})
	}
	return c.JSON(http.StatusOK, marketplace.LoginResult{Success: true, User: &u})
}

func (h *Handler) Healthz(c echo.Context) error {
	if err := h.Store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "store unreachable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
