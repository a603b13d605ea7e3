package mobile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
	"github.com/sudo-init-do/khadamni/internal/nav"
	"github.com/sudo-init-do/khadamni/internal/screens"
)

type Handler struct {
	Screens  *screens.Controller
	Registry *nav.Registry
	Signer   *Signer
}

// CreateSession starts a shell on the login screen and returns its token.
func (h *Handler) CreateSession(c *gin.Context) {
	sh := h.Registry.Create()
	token, err := h.Signer.Issue(sh.ID)
	if err != nil {
		h.Registry.Remove(sh.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	view, err := h.Screens.Login(sh)
	if err != nil {
		h.Registry.Remove(sh.ID)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session setup failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "view": view})
}

// Screen reports the mounted screen without side effects.
func (h *Handler) Screen(c *gin.Context) {
	sh := shell(c)
	cur := sh.Current()
	sess := sh.Session()
	c.JSON(http.StatusOK, screens.Frame{
		Screen:  cur,
		User:    sess.User,
		Guest:   sess.Guest,
		Targets: sess.Targets(cur),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var cred marketplace.Credentials
	if err := c.ShouldBindJSON(&cred); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	view, err := h.Screens.SubmitLogin(c.Request.Context(), shell(c), cred)
	respond(c, http.StatusOK, view, err)
}

func (h *Handler) Demo(c *gin.Context) {
	view, err := h.Screens.Demo(shell(c))
	respond(c, http.StatusOK, view, err)
}

type navigateRequest struct {
	Screen *nav.Screen `json:"screen" binding:"required"`
}

// Navigate mounts the requested screen and returns its view, the way a tap on
// a button or tab does.
func (h *Handler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sh := shell(c)
	ctx := c.Request.Context()

	var (
		view any
		err  error
	)
	switch *req.Screen {
	case nav.Login:
		view, err = h.Screens.Login(sh)
	case nav.Demo:
		view, err = h.Screens.Demo(sh)
	case nav.Main:
		view, err = h.Screens.Home(ctx, sh)
	case nav.Browse:
		view, err = h.Screens.Browse(ctx, sh, screens.BrowseQuery{})
	case nav.CreatePost:
		view, err = h.Screens.CreatePostForm(sh)
	case nav.Chat:
		view, err = h.Screens.Chat(sh)
	case nav.Profile:
		view, err = h.Screens.Profile(sh)
	case nav.Register:
		view, err = h.Screens.Register(sh)
	}
	respond(c, http.StatusOK, view, err)
}

func (h *Handler) Home(c *gin.Context) {
	view, err := h.Screens.Home(c.Request.Context(), shell(c))
	respond(c, http.StatusOK, view, err)
}

func (h *Handler) Browse(c *gin.Context) {
	q := screens.BrowseQuery{
		Filters: marketplace.FiltersFromQuery(c.Request.URL.Query()),
		Search:  c.Query("q"),
	}
	view, err := h.Screens.Browse(c.Request.Context(), shell(c), q)
	respond(c, http.StatusOK, view, err)
}

// CreatePost submits the create-post form. The form screen must be mounted
// first (POST /v1/navigate).
func (h *Handler) CreatePost(c *gin.Context) {
	var p marketplace.NewPost
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	view, err := h.Screens.SubmitPost(c.Request.Context(), shell(c), p)
	status := http.StatusOK
	if view.Created != nil {
		status = http.StatusCreated
	}
	respond(c, status, view, err)
}

func (h *Handler) Profile(c *gin.Context) {
	view, err := h.Screens.Profile(shell(c))
	respond(c, http.StatusOK, view, err)
}

func (h *Handler) Chat(c *gin.Context) {
	view, err := h.Screens.Chat(shell(c))
	respond(c, http.StatusOK, view, err)
}

func (h *Handler) Logout(c *gin.Context) {
	view, err := h.Screens.Logout(shell(c))
	respond(c, http.StatusOK, view, err)
}

// respond writes view, or maps a refused navigation to 409 with the screen
// that stays mounted.
func respond(c *gin.Context, status int, view any, err error) {
	switch {
	case err == nil:
		c.JSON(status, view)
	case errors.Is(err, nav.ErrIllegalTransition), errors.Is(err, nav.ErrSignedOut):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "screen": shell(c).Current()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
