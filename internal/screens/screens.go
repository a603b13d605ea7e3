// Package screens implements the behaviour of every screen independently of
// how it is presented. The web and mobile adapters call into a Controller with
// the client's nav.Shell and render the view it returns; when an action moves
// the shell to another screen the adapter follows shell.Current().
package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
	"github.com/sudo-init-do/khadamni/internal/nav"
)

// RecentCount is how many posts the main screen shows.
const RecentCount = 3

// API is the part of the remote API the screens consume. *api.Client
// implements it.
type API interface {
	ListPosts(ctx context.Context, f marketplace.Filters) []marketplace.Post
	CreatePost(ctx context.Context, p marketplace.NewPost) *marketplace.Post
	Login(ctx context.Context, cred marketplace.Credentials) *marketplace.LoginResult
}

type Controller struct {
	api API
}

func New(api API) *Controller {
	return &Controller{api: api}
}

// per-mount state kept in the shell
type (
	formState struct {
		inFlight bool
	}
	homeState struct {
		loaded bool
		recent []marketplace.Post
	}
	browseState struct {
		fetched bool
		filters marketplace.Filters
		posts   []marketplace.Post
	}
)

// Login renders the login screen. Coming back from the register screen is a
// plain move; from the signed-in screens that list it, it is a logout.
func (c *Controller) Login(sh *nav.Shell) (LoginView, error) {
	tok := sh.Token()
	var err error
	switch tok.Screen() {
	case nav.Register:
		tok, err = sh.Navigate(nav.Login)
	case nav.Main, nav.Profile:
		tok, err = sh.Logout()
	}
	if err != nil {
		return LoginView{}, err
	}
	if tok.Screen() != nav.Login {
		return LoginView{}, wrongScreen(nav.Login, tok.Screen())
	}
	st, _ := sh.State(tok)
	fs, _ := st.(*formState)
	return LoginView{Frame: frame(sh, tok), Loading: fs != nil && fs.inFlight}, nil
}

// SubmitLogin checks the credentials against the API. On success the shell
// moves to the main screen; otherwise the returned view carries the error.
func (c *Controller) SubmitLogin(ctx context.Context, sh *nav.Shell, cred marketplace.Credentials) (LoginView, error) {
	tok := sh.Token()
	if tok.Screen() != nav.Login {
		return LoginView{}, wrongScreen(nav.Login, tok.Screen())
	}
	cred.Email = strings.TrimSpace(cred.Email)
	view := LoginView{Email: cred.Email}

	if cred.Email == "" || cred.Password == "" {
		view.Frame = frame(sh, tok)
		view.Error = MsgLoginRequired
		return view, nil
	}
	if !begin(sh, tok) {
		view.Frame = frame(sh, tok)
		view.Loading = true
		return view, nil
	}

	reqCtx, cancel := bind(ctx, tok)
	res := c.api.Login(reqCtx, cred)
	cancel()
	end(sh, tok)

	switch {
	case res == nil:
		view.Error = MsgConnectionError
	case !res.Success || res.User == nil:
		view.Error = res.Message
		if view.Error == "" {
			view.Error = MsgLoginFailed
		}
	default:
		if next, err := sh.SignIn(tok, *res.User); err == nil {
			tok = next
		}
	}
	view.Frame = frame(sh, tok)
	return view, nil
}

// Demo signs in as the local guest without contacting the API.
func (c *Controller) Demo(sh *nav.Shell) (HomeView, error) {
	if _, err := sh.EnterDemo(); err != nil {
		return HomeView{}, err
	}
	return HomeView{Frame: frame(sh, sh.Token())}, nil
}

// Home mounts the main screen. Posts are fetched once per mount.
func (c *Controller) Home(ctx context.Context, sh *nav.Shell) (HomeView, error) {
	tok, err := sh.Navigate(nav.Main)
	if err != nil {
		return HomeView{}, err
	}

	st, _ := sh.State(tok)
	hs, _ := st.(*homeState)
	if hs == nil || !hs.loaded {
		posts, ok := c.listPosts(ctx, tok, marketplace.Filters{})
		if len(posts) > RecentCount {
			posts = posts[:RecentCount]
		}
		hs = &homeState{loaded: true, recent: posts}
		if ok {
			sh.Update(tok, func(any) any { return hs })
		}
	}
	return HomeView{Frame: frame(sh, tok), Recent: hs.recent}, nil
}

// BrowseQuery is what the browse screen's inputs hold.
type BrowseQuery struct {
	Filters marketplace.Filters
	Search  string
}

// Browse mounts the browse screen. The API is queried on first mount and
// whenever the filters differ from the last fetch; the search term only
// narrows the posts already fetched.
func (c *Controller) Browse(ctx context.Context, sh *nav.Shell, q BrowseQuery) (BrowseView, error) {
	tok, err := sh.Navigate(nav.Browse)
	if err != nil {
		return BrowseView{}, err
	}

	st, _ := sh.State(tok)
	bs, _ := st.(*browseState)
	if bs == nil || !bs.fetched || bs.filters != q.Filters {
		posts, ok := c.listPosts(ctx, tok, q.Filters)
		bs = &browseState{fetched: true, filters: q.Filters, posts: posts}
		if ok {
			sh.Update(tok, func(any) any { return bs })
		}
	}

	return BrowseView{
		Frame:   frame(sh, tok),
		Filters: bs.filters,
		Search:  q.Search,
		Posts:   marketplace.Search(bs.posts, q.Search),
		Total:   len(bs.posts),
	}, nil
}

// CreatePostForm mounts the empty create-post form.
func (c *Controller) CreatePostForm(sh *nav.Shell) (CreatePostView, error) {
	tok, err := sh.Navigate(nav.CreatePost)
	if err != nil {
		return CreatePostView{}, err
	}
	st, _ := sh.State(tok)
	fs, _ := st.(*formState)
	return CreatePostView{Frame: frame(sh, tok), Loading: fs != nil && fs.inFlight}, nil
}

// SubmitPost validates the form and publishes it on behalf of the signed-in
// user. A created post moves the shell back to the main screen; the success
// notice is on the returned view and it is up to the adapter to carry it over.
func (c *Controller) SubmitPost(ctx context.Context, sh *nav.Shell, p marketplace.NewPost) (CreatePostView, error) {
	tok := sh.Token()
	if tok.Screen() != nav.CreatePost {
		return CreatePostView{}, wrongScreen(nav.CreatePost, tok.Screen())
	}
	p.Normalize()
	p.UserID = 0
	view := CreatePostView{Form: p}

	if missing := p.MissingFields(); len(missing) > 0 {
		view.Frame = frame(sh, tok)
		view.Missing = missing
		view.Error = MsgRequiredFields
		return view, nil
	}
	sess := sh.Session()
	if !sess.SignedIn() {
		view.Frame = frame(sh, tok)
		view.Error = MsgLoginToPost
		return view, nil
	}
	if !begin(sh, tok) {
		view.Frame = frame(sh, tok)
		view.Loading = true
		return view, nil
	}

	p.UserID = sess.User.ID
	reqCtx, cancel := bind(ctx, tok)
	created := c.api.CreatePost(reqCtx, p)
	cancel()
	end(sh, tok)

	if created == nil {
		view.Frame = frame(sh, tok)
		view.Error = MsgPostFailed
		return view, nil
	}
	view.Created = created
	if next, err := sh.NavigateFrom(tok, nav.Main); err == nil {
		tok = next
	}
	view.Frame = frame(sh, tok)
	view.Notice = MsgPostCreated
	return view, nil
}

// Profile shows the session user. It performs no I/O.
func (c *Controller) Profile(sh *nav.Shell) (ProfileView, error) {
	tok, err := sh.Navigate(nav.Profile)
	if err != nil {
		return ProfileView{}, err
	}
	view := ProfileView{Frame: frame(sh, tok)}
	view.Rating = view.User.RatingLabel()
	if view.Guest {
		view.Message = MsgGuestProfile
	}
	return view, nil
}

func (c *Controller) Chat(sh *nav.Shell) (StubView, error) {
	return c.stub(sh, nav.Chat)
}

func (c *Controller) Register(sh *nav.Shell) (StubView, error) {
	return c.stub(sh, nav.Register)
}

// Logout forgets the session user and returns to the login screen.
func (c *Controller) Logout(sh *nav.Shell) (LoginView, error) {
	tok, err := sh.Logout()
	if err != nil {
		return LoginView{}, err
	}
	return LoginView{Frame: frame(sh, tok)}, nil
}

func (c *Controller) stub(sh *nav.Shell, s nav.Screen) (StubView, error) {
	tok, err := sh.Navigate(s)
	if err != nil {
		return StubView{}, err
	}
	return StubView{Frame: frame(sh, tok), Message: MsgUnderDevelopment}, nil
}

// listPosts fetches posts for the mount tok belongs to. ok is false when the
// request was cut short, in which case the result must not be kept.
func (c *Controller) listPosts(ctx context.Context, tok nav.Token, f marketplace.Filters) (posts []marketplace.Post, ok bool) {
	reqCtx, cancel := bind(ctx, tok)
	defer cancel()
	posts = c.api.ListPosts(reqCtx, f)
	return posts, reqCtx.Err() == nil
}

func frame(sh *nav.Shell, tok nav.Token) Frame {
	sess := sh.Session()
	return Frame{
		Screen:  tok.Screen(),
		User:    sess.User,
		Guest:   sess.Guest,
		Targets: sess.Targets(tok.Screen()),
		Notice:  sh.TakeFlash(),
	}
}

func wrongScreen(want, got nav.Screen) error {
	return fmt.Errorf("%w: %s action while on %s", nav.ErrIllegalTransition, want, got)
}

// bind derives the context of a request issued by the mount tok belongs to:
// it ends when either the caller's context or the mount ends.
func bind(ctx context.Context, tok nav.Token) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(tok.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// begin marks the mount's form as submitting. It reports false when a
// submission is already in flight or the mount is gone.
func begin(sh *nav.Shell, tok nav.Token) bool {
	started := false
	sh.Update(tok, func(st any) any {
		fs, _ := st.(*formState)
		if fs != nil && fs.inFlight {
			return st
		}
		started = true
		return &formState{inFlight: true}
	})
	return started
}

func end(sh *nav.Shell, tok nav.Token) {
	sh.Update(tok, func(any) any { return &formState{} })
}
