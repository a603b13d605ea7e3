package screens

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sudo-init-do/khadamni/internal/api"
	"github.com/sudo-init-do/khadamni/internal/marketplace"
	"github.com/sudo-init-do/khadamni/internal/nav"
)

type fakeAPI struct {
	mu      sync.Mutex
	posts   []marketplace.Post
	created *marketplace.Post
	login   *marketplace.LoginResult

	lists   []marketplace.Filters
	creates []marketplace.NewPost
	logins  int32

	// block, when set, makes ListPosts wait for it or for ctx to end.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeAPI) ListPosts(ctx context.Context, fl marketplace.Filters) []marketplace.Post {
	f.mu.Lock()
	f.lists = append(f.lists, fl)
	block, started := f.block, f.started
	f.mu.Unlock()
	if block != nil {
		close(started)
		select {
		case <-block:
		case <-ctx.Done():
			return []marketplace.Post{}
		}
	}
	out := make([]marketplace.Post, len(f.posts))
	copy(out, f.posts)
	return out
}

func (f *fakeAPI) CreatePost(ctx context.Context, p marketplace.NewPost) *marketplace.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, p)
	return f.created
}

func (f *fakeAPI) Login(ctx context.Context, cred marketplace.Credentials) *marketplace.LoginResult {
	atomic.AddInt32(&f.logins, 1)
	return f.login
}

func (f *fakeAPI) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists)
}

func signedIn(t *testing.T, id int64) *nav.Shell {
	t.Helper()
	sh := nav.NewShell("t")
	if _, err := sh.SignIn(sh.Token(), marketplace.User{ID: id, Username: "سالم"}); err != nil {
		t.Fatal(err)
	}
	return sh
}

func samplePosts(n int) []marketplace.Post {
	posts := make([]marketplace.Post, n)
	for i := range posts {
		posts[i] = marketplace.Post{ID: int64(i + 1), Title: "منشور", City: "طرابلس"}
	}
	return posts
}

func TestSubmitLoginEmptyFieldsSkipsRequest(t *testing.T) {
	fake := &fakeAPI{}
	c := New(fake)
	sh := nav.NewShell("t")

	view, err := c.SubmitLogin(context.Background(), sh, marketplace.Credentials{Email: "  ", Password: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if view.Error != MsgLoginRequired {
		t.Fatalf("expected required message, got %q", view.Error)
	}
	if atomic.LoadInt32(&fake.logins) != 0 {
		t.Fatal("no request expected")
	}
}

func TestSubmitLoginAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/login" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"user":{"id":7,"username":"x"}}`))
	}))
	defer srv.Close()

	c := New(api.New(srv.URL))
	sh := nav.NewShell("t")
	view, err := c.SubmitLogin(context.Background(), sh, marketplace.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if sh.Current() != nav.Main || view.Screen != nav.Main {
		t.Fatalf("expected main, got shell=%s view=%s", sh.Current(), view.Screen)
	}
	sess := sh.Session()
	if sess.User == nil || sess.User.ID != 7 || sess.Guest {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestSubmitLoginFailures(t *testing.T) {
	cases := []struct {
		name string
		res  *marketplace.LoginResult
		want string
	}{
		{"fault", nil, MsgConnectionError},
		{"server message", &marketplace.LoginResult{Message: "كلمة المرور غير صحيحة"}, "كلمة المرور غير صحيحة"},
		{"no message", &marketplace.LoginResult{}, MsgLoginFailed},
		{"success without user", &marketplace.LoginResult{Success: true}, MsgLoginFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(&fakeAPI{login: tc.res})
			sh := nav.NewShell("t")
			view, err := c.SubmitLogin(context.Background(), sh, marketplace.Credentials{Email: "a@b.c", Password: "pw"})
			if err != nil {
				t.Fatal(err)
			}
			if view.Error != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, view.Error)
			}
			if view.Email != "a@b.c" {
				t.Fatalf("email should be kept, got %q", view.Email)
			}
			if sh.Current() != nav.Login || sh.Session().User != nil {
				t.Fatal("failed login must stay on login")
			}
		})
	}
}

func TestSubmitLoginOffLoginScreen(t *testing.T) {
	c := New(&fakeAPI{})
	sh := signedIn(t, 3)
	_, err := c.SubmitLogin(context.Background(), sh, marketplace.Credentials{Email: "a", Password: "b"})
	if !errors.Is(err, nav.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestDemoIssuesNoRequest(t *testing.T) {
	fake := &fakeAPI{}
	c := New(fake)
	sh := nav.NewShell("t")

	view, err := c.Demo(sh)
	if err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&fake.logins) != 0 || fake.listCount() != 0 {
		t.Fatal("demo must not contact the API")
	}
	if view.Screen != nav.Main || !view.Guest {
		t.Fatalf("unexpected view %+v", view.Frame)
	}
	if view.User == nil || view.User.ID != 1 || view.User.Username != "مستخدم تجريبي" {
		t.Fatalf("unexpected demo user %+v", view.User)
	}
}

func TestHomeShowsThreeRecentOncePerMount(t *testing.T) {
	fake := &fakeAPI{posts: samplePosts(5)}
	c := New(fake)
	sh := signedIn(t, 3)

	view, err := c.Home(context.Background(), sh)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Recent) != RecentCount || view.Recent[0].ID != 1 {
		t.Fatalf("unexpected recent posts %+v", view.Recent)
	}
	if _, err := c.Home(context.Background(), sh); err != nil {
		t.Fatal(err)
	}
	if fake.listCount() != 1 {
		t.Fatalf("expected one fetch per mount, got %d", fake.listCount())
	}

	c.Profile(sh)
	c.Home(context.Background(), sh)
	if fake.listCount() != 2 {
		t.Fatalf("remount should fetch again, got %d", fake.listCount())
	}
}

func TestBrowseRefetchesOnlyWhenFiltersChange(t *testing.T) {
	fake := &fakeAPI{posts: []marketplace.Post{
		{ID: 1, Title: "Plumber wanted", City: "طرابلس"},
		{ID: 2, Title: "طباخ", City: "بنغازي"},
	}}
	c := New(fake)
	sh := signedIn(t, 3)
	ctx := context.Background()

	view, err := c.Browse(ctx, sh, BrowseQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Posts) != 2 || view.Total != 2 {
		t.Fatalf("unexpected posts %+v", view.Posts)
	}

	view, _ = c.Browse(ctx, sh, BrowseQuery{Search: "PLUMBER"})
	if len(view.Posts) != 1 || view.Posts[0].ID != 1 {
		t.Fatalf("search should narrow to post 1, got %+v", view.Posts)
	}
	if fake.listCount() != 1 {
		t.Fatalf("search must not refetch, got %d fetches", fake.listCount())
	}

	city := marketplace.Filters{City: "طرابلس"}
	c.Browse(ctx, sh, BrowseQuery{Filters: city})
	c.Browse(ctx, sh, BrowseQuery{Filters: city, Search: "x"})
	if fake.listCount() != 2 {
		t.Fatalf("expected a fetch per filter change, got %d", fake.listCount())
	}
	if fake.lists[1] != city {
		t.Fatalf("filters not passed through: %+v", fake.lists[1])
	}
}

func TestBrowseStateResetsOnUnmount(t *testing.T) {
	fake := &fakeAPI{}
	c := New(fake)
	sh := signedIn(t, 3)
	ctx := context.Background()

	c.Browse(ctx, sh, BrowseQuery{Filters: marketplace.Filters{City: "مصراتة"}})
	c.Home(ctx, sh)
	view, _ := c.Browse(ctx, sh, BrowseQuery{})
	if !view.Filters.IsZero() {
		t.Fatalf("filters should reset, got %+v", view.Filters)
	}
	if fake.listCount() != 3 {
		t.Fatalf("expected 3 fetches, got %d", fake.listCount())
	}
}

func TestNavigatingAwayDiscardsInFlightFetch(t *testing.T) {
	fake := &fakeAPI{
		posts:   samplePosts(2),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	c := New(fake)
	sh := signedIn(t, 3)
	if _, err := sh.Navigate(nav.Browse); err != nil {
		t.Fatal(err)
	}
	mount := sh.Token()

	done := make(chan BrowseView)
	go func() {
		v, _ := c.Browse(context.Background(), sh, BrowseQuery{})
		done <- v
	}()

	<-fake.started
	if _, err := sh.Navigate(nav.Main); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not cancelled by navigation")
	}
	if mount.Context().Err() == nil {
		t.Fatal("old mount context should be cancelled")
	}
	if _, ok := sh.State(mount); ok {
		t.Fatal("stale mount state must not be readable")
	}
	if sh.Current() != nav.Main {
		t.Fatalf("expected main, got %s", sh.Current())
	}
}

func TestSubmitPostMissingFieldsSkipsRequest(t *testing.T) {
	fake := &fakeAPI{}
	c := New(fake)
	sh := signedIn(t, 3)
	c.CreatePostForm(sh)

	view, err := c.SubmitPost(context.Background(), sh, marketplace.NewPost{Title: "t", City: " "})
	if err != nil {
		t.Fatal(err)
	}
	if view.Error != MsgRequiredFields {
		t.Fatalf("expected required message, got %q", view.Error)
	}
	want := []string{"service_type", "salary", "city", "description"}
	if len(view.Missing) != len(want) {
		t.Fatalf("expected %v, got %v", want, view.Missing)
	}
	for i := range want {
		if view.Missing[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, view.Missing)
		}
	}
	if len(fake.creates) != 0 {
		t.Fatal("no request expected")
	}
}

func completePost() marketplace.NewPost {
	return marketplace.NewPost{
		Title:       "سباك ماهر",
		ServiceType: "سباك",
		Salary:      "500",
		City:        "طرابلس",
		Description: "خبرة عشر سنوات",
	}
}

func TestSubmitPostGuestIsRefused(t *testing.T) {
	fake := &fakeAPI{}
	c := New(fake)
	sh := nav.NewShell("t")
	c.Demo(sh)
	if _, err := c.CreatePostForm(sh); err != nil {
		t.Fatal(err)
	}

	view, _ := c.SubmitPost(context.Background(), sh, completePost())
	if view.Error != MsgLoginToPost {
		t.Fatalf("expected login message, got %q", view.Error)
	}
	if len(fake.creates) != 0 {
		t.Fatal("guest must not post")
	}
}

func TestSubmitPostSuccess(t *testing.T) {
	fake := &fakeAPI{created: &marketplace.Post{ID: 7, Title: "سباك ماهر"}}
	c := New(fake)
	sh := signedIn(t, 42)
	c.CreatePostForm(sh)

	p := completePost()
	p.UserID = 1
	view, err := c.SubmitPost(context.Background(), sh, p)
	if err != nil {
		t.Fatal(err)
	}
	if view.Created == nil || view.Created.ID != 7 {
		t.Fatalf("expected created post, got %+v", view.Created)
	}
	if view.Notice != MsgPostCreated || view.Screen != nav.Main || sh.Current() != nav.Main {
		t.Fatalf("expected main with notice, got %+v", view.Frame)
	}
	if len(fake.creates) != 1 || fake.creates[0].UserID != 42 {
		t.Fatalf("post should carry the session user id, got %+v", fake.creates)
	}
}

func TestSubmitPostFailureKeepsForm(t *testing.T) {
	c := New(&fakeAPI{})
	sh := signedIn(t, 42)
	c.CreatePostForm(sh)

	view, _ := c.SubmitPost(context.Background(), sh, completePost())
	if view.Error != MsgPostFailed {
		t.Fatalf("expected failure message, got %q", view.Error)
	}
	if view.Form.Title != "سباك ماهر" || sh.Current() != nav.CreatePost {
		t.Fatal("form should be kept on failure")
	}
}

func TestProfileAndStubs(t *testing.T) {
	c := New(&fakeAPI{})
	sh := nav.NewShell("t")
	c.Demo(sh)

	prof, err := c.Profile(sh)
	if err != nil {
		t.Fatal(err)
	}
	if prof.Rating != "0.0 (0)" || prof.Message != MsgGuestProfile {
		t.Fatalf("unexpected profile %+v", prof)
	}

	if _, err := c.Chat(sh); !errors.Is(err, nav.ErrIllegalTransition) {
		t.Fatalf("profile -> chat should be illegal, got %v", err)
	}
	if sh.Current() != nav.Profile {
		t.Fatalf("illegal move must leave profile mounted, got %s", sh.Current())
	}

	c.Home(context.Background(), sh)
	chat, err := c.Chat(sh)
	if err != nil {
		t.Fatal(err)
	}
	if chat.Message != MsgUnderDevelopment {
		t.Fatalf("unexpected chat view %+v", chat)
	}
}

func TestRegisterAndBackToLogin(t *testing.T) {
	c := New(&fakeAPI{})
	sh := nav.NewShell("t")

	if _, err := c.Register(sh); err != nil {
		t.Fatal(err)
	}
	view, err := c.Login(sh)
	if err != nil {
		t.Fatal(err)
	}
	if view.Screen != nav.Login {
		t.Fatalf("expected login, got %s", view.Screen)
	}
}

func TestLogout(t *testing.T) {
	c := New(&fakeAPI{})
	sh := signedIn(t, 5)

	view, err := c.Logout(sh)
	if err != nil {
		t.Fatal(err)
	}
	if view.Screen != nav.Login || view.User != nil {
		t.Fatalf("unexpected view after logout %+v", view.Frame)
	}
	if _, err := c.Logout(sh); err != nil {
		t.Fatalf("logout on the login screen is a stay, got %v", err)
	}
}

func TestAbortedFetchIsNotKept(t *testing.T) {
	fake := &fakeAPI{posts: samplePosts(2)}
	c := New(fake)
	sh := signedIn(t, 3)

	gone, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Home(gone, sh); err != nil {
		t.Fatal(err)
	}
	view, err := c.Home(context.Background(), sh)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Recent) != 2 || fake.listCount() != 2 {
		t.Fatalf("home after an aborted fetch: %d recent, %d fetches", len(view.Recent), fake.listCount())
	}

	if _, err := c.Browse(gone, sh, BrowseQuery{}); err != nil {
		t.Fatal(err)
	}
	bv, err := c.Browse(context.Background(), sh, BrowseQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if bv.Total != 2 || fake.listCount() != 4 {
		t.Fatalf("browse after an aborted fetch: %d posts, %d fetches", bv.Total, fake.listCount())
	}
}

func TestLoginFromSignedInScreensLogsOut(t *testing.T) {
	c := New(&fakeAPI{})
	for _, from := range []nav.Screen{nav.Main, nav.Profile} {
		sh := signedIn(t, 5)
		if _, err := sh.Navigate(from); err != nil {
			t.Fatal(err)
		}
		view, err := c.Login(sh)
		if err != nil {
			t.Fatalf("login from %s: %v", from, err)
		}
		if view.Screen != nav.Login || view.User != nil || sh.Session().User != nil {
			t.Fatalf("login from %s: unexpected view %+v", from, view.Frame)
		}
	}

	sh := signedIn(t, 5)
	sh.Navigate(nav.Browse)
	if _, err := c.Login(sh); !errors.Is(err, nav.ErrIllegalTransition) {
		t.Fatalf("login from browse: expected ErrIllegalTransition, got %v", err)
	}
}

func TestSignedOutFrameListsOnlyPublicTargets(t *testing.T) {
	c := New(&fakeAPI{})
	view, err := c.Login(nav.NewShell("t"))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range view.Targets {
		if !s.Public() {
			t.Fatalf("signed-out login frame lists %s", s)
		}
	}
	if len(view.Targets) != 2 {
		t.Fatalf("expected demo and register, got %v", view.Targets)
	}
}
