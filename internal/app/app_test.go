package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/vango-dev/isoshell/pkg/apiclient"
	"github.com/vango-dev/isoshell/pkg/ssr"
)

// fakeAPI serves the endpoints the loaders call. A "session=<name>" cookie
// logs <name> in.
type fakeAPI struct {
	info, auth, widgets atomic.Int32
	failWidgets         bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/loadInfo":
		f.info.Add(1)
		json.NewEncoder(w).Encode(map[string]any{"message": "hello from the API", "time": 1700000000000})
	case "/loadAuth":
		f.auth.Add(1)
		var user any
		if c, err := r.Cookie("session"); err == nil && c.Value != "" {
			user = map[string]any{"name": c.Value}
		}
		json.NewEncoder(w).Encode(user)
	case "/widget/load/param1/param2":
		f.widgets.Add(1)
		if f.failWidgets {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]Widget{
			{ID: 1, Color: "Red", SprocketCount: 7, Owner: "John"},
			{ID: 2, Color: "Taupe", SprocketCount: 1, Owner: "George"},
		})
	default:
		http.NotFound(w, r)
	}
}

func newServer(t *testing.T, api *fakeAPI) *ssr.Orchestrator {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("apiclient.New() error = %v", err)
	}
	table, err := New(client, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	cfg := ssr.DefaultConfig()
	cfg.Table = table
	cfg.Context = func(ctx context.Context, req ssr.Request) context.Context {
		return apiclient.ForwardCookies(ctx, req.Headers.Get("Cookie"))
	}
	o, err := ssr.New(cfg)
	if err != nil {
		t.Fatalf("ssr.New() error = %v", err)
	}
	return o
}

func get(o http.Handler, path, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: session})
	}
	rec := httptest.NewRecorder()
	o.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		session string
		status  int
		want    []string
		absent  []string
	}{
		{name: "home", path: "/", status: 200, want: []string{"<h1>isoshell</h1>", "hello from the API", `<a href="/login">Login</a>`}, absent: []string{`href="/chat"`}},
		{name: "about", path: "/about", status: 200, want: []string{"About Us", `<li class="active"><a href="/about">`}},
		{name: "items", path: "/items", status: 200, want: []string{"<td>Taupe</td>", `<a href="/items/2">2</a>`}},
		{name: "item", path: "/items/1", status: 200, want: []string{"Widget #1", "<dd>John</dd>"}},
		{name: "item param type", path: "/items/abc", status: 404, want: []string{"Doh! 404!"}},
		{name: "form", path: "/form", status: 200, want: []string{"Survey"}},
		{name: "todo", path: "/todo", status: 200, want: []string{"todo-list"}},
		{name: "logged in menu", path: "/", session: "alice", status: 200, want: []string{"Logged as alice", `href="/chat"`, `href="/logout"`}},
		{name: "chat", path: "/chat", session: "alice", status: 200, want: []string{"Chatting as <strong>alice</strong>"}},
		{name: "login success", path: "/loginSuccess", session: "bob", status: 200, want: []string{"Hi, bob. You have just successfully logged in."}},
		{name: "login form", path: "/login", status: 200, want: []string{"Enter a username"}},
		{name: "not found", path: "/this-path-does-not-exist", status: 404, want: []string{"Doh! 404!", "No info loaded."}},
		{name: "escaped user", path: "/chat", session: "<b>x</b>", status: 200, want: []string{"&lt;b&gt;x&lt;/b&gt;"}, absent: []string{"<b>x</b>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newServer(t, &fakeAPI{})
			rec := get(o, tt.path, tt.session)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d\n%s", rec.Code, tt.status, rec.Body.String())
			}
			body := rec.Body.String()
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q\n%s", w, body)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(body, a) {
					t.Errorf("body contains %q", a)
				}
			}
		})
	}
}

func TestGuards(t *testing.T) {
	tests := []struct {
		path     string
		session  string
		location string
	}{
		{"/chat", "", "/"},
		{"/loginSuccess", "", "/"},
		{"/login", "alice", "/loginSuccess"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			o := newServer(t, &fakeAPI{})
			rec := get(o, tt.path, tt.session)
			if rec.Code != http.StatusFound {
				t.Fatalf("status = %d, want 302", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestAuthLoadedOnceWithGuard(t *testing.T) {
	api := &fakeAPI{}
	o := newServer(t, api)
	if rec := get(o, "/chat", "alice"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := api.auth.Load(); got != 1 {
		t.Errorf("loadAuth calls = %d, want 1", got)
	}
	if got := api.info.Load(); got != 1 {
		t.Errorf("loadInfo calls = %d, want 1", got)
	}
}

func TestWidgetsOnlyLoadedForItems(t *testing.T) {
	api := &fakeAPI{}
	o := newServer(t, api)
	get(o, "/about", "")
	if got := api.widgets.Load(); got != 0 {
		t.Errorf("widget calls after /about = %d, want 0", got)
	}
	get(o, "/items", "")
	if got := api.widgets.Load(); got != 1 {
		t.Errorf("widget calls after /items = %d, want 1", got)
	}
}

func TestWidgetFailure(t *testing.T) {
	o := newServer(t, &fakeAPI{failWidgets: true})
	rec := get(o, "/items", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	// The fallback document still carries what did load.
	if !strings.Contains(body, "hello from the API") {
		t.Errorf("fallback state lacks info data\n%s", body)
	}
	if strings.Contains(body, "<td>") {
		t.Errorf("fallback rendered the items page")
	}
}

func TestShellProps(t *testing.T) {
	o := newServer(t, &fakeAPI{})
	rec := get(o, "/", "alice")
	if !strings.Contains(rec.Body.String(), `"name":"alice"`) {
		t.Errorf("serialized state lacks the user\n%s", rec.Body.String())
	}
}

func TestLoadFailureHidesBackend(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	backend := dead.URL + "/internal-backend"
	dead.Close()

	client, err := apiclient.New(apiclient.Config{BaseURL: backend})
	if err != nil {
		t.Fatalf("apiclient.New() error = %v", err)
	}
	table, err := New(client, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	cfg := ssr.DefaultConfig()
	cfg.Table = table
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	o, err := ssr.New(cfg)
	if err != nil {
		t.Fatalf("ssr.New() error = %v", err)
	}

	rec := get(o, "/about", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	for _, leak := range []string{dead.Listener.Addr().String(), "internal-backend", "connection refused"} {
		if strings.Contains(body, leak) {
			t.Errorf("body leaks %q\n%s", leak, body)
		}
	}
	if !strings.Contains(body, "E200: Data load failed (auth)") {
		t.Errorf("store lacks the opaque auth failure\n%s", body)
	}
}
