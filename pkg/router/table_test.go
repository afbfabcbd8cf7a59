package router

import (
	"context"
	stderrors "errors"
	"net/url"
	"testing"

	"github.com/a-h/templ"

	"github.com/vango-dev/isoshell/internal/errors"
	"github.com/vango-dev/isoshell/pkg/store"
)

func textView(s string) View {
	return func(ViewContext) templ.Component { return templ.Raw(s) }
}

func newTestTable(t *testing.T, routes ...Route) *Table {
	t.Helper()
	tbl, err := NewTable(&Shell{}, routes)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return tbl
}

func TestFirstMatchWins(t *testing.T) {
	tbl := newTestTable(t,
		Route{Name: "new", Pattern: "/items/new", View: textView("new")},
		Route{Name: "detail", Pattern: "/items/:id", View: textView("detail")},
		Route{Name: "shadowed", Pattern: "/items/new", View: textView("never")},
	)

	out := tbl.Match(context.Background(), store.New(store.State{}), "/items/new", nil)
	if out.Kind() != KindMatched || out.Match.Route.Name != "new" {
		t.Fatalf("Match(/items/new) = %v %+v, want route new", out.Kind(), out.Match)
	}

	out = tbl.Match(context.Background(), store.New(store.State{}), "/items/9", nil)
	if out.Kind() != KindMatched || out.Match.Route.Name != "detail" {
		t.Fatalf("Match(/items/9) = %v, want route detail", out.Kind())
	}
	if out.Match.Params.Get("id") != "9" {
		t.Errorf("id = %q, want 9", out.Match.Params.Get("id"))
	}
}

func TestTypedParamFallsThrough(t *testing.T) {
	tbl := newTestTable(t,
		Route{Name: "byID", Pattern: "/u/:id:int", View: textView("id")},
		Route{Name: "bySlug", Pattern: "/u/:slug", View: textView("slug")},
	)
	out := tbl.Match(context.Background(), store.New(store.State{}), "/u/alice", nil)
	if out.Kind() != KindMatched || out.Match.Route.Name != "bySlug" {
		t.Fatalf("Match(/u/alice) = %v, want bySlug", out.Kind())
	}
}

func TestUnmatched(t *testing.T) {
	tbl := newTestTable(t, Route{Pattern: "/", View: textView("home")})
	out := tbl.Match(context.Background(), store.New(store.State{}), "/this-path-does-not-exist", nil)
	if out.Kind() != KindUnmatched {
		t.Errorf("Kind() = %v, want unmatched", out.Kind())
	}
}

func TestGuardRedirect(t *testing.T) {
	tbl := newTestTable(t, Route{
		Pattern: "/login",
		View:    textView("login"),
		Guard: func(ctx context.Context, st *store.Store, m Match) (string, error) {
			if st.State().CurrentUser() != nil {
				return "/loginSuccess?from=" + url.QueryEscape(m.Path), nil
			}
			return "", nil
		},
	})

	anon := tbl.Match(context.Background(), store.New(store.State{}), "/login", nil)
	if anon.Kind() != KindMatched {
		t.Errorf("anonymous Kind() = %v, want matched", anon.Kind())
	}

	authed := store.New(store.State{Auth: store.AuthState{Loaded: true, User: &store.User{Name: "alice"}}})
	out := tbl.Match(context.Background(), authed, "/login", nil)
	if out.Kind() != KindRedirect {
		t.Fatalf("Kind() = %v, want redirect", out.Kind())
	}
	if got := out.Redirect.String(); got != "/loginSuccess?from=%2Flogin" {
		t.Errorf("Redirect = %q", got)
	}
}

func TestGuardErrorsAndPanics(t *testing.T) {
	boom := stderrors.New("boom")
	tbl := newTestTable(t,
		Route{Name: "fails", Pattern: "/fails", View: textView(""), Guard: func(context.Context, *store.Store, Match) (string, error) {
			return "", boom
		}},
		Route{Name: "panics", Pattern: "/panics", View: textView(""), Guard: func(context.Context, *store.Store, Match) (string, error) {
			panic("nope")
		}},
		Route{Name: "offsite", Pattern: "/offsite", View: textView(""), Guard: func(context.Context, *store.Store, Match) (string, error) {
			return "https://elsewhere.example/", nil
		}},
	)

	for _, path := range []string{"/fails", "/panics", "/offsite"} {
		t.Run(path, func(t *testing.T) {
			out := tbl.Match(context.Background(), store.New(store.State{}), path, nil)
			if out.Kind() != KindError {
				t.Fatalf("Kind() = %v, want error", out.Kind())
			}
			if !errors.HasCode(out.Err, errors.CodeRouteGuard) {
				t.Errorf("code = %q, want %q", errors.CodeOf(out.Err), errors.CodeRouteGuard)
			}
		})
	}

	out := tbl.Match(context.Background(), store.New(store.State{}), "/fails", nil)
	if !stderrors.Is(out.Err, boom) {
		t.Error("guard error is not wrapped")
	}
}

func TestUndecodablePathIsError(t *testing.T) {
	tbl := newTestTable(t, Route{Pattern: "/*rest", View: textView("")})
	out := tbl.Match(context.Background(), store.New(store.State{}), "/bad%zz", nil)
	if out.Kind() != KindError || !errors.HasCode(out.Err, errors.CodeRouteMatch) {
		t.Errorf("Kind() = %v err = %v, want E100 error", out.Kind(), out.Err)
	}
}

func TestOutcomeKindPrecedence(t *testing.T) {
	m := &Match{}
	err := stderrors.New("x")
	tests := []struct {
		name string
		out  Outcome
		want Kind
	}{
		{"all set", Outcome{Redirect: &Location{Path: "/"}, Err: err, Match: m}, KindRedirect},
		{"error and match", Outcome{Err: err, Match: m}, KindError},
		{"match", Outcome{Match: m}, KindMatched},
		{"empty", Outcome{}, KindUnmatched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.out.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewTableRejectsBadRoutes(t *testing.T) {
	if _, err := NewTable(nil, []Route{{Pattern: "/a/:id:float", View: textView("")}}); !errors.HasCode(err, errors.CodeRouteMatch) {
		t.Errorf("bad pattern error = %v, want E100", err)
	}
	if _, err := NewTable(nil, []Route{{Pattern: "/a"}}); err == nil {
		t.Error("missing view error = nil, want error")
	}
}

func TestRoutesAndLoadersAreCopies(t *testing.T) {
	routes := []Route{{Pattern: "/a", View: textView("a")}}
	tbl := newTestTable(t, routes...)
	routes[0].Pattern = "/changed"

	got := tbl.Routes()
	if got[0].Pattern != "/a" || got[0].Name != "/a" {
		t.Errorf("Routes()[0] = %q/%q, want /a", got[0].Pattern, got[0].Name)
	}
	if groups := tbl.Loaders(nil); len(groups) != 1 {
		t.Errorf("Loaders(nil) groups = %d, want 1", len(groups))
	}
}
