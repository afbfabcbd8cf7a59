package router

import (
	"context"
	"fmt"
	"net/url"
	"runtime/debug"

	"github.com/vango-dev/isoshell/internal/errors"
	"github.com/vango-dev/isoshell/pkg/loader"
	"github.com/vango-dev/isoshell/pkg/store"
)

// Guard decides, for a matched route, whether the request must go
// elsewhere. A non-empty location redirects; an error makes the outcome an
// error.
type Guard func(ctx context.Context, st *store.Store, m Match) (location string, err error)

// Route maps a pattern to a view and its data dependencies.
type Route struct {
	// Name identifies the route in logs and metrics. Defaults to Pattern.
	Name string

	// Pattern is the path pattern, see the package documentation.
	Pattern string

	// View renders the page.
	View View

	// Loaders are the view's data dependencies.
	Loaders []loader.Loader

	// Guard is consulted after the pattern matched.
	Guard Guard

	// Title is the document title for this page.
	Title string

	// Status is the HTTP status of a successful render. Zero means 200.
	Status int

	pattern pattern
}

// Match is a matched route with its parameters.
type Match struct {
	Route  *Route
	Path   string
	Params Params
	Query  url.Values
}

// Table is an ordered, immutable route table.
type Table struct {
	shell    *Shell
	routes   []*Route
	notFound View
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithNotFound sets the view rendered for unmatched paths.
func WithNotFound(v View) TableOption {
	return func(t *Table) { t.notFound = v }
}

// NewTable compiles routes in order. The routes are copied; later changes
// to the slice do not affect the table.
func NewTable(shell *Shell, routes []Route, opts ...TableOption) (*Table, error) {
	t := &Table{shell: shell}
	for i := range routes {
		r := routes[i]
		p, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, errors.New(errors.CodeRouteMatch).WithSubject(r.Pattern).Wrap(err)
		}
		if r.View == nil {
			return nil, errors.New(errors.CodeRouteMatch).
				WithSubject(r.Pattern).
				Wrap(fmt.Errorf("route %d has no view", i))
		}
		if r.Name == "" {
			r.Name = r.Pattern
		}
		r.pattern = p
		r.Loaders = append([]loader.Loader(nil), r.Loaders...)
		t.routes = append(t.routes, &r)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// MustTable is NewTable that panics on error. For package-level tables.
func MustTable(shell *Shell, routes []Route, opts ...TableOption) *Table {
	t, err := NewTable(shell, routes, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Shell returns the table's root view.
func (t *Table) Shell() *Shell { return t.shell }

// NotFound returns the not-found view, or nil.
func (t *Table) NotFound() View { return t.notFound }

// Routes returns the routes in match order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		out[i] = *r
	}
	return out
}

// Loaders returns the shell's loaders followed by the route's.
func (t *Table) Loaders(r *Route) [][]loader.Loader {
	var shell []loader.Loader
	if t.shell != nil {
		shell = t.shell.Loaders
	}
	if r == nil {
		return [][]loader.Loader{shell}
	}
	return [][]loader.Loader{shell, r.Loaders}
}

// Match finds the first route matching the escaped path and runs its guard.
// st is the request's store; guards may read and load into it.
func (t *Table) Match(ctx context.Context, st *store.Store, escapedPath string, query url.Values) Outcome {
	parts, err := decodePath(escapedPath)
	if err != nil {
		return Outcome{Err: errors.New(errors.CodeRouteMatch).WithSubject(escapedPath).Wrap(err)}
	}

	for _, r := range t.routes {
		params, ok := r.pattern.match(parts)
		if !ok {
			continue
		}
		m := Match{Route: r, Path: escapedPath, Params: params, Query: query}
		if r.Guard == nil {
			return Outcome{Match: &m}
		}
		loc, err := runGuard(ctx, st, r.Guard, m)
		switch {
		case err != nil:
			return Outcome{Err: errors.New(errors.CodeRouteGuard).WithSubject(r.Name).Wrap(err)}
		case loc != "":
			target, perr := ParseLocation(loc)
			if perr != nil {
				return Outcome{Err: errors.New(errors.CodeRouteGuard).WithSubject(r.Name).Wrap(perr)}
			}
			return Outcome{Redirect: &target}
		default:
			return Outcome{Match: &m}
		}
	}
	return Outcome{}
}

func runGuard(ctx context.Context, st *store.Store, g Guard, m Match) (loc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("guard panic: %v\n%s", r, debug.Stack())
		}
	}()
	return g(ctx, st, m)
}
