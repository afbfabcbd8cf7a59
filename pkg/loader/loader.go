package loader

import (
	"context"

	"github.com/vango-dev/isoshell/pkg/store"
)

// Loader is one data dependency of a view.
type Loader interface {
	// Name identifies the loader. Loaders with the same name are the same
	// dependency.
	Name() string

	// IsLoaded reports whether the data is already present in s.
	IsLoaded(s store.State) bool

	// Load fetches the data and dispatches it into st.
	Load(ctx context.Context, st *store.Store) error
}

// Func adapts a predicate and a load function to the Loader interface.
type Func struct {
	Key    string
	Loaded func(store.State) bool
	Fetch  func(ctx context.Context, st *store.Store) error
}

// New returns a Loader built from functions. A nil isLoaded means the data is
// never considered present.
func New(name string, isLoaded func(store.State) bool, load func(context.Context, *store.Store) error) *Func {
	return &Func{Key: name, Loaded: isLoaded, Fetch: load}
}

// Name implements Loader.
func (f *Func) Name() string { return f.Key }

// IsLoaded implements Loader.
func (f *Func) IsLoaded(s store.State) bool {
	if f.Loaded == nil {
		return false
	}
	return f.Loaded(s)
}

// Load implements Loader.
func (f *Func) Load(ctx context.Context, st *store.Store) error {
	if f.Fetch == nil {
		return nil
	}
	return f.Fetch(ctx, st)
}
