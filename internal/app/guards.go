package app

import (
	"context"

	"github.com/vango-dev/isoshell/pkg/loader"
	"github.com/vango-dev/isoshell/pkg/router"
	"github.com/vango-dev/isoshell/pkg/store"
)

// requireLogin redirects anonymous visitors to to.
func requireLogin(auth loader.Loader, to string) router.Guard {
	return func(ctx context.Context, st *store.Store, _ router.Match) (string, error) {
		if err := loader.Ensure(ctx, st, auth); err != nil {
			return "", err
		}
		if st.State().CurrentUser() == nil {
			return to, nil
		}
		return "", nil
	}
}

// redirectIfLoggedIn sends logged-in visitors to to.
func redirectIfLoggedIn(auth loader.Loader, to string) router.Guard {
	return func(ctx context.Context, st *store.Store, _ router.Match) (string, error) {
		if err := loader.Ensure(ctx, st, auth); err != nil {
			return "", err
		}
		if st.State().CurrentUser() != nil {
			return to, nil
		}
		return "", nil
	}
}
