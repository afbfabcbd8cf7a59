package app

import (
	"context"

	"github.com/vango-dev/isoshell/internal/errors"
	"github.com/vango-dev/isoshell/pkg/apiclient"
	"github.com/vango-dev/isoshell/pkg/loader"
	"github.com/vango-dev/isoshell/pkg/store"
)

// Loader names.
const (
	LoaderInfo    = "info"
	LoaderAuth    = "auth"
	LoaderWidgets = "widgets"
)

// Widget is one row of the items page.
type Widget struct {
	ID            int    `json:"id"`
	Color         string `json:"color"`
	SprocketCount int    `json:"sprocketCount"`
	Owner         string `json:"owner"`
}

// loadFailed is the store's record of a failed load. The state is sent to
// the browser, so it carries the code and loader name only; the cause goes to
// the log with the request's failure.
func loadFailed(name string) string {
	return errors.New(errors.CodeDataLoad).WithSubject(name).Error()
}

// InfoLoader loads the info bar data from GET /loadInfo.
func InfoLoader(api *apiclient.Client) loader.Loader {
	return loader.New(LoaderInfo,
		func(s store.State) bool { return s.Info.Loaded },
		func(ctx context.Context, st *store.Store) error {
			st.Dispatch(store.Action{Type: store.InfoLoad})
			var info store.Info
			if err := api.Get(ctx, "/loadInfo", nil, &info); err != nil {
				st.Dispatch(store.Action{Type: store.InfoLoadFail, Error: loadFailed(LoaderInfo)})
				return err
			}
			st.Dispatch(store.Action{Type: store.InfoLoadSuccess, Info: &info})
			return nil
		})
}

// AuthLoader loads the session user from GET /loadAuth. A null body means
// nobody is logged in.
func AuthLoader(api *apiclient.Client) loader.Loader {
	return loader.New(LoaderAuth,
		func(s store.State) bool { return s.Auth.Loaded },
		func(ctx context.Context, st *store.Store) error {
			st.Dispatch(store.Action{Type: store.AuthLoad})
			var user *store.User
			if err := api.Get(ctx, "/loadAuth", nil, &user); err != nil {
				st.Dispatch(store.Action{Type: store.AuthLoadFail, Error: loadFailed(LoaderAuth)})
				return err
			}
			st.Dispatch(store.SetUser(user))
			return nil
		})
}

// WidgetsLoader loads the widget list.
func WidgetsLoader(api *apiclient.Client) loader.Loader {
	return loader.New(LoaderWidgets,
		func(s store.State) bool {
			sl, ok := s.Slot(LoaderWidgets)
			return ok && sl.Loaded
		},
		func(ctx context.Context, st *store.Store) error {
			st.Dispatch(store.Action{Type: store.DataLoad, Key: LoaderWidgets})
			var widgets []Widget
			if err := api.Get(ctx, "/widget/load/param1/param2", nil, &widgets); err != nil {
				st.Dispatch(store.Action{Type: store.DataLoadFail, Key: LoaderWidgets, Error: loadFailed(LoaderWidgets)})
				return err
			}
			st.Dispatch(store.Action{Type: store.DataLoadSuccess, Key: LoaderWidgets, Value: widgets})
			return nil
		})
}

// widgetsOf returns the loaded widgets. After hydration on a client the
// slot holds decoded JSON rather than []Widget; only the server-side type is
// rendered here.
func widgetsOf(s store.State) []Widget {
	sl, _ := s.Slot(LoaderWidgets)
	w, _ := sl.Value.([]Widget)
	return w
}
