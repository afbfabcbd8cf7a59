package app

import (
	"github.com/vango-dev/isoshell/pkg/apiclient"
	"github.com/vango-dev/isoshell/pkg/loader"
	"github.com/vango-dev/isoshell/pkg/router"
	"github.com/vango-dev/isoshell/pkg/store"
)

// Options tune the bundled application.
type Options struct {
	// Title is the shell's document title.
	Title string

	// Description is the home page subtitle.
	Description string

	// LoginSuccess is where /login sends visitors that are already
	// logged in.
	LoginSuccess string

	// Anonymous is where login-only pages send anonymous visitors.
	Anonymous string
}

// DefaultOptions returns the stock options.
func DefaultOptions() Options {
	return Options{
		Title:        "isoshell",
		Description:  "A universal web application shell.",
		LoginSuccess: "/loginSuccess",
		Anonymous:    "/",
	}
}

// New builds the route table of the bundled application. Every loader talks
// to the API through api.
func New(api *apiclient.Client, opts Options) (*router.Table, error) {
	def := DefaultOptions()
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.Description == "" {
		opts.Description = def.Description
	}
	if opts.LoginSuccess == "" {
		opts.LoginSuccess = def.LoginSuccess
	}
	if opts.Anonymous == "" {
		opts.Anonymous = def.Anonymous
	}

	info := InfoLoader(api)
	auth := AuthLoader(api)
	widgets := WidgetsLoader(api)

	shell := &router.Shell{
		Loaders: []loader.Loader{info, auth},
		Props:   shellProps,
		Layout:  layout,
		Title:   opts.Title,
	}

	routes := []router.Route{
		{Name: "home", Pattern: "/", View: homeView(opts.Title, opts.Description)},
		{Name: "about", Pattern: "/about", View: aboutView, Title: "About Us"},
		{Name: "items", Pattern: "/items", View: itemsView, Loaders: []loader.Loader{widgets}, Title: "Items"},
		{Name: "item", Pattern: "/items/:id:int", View: itemView, Loaders: []loader.Loader{widgets}, Title: "Item"},
		{Name: "form", Pattern: "/form", View: formView, Title: "Survey"},
		{Name: "todo", Pattern: "/todo", View: todoView, Title: "Todo"},
		{Name: "chat", Pattern: "/chat", View: chatView, Guard: requireLogin(auth, opts.Anonymous), Title: "Chat"},
		{Name: "loginSuccess", Pattern: "/loginSuccess", View: loginSuccessView, Guard: requireLogin(auth, opts.Anonymous), Title: "Login Success"},
		{Name: "login", Pattern: "/login", View: loginView, Guard: redirectIfLoggedIn(auth, opts.LoginSuccess), Title: "Login"},
	}
	return router.NewTable(shell, routes, router.WithNotFound(notFoundView))
}

func shellProps(s store.State) router.Props {
	p := router.Props{"user": nil}
	if u := s.CurrentUser(); u != nil {
		p["user"] = u
	}
	return p
}
