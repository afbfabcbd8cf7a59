package router

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/vango-dev/isoshell/pkg/loader"
	"github.com/vango-dev/isoshell/pkg/store"
)

// ViewContext is what a view renders from.
type ViewContext struct {
	// Path is the request path.
	Path string

	// Params are the captured path parameters.
	Params Params

	// Query is the parsed query string.
	Query url.Values

	// State is the populated store state.
	State store.State

	// Props is the shell's props mapping of State.
	Props Props
}

// View produces the markup of one page.
type View func(ViewContext) templ.Component

// Layout wraps a page's markup in the application chrome.
type Layout func(ViewContext, templ.Component) templ.Component

// Props is the value the shell derives from the store for its chrome.
type Props map[string]any

// Shell is the root view wrapping every leaf view.
type Shell struct {
	// Loaders run before every render, alongside the leaf's loaders.
	Loaders []loader.Loader

	// Props maps the store state to the values Layout reads. A nil Props
	// leaves ViewContext.Props empty.
	Props func(store.State) Props

	// Layout wraps the leaf view. A nil Layout renders the leaf alone.
	Layout Layout

	// Title is the document title when a route sets none.
	Title string
}

// Wrap renders leaf inside the shell.
func (s *Shell) Wrap(vc ViewContext, leaf templ.Component) templ.Component {
	if s == nil || s.Layout == nil {
		return leaf
	}
	return s.Layout(vc, leaf)
}

// PropsFor applies the props mapping.
func (s *Shell) PropsFor(state store.State) Props {
	if s == nil || s.Props == nil {
		return Props{}
	}
	return s.Props(state)
}
