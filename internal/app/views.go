package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/vango-dev/isoshell/pkg/router"
	"github.com/vango-dev/isoshell/pkg/store"
)

// component builds a templ.Component from a function writing markup.
func component(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return fn(w)
	})
}

func text(s string) string { return templ.EscapeString(s) }

type menuItem struct {
	path, label string
	userOnly    bool
}

var menu = []menuItem{
	{"/", "Home", false},
	{"/about", "About", false},
	{"/items", "Items", false},
	{"/form", "Form", false},
	{"/todo", "Todo", false},
	{"/chat", "Chat", true},
	{"/no_route_page", "Not found (404 page)", false},
}

// layout is the shell chrome: menu, session box, page, info bar.
func layout(vc router.ViewContext, page templ.Component) templ.Component {
	user, _ := vc.Props["user"].(*store.User)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="app"><nav class="sidebar"><a class="brand" href="/"><strong>isoshell</strong></a><ul class="menu">`); err != nil {
			return err
		}
		for _, item := range menu {
			if item.userOnly && user == nil {
				continue
			}
			class := ""
			if item.path == vc.Path {
				class = ` class="active"`
			}
			if _, err := fmt.Fprintf(w, `<li%s><a href="%s">%s</a></li>`, class, text(item.path), text(item.label)); err != nil {
				return err
			}
		}
		session := `<span>Member</span><a href="/login">Login</a>`
		if user != nil {
			session = `<span>Logged as ` + text(user.Name) + `</span><a href="/logout">Logout</a>`
		}
		if _, err := io.WriteString(w, `</ul><div class="session">`+session+`</div></nav><main class="page">`); err != nil {
			return err
		}
		if err := page.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<hr>`); err != nil {
			return err
		}
		if err := infoBar(vc.State.Info).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></div>`)
		return err
	})
}

func infoBar(info store.InfoState) templ.Component {
	return component(func(w io.Writer) error {
		if info.Data == nil {
			_, err := io.WriteString(w, `<div class="info-bar">No info loaded.</div>`)
			return err
		}
		when := time.UnixMilli(info.Data.Time).UTC().Format(time.RFC1123)
		_, err := fmt.Fprintf(w, `<div class="info-bar">This is an info bar <strong>%s</strong> <span>%s</span></div>`,
			text(info.Data.Message), text(when))
		return err
	})
}

func homeView(title, description string) router.View {
	return func(vc router.ViewContext) templ.Component {
		return component(func(w io.Writer) error {
			_, err := fmt.Fprintf(w, `<section class="home"><h1>%s</h1><h2>%s</h2></section>`, text(title), text(description))
			return err
		})
	}
}

func aboutView(vc router.ViewContext) templ.Component {
	return templ.Raw(`<section class="about"><h1>About Us</h1><p>This project renders on the server, hydrates on the client and keeps a live session open for navigation.</p></section>`)
}

func itemsView(vc router.ViewContext) templ.Component {
	widgets := widgetsOf(vc.State)
	return component(func(w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="items"><h1>Items</h1>`); err != nil {
			return err
		}
		if len(widgets) == 0 {
			if _, err := io.WriteString(w, `<p>No widgets.</p>`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<table><thead><tr><th>ID</th><th>Color</th><th>Sprockets</th><th>Owner</th></tr></thead><tbody>`); err != nil {
				return err
			}
			for _, wd := range widgets {
				if _, err := fmt.Fprintf(w, `<tr><td><a href="/items/%d">%d</a></td><td>%s</td><td>%d</td><td>%s</td></tr>`,
					wd.ID, wd.ID, text(wd.Color), wd.SprocketCount, text(wd.Owner)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tbody></table>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

func itemView(vc router.ViewContext) templ.Component {
	id, _ := vc.Params.Int("id")
	var found *Widget
	for _, wd := range widgetsOf(vc.State) {
		if wd.ID == id {
			found = &wd
			break
		}
	}
	return component(func(w io.Writer) error {
		if found == nil {
			_, err := fmt.Fprintf(w, `<section class="item"><p>No widget #%d.</p></section>`, id)
			return err
		}
		_, err := fmt.Fprintf(w, `<section class="item"><h1>Widget #%d</h1><dl><dt>Color</dt><dd>%s</dd><dt>Sprockets</dt><dd>%d</dd><dt>Owner</dt><dd>%s</dd></dl></section>`,
			found.ID, text(found.Color), found.SprocketCount, text(found.Owner))
		return err
	})
}

func formView(vc router.ViewContext) templ.Component {
	return templ.Raw(`<section class="form"><h1>Survey</h1><form method="post" action="/survey"><label>Name <input name="name"></label><label>Email <input name="email" type="email"></label><button type="submit">Submit</button></form></section>`)
}

func todoView(vc router.ViewContext) templ.Component {
	return templ.Raw(`<section class="todo"><h1>Todo</h1><ul class="todo-list"></ul></section>`)
}

func chatView(vc router.ViewContext) templ.Component {
	name := ""
	if u := vc.State.CurrentUser(); u != nil {
		name = u.Name
	}
	return component(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="chat"><h1>Chat</h1><p>Chatting as <strong>%s</strong>.</p><ul class="messages"></ul></section>`, text(name))
		return err
	})
}

func loginView(vc router.ViewContext) templ.Component {
	return templ.Raw(`<section class="login"><h1>Login</h1><form method="post" action="/login"><input name="name" placeholder="Enter a username"><button type="submit">Log In</button></form></section>`)
}

func loginSuccessView(vc router.ViewContext) templ.Component {
	name := ""
	if u := vc.State.CurrentUser(); u != nil {
		name = u.Name
	}
	return component(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="login-success"><h1>Login Success</h1><p>Hi, %s. You have just successfully logged in.</p></section>`, text(name))
		return err
	})
}

func notFoundView(vc router.ViewContext) templ.Component {
	return templ.Raw(`<section class="not-found"><h1>Doh! 404!</h1><p>These are <em>not</em> the droids you are looking for!</p></section>`)
}

