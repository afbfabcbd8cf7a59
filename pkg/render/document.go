package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/vango-dev/isoshell/internal/errors"
	"github.com/vango-dev/isoshell/pkg/assets"
)

// MountID is the id of the element the client renders into.
const MountID = "content"

// MetaTag is a <meta name content> pair.
type MetaTag struct {
	Name    string
	Content string
}

// Document is everything needed to write one HTML page.
type Document struct {
	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Title is the page title.
	Title string

	// Meta are extra meta tags.
	Meta []MetaTag

	// Assets names the stylesheets and scripts to include.
	Assets assets.Manifest

	// Body is the server-rendered markup. Nil renders an empty mount
	// point for client-only hydration.
	Body templ.Component

	// State is serialized as window.__data.
	State any
}

// Write renders doc to w. The body is rendered into a buffer first, so a
// failing view never leaves a half-written document behind.
func Write(ctx context.Context, w io.Writer, doc Document) error {
	var body bytes.Buffer
	if doc.Body != nil {
		if err := doc.Body.Render(ctx, &body); err != nil {
			return errors.New(errors.CodeRender).WithSubject("body").Wrap(err)
		}
	}

	data, err := scriptJSON(doc.State)
	if err != nil {
		return errors.New(errors.CodeRender).WithSubject("state").Wrap(err)
	}

	lang := doc.Lang
	if lang == "" {
		lang = "en"
	}

	ew := &errWriter{w: w}
	ew.printf("<!doctype html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang))
	ew.print(`  <meta charset="utf-8">` + "\n")
	ew.print(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if doc.Title != "" {
		ew.printf("  <title>%s</title>\n", escapeHTML(doc.Title))
	}
	for _, m := range doc.Meta {
		ew.printf("  <meta name=\"%s\" content=\"%s\">\n", escapeAttr(m.Name), escapeAttr(m.Content))
	}
	for _, href := range doc.Assets.Stylesheets() {
		ew.printf("  <link rel=\"stylesheet\" href=\"%s\" media=\"screen, projection\" charset=\"UTF-8\">\n", escapeAttr(href))
	}
	ew.print("</head>\n<body>\n")
	ew.printf("  <div id=\"%s\">", MountID)
	ew.write(body.Bytes())
	ew.print("</div>\n")
	ew.print(`  <script charset="UTF-8">window.__data=`)
	ew.write(data)
	ew.print(";</script>\n")
	for _, src := range doc.Assets.Scripts() {
		ew.printf("  <script src=\"%s\" charset=\"UTF-8\"></script>\n", escapeAttr(src))
	}
	ew.print("</body>\n</html>\n")
	return ew.err
}

// Bytes renders doc into memory.
func Bytes(ctx context.Context, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(ctx, &buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Component adapts doc to templ.Component.
func (doc Document) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Write(ctx, w, doc)
	})
}

// errWriter latches the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *errWriter) print(s string) {
	e.write([]byte(s))
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
