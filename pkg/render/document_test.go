package render

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/vango-dev/isoshell/internal/errors"
	"github.com/vango-dev/isoshell/pkg/assets"
)

func TestWriteDocument(t *testing.T) {
	doc := Document{
		Title: "Home <1>",
		Meta:  []MetaTag{{Name: "description", Content: `say "hi"`}},
		Assets: assets.Manifest{
			Javascript: map[string]string{"main": "/dist/main.js"},
			Styles:     map[string]string{"main": "/dist/main.css"},
		},
		Body:  templ.Raw("<p>hello</p>"),
		State: map[string]any{"auth": map[string]any{"user": nil}},
	}
	out, err := Bytes(context.Background(), doc)
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"<!doctype html>\n",
		`<html lang="en">`,
		"<title>Home &lt;1&gt;</title>",
		`<meta name="description" content="say &quot;hi&quot;">`,
		`<link rel="stylesheet" href="/dist/main.css"`,
		`<div id="content"><p>hello</p></div>`,
		`window.__data={"auth":{"user":null}};`,
		`<script src="/dist/main.js" charset="UTF-8"></script>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q\n%s", want, html)
		}
	}
	if strings.Index(html, "window.__data") > strings.Index(html, `src="/dist/main.js"`) {
		t.Error("state must be defined before the bundle script")
	}
}

func TestWriteClientOnly(t *testing.T) {
	out, err := Bytes(context.Background(), Document{})
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !strings.Contains(string(out), `<div id="content"></div>`) {
		t.Errorf("client-only document has content:\n%s", out)
	}
	if !strings.Contains(string(out), "window.__data={};") {
		t.Errorf("client-only document missing empty state:\n%s", out)
	}
}

func TestStateCannotCloseScript(t *testing.T) {
	out, err := Bytes(context.Background(), Document{
		State: map[string]string{"x": "</script><script>alert(1)</script>"},
	})
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if strings.Count(string(out), "</script>") != 1 {
		t.Errorf("serialized state closed the script element:\n%s", out)
	}
}

func TestBodyErrorWritesNothing(t *testing.T) {
	boom := stderrors.New("boom")
	failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })

	var sb strings.Builder
	err := Write(context.Background(), &sb, Document{Body: failing})
	if !errors.HasCode(err, errors.CodeRender) || !stderrors.Is(err, boom) {
		t.Fatalf("Write() error = %v, want E400 wrapping boom", err)
	}
	if sb.Len() != 0 {
		t.Errorf("wrote %d bytes on body failure, want 0", sb.Len())
	}
}

func TestUnserializableState(t *testing.T) {
	_, err := Bytes(context.Background(), Document{State: map[string]any{"ch": make(chan int)}})
	if !errors.HasCode(err, errors.CodeRender) {
		t.Errorf("error = %v, want E400", err)
	}
}

func TestDocumentComponent(t *testing.T) {
	var sb strings.Builder
	if err := (Document{Lang: "de"}).Component().Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(sb.String(), `<html lang="de">`) {
		t.Errorf("lang not applied:\n%s", sb.String())
	}
}

func TestEscape(t *testing.T) {
	if got := escapeHTML(`<a href='x'>&</a>`); got != "&lt;a href=&#39;x&#39;&gt;&amp;&lt;/a&gt;" {
		t.Errorf("escapeHTML() = %q", got)
	}
	if got := escapeAttr("a\nb\t\"c\""); got != "a&#10;b&#9;&quot;c&quot;" {
		t.Errorf("escapeAttr() = %q", got)
	}
}
