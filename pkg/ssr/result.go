package ssr

import (
	"net/http"

	"github.com/vango-dev/isoshell/pkg/static"
)

// Result is the terminal artifact of one orchestration run. It is one of
// StaticFile, Redirect, Error, NotFound or Markup.
type Result interface {
	// Status is the HTTP status the result is written with.
	Status() int

	isResult()
}

// StaticFile serves a file from the static root.
type StaticFile struct {
	Asset static.Asset
}

// Redirect sends the client elsewhere.
type Redirect struct {
	// Location is pathname + search.
	Location string
}

// Error is a failure page. Body is the client-only document; Detail is the
// error code, never the error text.
type Error struct {
	Code   int
	Detail string
	Body   []byte
}

// NotFound is the 404 page.
type NotFound struct {
	Body []byte

	// HTML is false when Body is the plain-text fallback.
	HTML bool
}

// Markup is a rendered document.
type Markup struct {
	HTML []byte
	Code int
}

func (StaticFile) Status() int { return http.StatusOK }
func (Redirect) Status() int   { return http.StatusFound }
func (e Error) Status() int {
	if e.Code == 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}
func (NotFound) Status() int { return http.StatusNotFound }
func (m Markup) Status() int {
	if m.Code == 0 {
		return http.StatusOK
	}
	return m.Code
}

func (StaticFile) isResult() {}
func (Redirect) isResult()   {}
func (Error) isResult()      {}
func (NotFound) isResult()   {}
func (Markup) isResult()     {}
