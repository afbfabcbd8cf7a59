package router

import (
	"fmt"
	"net/url"
)

// Kind classifies an Outcome.
type Kind int

const (
	KindUnmatched Kind = iota
	KindRedirect
	KindError
	KindMatched
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindError:
		return "error"
	case KindMatched:
		return "matched"
	default:
		return "unmatched"
	}
}

// Location is a redirect target.
type Location struct {
	Path     string
	RawQuery string
}

// ParseLocation parses a same-origin location such as "/login?next=/chat".
func ParseLocation(s string) (Location, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Location{}, err
	}
	if u.Scheme != "" || u.Host != "" || len(u.Path) == 0 || u.Path[0] != '/' {
		return Location{}, fmt.Errorf("location %q is not an absolute path", s)
	}
	return Location{Path: u.EscapedPath(), RawQuery: u.RawQuery}, nil
}

// String returns pathname + search.
func (l Location) String() string {
	if l.RawQuery == "" {
		return l.Path
	}
	return l.Path + "?" + l.RawQuery
}

// Outcome is the result of Table.Match.
type Outcome struct {
	Redirect *Location
	Err      error
	Match    *Match
}

// Kind decides the outcome in the order redirect, error, matched, unmatched.
func (o Outcome) Kind() Kind {
	switch {
	case o.Redirect != nil:
		return KindRedirect
	case o.Err != nil:
		return KindError
	case o.Match != nil:
		return KindMatched
	default:
		return KindUnmatched
	}
}
