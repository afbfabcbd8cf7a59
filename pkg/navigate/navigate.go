// Package navigate turns session changes into client navigations.
//
// The rule compares the user before and after every store update:
//
//	absent  → present   navigate to the login-success location
//	present → absent    navigate to the root
//	otherwise           nothing
//
// Watch subscribes the rule to a store. The store delivers every update in
// order, so a login immediately followed by a logout yields two navigations.
package navigate

import (
	"github.com/vango-dev/isoshell/pkg/store"
)

// Default locations.
const (
	DefaultLoginLocation  = "/loginSuccess"
	DefaultLogoutLocation = "/"
)

// Navigator performs a navigation.
type Navigator interface {
	Navigate(location string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(location string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(location string) { f(location) }

// Rule is the transition table with its target locations.
type Rule struct {
	Login  string
	Logout string
}

// Option configures a Rule.
type Option func(*Rule)

// WithLoginLocation sets where a login navigates to.
func WithLoginLocation(loc string) Option {
	return func(r *Rule) { r.Login = loc }
}

// WithLogoutLocation sets where a logout navigates to.
func WithLogoutLocation(loc string) Option {
	return func(r *Rule) { r.Logout = loc }
}

// NewRule returns the rule with the default locations and opts applied.
func NewRule(opts ...Option) Rule {
	r := Rule{Login: DefaultLoginLocation, Logout: DefaultLogoutLocation}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Transition applies the rule to a pair of users.
func (r Rule) Transition(prev, next *store.User) (location string, ok bool) {
	was, is := prev.Present(), next.Present()
	switch {
	case !was && is:
		return r.Login, true
	case was && !is:
		return r.Logout, true
	}
	return "", false
}

// Transition applies the default rule.
func Transition(prev, next *store.User) (location string, ok bool) {
	return NewRule().Transition(prev, next)
}

// Watch applies the rule to every update of st and calls nav for each
// navigation. It returns a function that stops watching.
func Watch(st *store.Store, nav Navigator, opts ...Option) (stop func()) {
	rule := NewRule(opts...)
	return st.Subscribe(func(prev, next store.State) {
		if loc, ok := rule.Transition(prev.Auth.User, next.Auth.User); ok {
			nav.Navigate(loc)
		}
	})
}
