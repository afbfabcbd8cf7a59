// Package app is the concrete application served by isoshell: the root
// shell with its session and info loaders, the page routes, their guards and
// the not-found page.
package app
