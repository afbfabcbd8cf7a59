package store

import "maps"

// User is the authenticated user. Only its presence matters to navigation.
type User struct {
	Name  string         `json:"name"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Present reports whether u represents a logged-in user.
func (u *User) Present() bool {
	return u != nil && u.Name != ""
}

// AuthState is the auth namespace.
type AuthState struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading,omitempty"`
	User    *User  `json:"user"`
	Error   string `json:"error,omitempty"`
}

// Info is the reference information shown in the shell.
type Info struct {
	Message string `json:"message"`
	Time    int64  `json:"time"`
}

// InfoState is the info namespace.
type InfoState struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading,omitempty"`
	Data    *Info  `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Slot is a generic data namespace populated by a loader.
type Slot struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading,omitempty"`
	Value   any    `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
}

// State is the whole application state tree. Reducers treat it as an
// immutable value: they never write through the pointers or maps of the
// state they were given.
type State struct {
	Auth AuthState       `json:"auth"`
	Info InfoState       `json:"info"`
	Data map[string]Slot `json:"data,omitempty"`
}

// CurrentUser returns the user if one is present, otherwise nil.
func (s State) CurrentUser() *User {
	if s.Auth.User.Present() {
		return s.Auth.User
	}
	return nil
}

// Slot returns the named data namespace.
func (s State) Slot(name string) (Slot, bool) {
	slot, ok := s.Data[name]
	return slot, ok
}

// Clone returns a deep copy of s suitable for seeding another Store.
func (s State) Clone() State {
	out := s
	if s.Auth.User != nil {
		u := *s.Auth.User
		u.Attrs = maps.Clone(s.Auth.User.Attrs)
		out.Auth.User = &u
	}
	if s.Info.Data != nil {
		d := *s.Info.Data
		out.Info.Data = &d
	}
	out.Data = maps.Clone(s.Data)
	return out
}
