package store

// ActionType names an action.
type ActionType string

// Built-in action types.
const (
	AuthLoad        ActionType = "auth/load"
	AuthLoadSuccess ActionType = "auth/load-success"
	AuthLoadFail    ActionType = "auth/load-fail"
	AuthLogin       ActionType = "auth/login-success"
	AuthLogout      ActionType = "auth/logout-success"

	InfoLoad        ActionType = "info/load"
	InfoLoadSuccess ActionType = "info/load-success"
	InfoLoadFail    ActionType = "info/load-fail"

	DataLoad        ActionType = "data/load"
	DataLoadSuccess ActionType = "data/load-success"
	DataLoadFail    ActionType = "data/load-fail"
)

// Action describes one state change.
type Action struct {
	Type ActionType `json:"type"`

	// Key selects the data namespace for data/* actions.
	Key string `json:"key,omitempty"`

	// User is the payload of auth actions.
	User *User `json:"user,omitempty"`

	// Info is the payload of info/load-success.
	Info *Info `json:"info,omitempty"`

	// Value is the payload of data/load-success.
	Value any `json:"value,omitempty"`

	// Error is the failure message of */load-fail.
	Error string `json:"error,omitempty"`
}

// LoginSuccess returns the action recording a successful login.
func LoginSuccess(u *User) Action {
	return Action{Type: AuthLogin, User: u}
}

// LogoutSuccess returns the action recording a logout.
func LogoutSuccess() Action {
	return Action{Type: AuthLogout}
}

// SetUser returns the action that replaces the loaded auth user; nil means
// logged out.
func SetUser(u *User) Action {
	return Action{Type: AuthLoadSuccess, User: u}
}
