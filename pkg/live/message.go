package live

import (
	"encoding/json"

	"github.com/vango-dev/isoshell/pkg/store"
)

// MessageType names a frame.
type MessageType string

const (
	TypeHydrate  MessageType = "hydrate"
	TypeDispatch MessageType = "dispatch"
	TypeReady    MessageType = "ready"
	TypeNavigate MessageType = "navigate"
	TypeError    MessageType = "error"
)

// Message is one JSON text frame in either direction.
type Message struct {
	Type     MessageType   `json:"type"`
	State    *store.State  `json:"state,omitempty"`
	Action   *store.Action `json:"action,omitempty"`
	Session  string        `json:"session,omitempty"`
	Location string        `json:"location,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func decodeMessage(data []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(data, &m)
	return m, err
}
