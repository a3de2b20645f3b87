package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload,omitempty"`
}

// Encode marshals a message for sending to clients.
func Encode(action string, payload interface{}) ([]byte, error) {
	return json.Marshal(Message{Action: action, Payload: payload})
}

// NewErrorMessage builds an error notification for a single client.
func NewErrorMessage(text string) ([]byte, error) {
	return Encode("error", map[string]string{"message": text})
}
