// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern.
package hub

import "encoding/json"

// Message is a JSON payload to be broadcast to clients. The dashboard
// feed is text-only; rendered frames never leave the process.
type Message struct {
	Data []byte
}

// NewMessage creates a message from pre-encoded JSON bytes.
func NewMessage(data []byte) Message {
	return Message{Data: data}
}

// Encode marshals v and wraps it in a Message.
func Encode(v any) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Data: data}, nil
}
