package ws

import (
	"encoding/json"
)

// MessageType names the kind of a websocket message.
type MessageType string

const (
	// MessageTypeMove carries a wire move as a JSON string, in both directions.
	MessageTypeMove      MessageType = "move"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
	// MessageTypeSessionEnded is sent once when a session stops for good.
	MessageTypeSessionEnded MessageType = "sessionEnded"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

// ErrorMessage builds an error message. The payload is a JSON string.
func ErrorMessage(text string) Message {
	m, _ := NewMessage(MessageTypeError, text)
	return m
}

// DecodeMove extracts the wire move from a move message.
func DecodeMove(m Message) (string, error) {
	var wire string
	if err := json.Unmarshal(m.Payload, &wire); err != nil {
		return "", err
	}
	return wire, nil
}
