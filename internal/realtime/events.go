// Package realtime owns the websocket side of chat: the connection registry,
// the join/chatMessage event protocol, and broadcast fan-out of stored
// messages to every connected client.
package realtime

import "encoding/json"

// Client → server events.
const (
	EventJoin        = "join"
	EventChatMessage = "chatMessage"
)

// Server → client events.
const (
	EventMessage = "message"
	EventError   = "error"
)

// Envelope is the framing for every websocket payload in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// joinPayload binds the connection to an identity. The identity comes from
// the verified token, never from client-supplied ids.
type joinPayload struct {
	Token string `json:"token"`
}

// chatMessagePayload carries a message send over the socket. The token rides
// in the payload because there is no connection-level authentication.
type chatMessagePayload struct {
	Token   string `json:"token"`
	Content string `json:"content"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func marshalEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
