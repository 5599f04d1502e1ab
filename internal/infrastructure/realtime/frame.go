package realtime

import (
	"encoding/json"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// Frame is the JSON envelope written to clients.
type Frame struct {
	Type    chat.EventKind `json:"type"`
	Version int            `json:"version"`
	Data    any            `json:"data"`
}

// EncodeFrame renders an event the way clients receive it.
func EncodeFrame(kind chat.EventKind, payload any) ([]byte, error) {
	return json.Marshal(Frame{Type: kind, Version: chat.EventVersion, Data: payload})
}
