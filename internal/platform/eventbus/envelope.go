package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/verdavida/lawncare/internal/shared/events"
)

// envelope is the stream message body: the event name plus its JSON payload.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encodeEnvelope(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}
	return json.Marshal(envelope{Type: event.EventName(), Payload: payload})
}

func decodeEnvelope(raw []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return events.Decode(env.Type, env.Payload)
}
