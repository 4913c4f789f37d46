package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned when decoding a name with no registered type.
var ErrUnknownEvent = errors.New("unknown event")

var decoders = map[string]func([]byte) (Event, error){
	CustomerCreatedName: decodeAs[CustomerCreated],
	EstimateSentName:    decodeAs[EstimateSent],
}

// Decode rebuilds an event from its name and JSON payload.
func Decode(name string, payload []byte) (Event, error) {
	decode, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
	return decode(payload)
}

// Names lists every event type the registry can decode.
func Names() []string {
	return []string{CustomerCreatedName, EstimateSentName}
}

func decodeAs[T Event](payload []byte) (Event, error) {
	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode %s: %w", event.EventName(), err)
	}
	return event, nil
}
