package stream

import (
	"encoding/json"
	"fmt"
)

// FormatSSE renders one event in server-sent-events framing:
//
//	event: {name}
//	data: {json}
//
// followed by a blank line.
func FormatSSE(e Event) (string, error) {
	data := e.Data
	if data == nil {
		data = struct{}{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal %s payload: %w", e.Name, err)
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Name, payload), nil
}

// Ping returns the framed keep-alive event.
func Ping() string {
	s, _ := FormatSSE(Event{Name: EventPing, Data: PingPayload{}})
	return s
}
