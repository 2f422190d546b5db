package stream

import (
	"strings"
	"testing"
)

func TestFormatSSE(t *testing.T) {
	frame, err := FormatSSE(Event{Name: EventToken, Data: TokenPayload{Value: "Bonjour "}})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(frame, "event: token\ndata: ") {
		t.Errorf("bad frame prefix: %q", frame)
	}
	if !strings.HasSuffix(frame, "\n\n") {
		t.Errorf("frame must end with a blank line: %q", frame)
	}
	if !strings.Contains(frame, `"value":"Bonjour "`) {
		t.Errorf("payload not serialized: %q", frame)
	}
}

func TestPingFrame(t *testing.T) {
	if got := Ping(); got != "event: ping\ndata: {}\n\n" {
		t.Errorf("ping frame = %q", got)
	}
}
