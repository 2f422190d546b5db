package controller

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"advertiser-chatbot-be/pkg/stream"
)

func runWriter(t *testing.T, events chan stream.Event, pings chan time.Time) string {
	t.Helper()

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	done := make(chan struct{})
	go func() {
		writeTurnStream(w, events, pings)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer did not return after the terminal frame")
	}
	return buf.String()
}

func TestWriteTurnStreamStopsAtFinalFrame(t *testing.T) {
	events := make(chan stream.Event, 4)
	events <- stream.Event{Name: stream.EventMeta, Data: stream.MetaPayload{Route: stream.RouteDirect}}
	events <- stream.Event{Name: stream.EventToken, Data: stream.TokenPayload{Value: "Bonjour"}}
	events <- stream.Event{Name: stream.EventFinal, Data: stream.FinalPayload{AssistantMessage: "Bonjour"}}
	// The channel stays open: the writer must not wait for it to close.

	// A tick is already pending; it may land before the terminal frame but
	// never after it.
	pings := make(chan time.Time, 1)
	pings <- time.Now()

	out := runWriter(t, events, pings)

	finalAt := strings.Index(out, "event: final")
	if finalAt < 0 {
		t.Fatalf("output missing final frame: %q", out)
	}
	if strings.Contains(out[finalAt:], "event: ping") {
		t.Errorf("ping frame after final: %q", out)
	}
}

func TestWriteTurnStreamStopsAtErrorFrame(t *testing.T) {
	events := make(chan stream.Event, 4)
	events <- stream.Event{Name: stream.EventMeta, Data: stream.MetaPayload{Route: stream.RouteRag}}
	events <- stream.Event{Name: stream.EventError, Data: stream.ErrorPayload{Detail: "désolé"}}

	pings := make(chan time.Time, 1)
	pings <- time.Now()

	out := runWriter(t, events, pings)

	errAt := strings.Index(out, "event: error")
	if errAt < 0 {
		t.Fatalf("output missing error frame: %q", out)
	}
	if strings.Contains(out[errAt:], "event: ping") {
		t.Errorf("ping frame after error: %q", out)
	}
}

func TestWriteTurnStreamReturnsOnClosedChannel(t *testing.T) {
	events := make(chan stream.Event)
	close(events)

	out := runWriter(t, events, make(chan time.Time))
	if out != "" {
		t.Errorf("closed channel produced output: %q", out)
	}
}
