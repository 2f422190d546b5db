package websocket

import (
	"encoding/json"
	"testing"

	"advertiser-chatbot-be/internal/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

func newTestHub() (*Hub, *Client) {
	h := NewHub(nil, nopLogger{})
	c := &Client{Hub: h, Send: make(chan []byte, 4)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	return h, c
}

func TestBroadcastWrapsLeadNotice(t *testing.T) {
	h, c := newTestHub()

	h.Broadcast([]byte(`{"company":"Acme Studio"}`))

	select {
	case msg := <-c.Send:
		var wrapper struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(msg, &wrapper); err != nil {
			t.Fatalf("broadcast payload is not JSON: %v", err)
		}
		if wrapper.Type != "lead_captured" {
			t.Errorf("type = %q, want lead_captured", wrapper.Type)
		}
	default:
		t.Fatal("client received nothing")
	}
}

func TestRelayDropsOwnNotices(t *testing.T) {
	h, c := newTestHub()

	own, _ := json.Marshal(leadNotice{Origin: h.id, Data: []byte(`{"x":1}`)})
	h.relayPeerNotice(own)

	select {
	case msg := <-c.Send:
		t.Fatalf("own notice came back through the relay: %s", msg)
	default:
	}
}

func TestRelayForwardsPeerNotices(t *testing.T) {
	h, c := newTestHub()

	peer, _ := json.Marshal(leadNotice{Origin: "other-instance", Data: []byte(`{"x":1}`)})
	h.relayPeerNotice(peer)

	select {
	case msg := <-c.Send:
		if string(msg) != `{"x":1}` {
			t.Errorf("relayed payload = %s", msg)
		}
	default:
		t.Fatal("peer notice was not delivered")
	}
}

func TestRelayIgnoresMalformedPayloads(t *testing.T) {
	h, c := newTestHub()

	h.relayPeerNotice([]byte("not json"))

	select {
	case msg := <-c.Send:
		t.Fatalf("malformed payload delivered: %s", msg)
	default:
	}
}
