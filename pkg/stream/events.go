package stream

import "advertiser-chatbot-be/pkg/dialogue"

// Wire event names. A turn stream is: meta, then tokens, then exactly one
// final or error. Pings interleave at the transport layer.
const (
	EventMeta  = "meta"
	EventToken = "token"
	EventFinal = "final"
	EventError = "error"
	EventPing  = "ping"
)

// Routes reported in the meta event.
const (
	RouteRag    = "rag"
	RouteDirect = "direct"
)

type Event struct {
	Name string
	Data interface{}
}

type MetaPayload struct {
	Route           string `json:"route"`
	RagEmptyFactual bool   `json:"rag_empty_factual"`
}

type TokenPayload struct {
	Value string `json:"value"`
}

type StatePayload struct {
	Step              string            `json:"step"`
	SlotUpdates       map[string]string `json:"slot_updates"`
	SuggestedNextStep string            `json:"suggested_next_step,omitempty"`
}

type FinalPayload struct {
	AssistantMessage string            `json:"assistant_message"`
	State            StatePayload      `json:"state"`
	Buttons          []dialogue.Button `json:"buttons"`
}

type ErrorPayload struct {
	Detail string `json:"detail"`
}

type PingPayload struct{}
