package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/chatbot/v1"

// Simplified DTOs for the script
type createSessionResponse struct {
	Data struct {
		SessionId string `json:"session_id"`
		Message   string `json:"message"`
	} `json:"data"`
}

type sendMessageRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message,omitempty"`
	ButtonId  string `json:"button_id,omitempty"`
}

type sendMessageResponse struct {
	Data struct {
		AssistantMessage string `json:"assistant_message"`
		State            struct {
			Step string `json:"step"`
		} `json:"state"`
		Route           string `json:"route"`
		RagEmptyFactual bool   `json:"rag_empty_factual"`
	} `json:"data"`
}

type turn struct {
	label    string
	message  string
	buttonId string
}

func main() {
	fmt.Println("=== Advertiser Funnel Simulation Client ===")

	sessionID, welcome, err := createSession()
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	fmt.Printf("Session Created: %s\n", sessionID)
	fmt.Printf("BOT: %s\n", welcome)

	// Budget wizard happy path ending in a captured lead, with one free
	// factual question on the way.
	turns := []turn{
		{label: "start", buttonId: "M_START"},
		{label: "budget wizard", buttonId: "M_BUDGET"},
		{label: "agency", buttonId: "CT_AGENCY"},
		{label: "leads objective", buttonId: "OBJ_LEADS"},
		{label: "3k-10k budget", buttonId: "B_3000_10000"},
		{label: "company", message: "Nous sommes l'agence MediaPlus"},
		{label: "contact", message: "contact@mediaplus.tn"},
		{label: "free question", message: "combien de visites par mois sur le site ?"},
	}

	user := color.New(color.FgCyan)
	bot := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	for _, tc := range turns {
		if tc.buttonId != "" {
			user.Printf("\nUSER [%s]: <%s>\n", tc.label, tc.buttonId)
		} else {
			user.Printf("\nUSER [%s]: %s\n", tc.label, tc.message)
		}

		start := time.Now()
		res, err := sendMessage(sessionID, tc)
		elapsed := time.Since(start)

		if err != nil {
			fail.Printf("Error: %v\n", err)
			continue
		}
		bot.Printf("BOT (%v, route=%s, step=%s): %s\n",
			elapsed, res.Data.Route, res.Data.State.Step, res.Data.AssistantMessage)
	}
}

func createSession() (string, string, error) {
	resp, err := http.Post(baseURL+"/session", "application/json", nil)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var parsed createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", err
	}
	return parsed.Data.SessionId, parsed.Data.Message, nil
}

func sendMessage(sessionID string, tc turn) (*sendMessageResponse, error) {
	payload, _ := json.Marshal(sendMessageRequest{
		SessionId: sessionID,
		Message:   tc.message,
		ButtonId:  tc.buttonId,
	})

	resp, err := http.Post(baseURL+"/message", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var parsed sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
