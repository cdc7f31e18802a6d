package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"allvoter/internal/config"
)

var (
	ErrChatNotConfigured = errors.New("chat assistant is not configured")
	ErrChatUpstream      = errors.New("failed to generate response")
)

const chatPreamble = "You are a helpful assistant for the ALLvoter voting system. " +
	"Help users with questions about voting, candidates, and the platform."

// ChatService proxies free-text messages to a generative-language API. The
// API key stays server-side; clients only ever see the relayed reply. Wholly
// decoupled from the voting datastore.
type ChatService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewChatService(cfg *config.Config) *ChatService {
	return &ChatService{
		apiKey:  cfg.GeminiAPIKey,
		baseURL: cfg.GeminiBaseURL,
		model:   cfg.GeminiModel,
		client:  &http.Client{Timeout: cfg.GeminiTimeout},
	}
}

type chatPart struct {
	Text string `json:"text"`
}

type chatContent struct {
	Role  string     `json:"role"`
	Parts []chatPart `json:"parts"`
}

type chatRequest struct {
	Contents []chatContent `json:"contents"`
}

type chatResponse struct {
	Candidates []struct {
		Content struct {
			Parts []chatPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Chat sends one user message upstream and returns the model's reply text.
func (s *ChatService) Chat(ctx context.Context, message string) (string, error) {
	if s.apiKey == "" {
		return "", ErrChatNotConfigured
	}

	reqBody := chatRequest{
		Contents: []chatContent{
			{Role: "user", Parts: []chatPart{{Text: chatPreamble}}},
			{Role: "user", Parts: []chatPart{{Text: message}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", ErrChatUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrChatUpstream
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", ErrChatUpstream
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrChatUpstream
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
