package backends

import (
	"context"
	"errors"
	"net/http"

	"aidebater/internal/agent"
)

const (
	OpenAIURL  = "https://api.openai.com/v1/chat/completions"
	MistralURL = "https://api.mistral.ai/v1/chat/completions"

	DefaultOpenAIModel  = "gpt-4"
	DefaultMistralModel = "mistral-large-latest"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatCompletions talks to any OpenAI-compatible chat completions endpoint.
// The contract framing is sent as the system message.
type ChatCompletions struct {
	class       string
	apiKey      string
	model       string
	url         string
	temperature *float64
	client      *http.Client
}

// NewOpenAI returns a backend for the OpenAI API.
func NewOpenAI(apiKey, model string) *ChatCompletions {
	if model == "" {
		model = DefaultOpenAIModel
	}
	temperature := 1.0
	return &ChatCompletions{
		class:       "OpenAI",
		apiKey:      apiKey,
		model:       model,
		url:         OpenAIURL,
		temperature: &temperature,
		client:      &http.Client{},
	}
}

// NewMistral returns a backend for the Mistral API.
func NewMistral(apiKey, model string) *ChatCompletions {
	if model == "" {
		model = DefaultMistralModel
	}
	return &ChatCompletions{
		class:  "Mistral",
		apiKey: apiKey,
		model:  model,
		url:    MistralURL,
		client: &http.Client{},
	}
}

// WithURL points the backend at another endpoint.
func (c *ChatCompletions) WithURL(url string) *ChatCompletions {
	c.url = url
	return c
}

func (c *ChatCompletions) Class() string { return c.class }
func (c *ChatCompletions) Model() string { return c.model }

func (c *ChatCompletions) Complete(ctx context.Context, system string, msgs []agent.Message) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "system", Content: system}},
		Temperature: c.temperature,
	}
	for _, m := range withOpeningTurn(msgs) {
		req.Messages = append(req.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := postJSON(ctx, c.client, c.url, headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("unexpected response format: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
