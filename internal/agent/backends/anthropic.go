package backends

import (
	"context"
	"net/http"

	"aidebater/internal/agent"
)

const (
	AnthropicURL          = "https://api.anthropic.com/v1/messages"
	AnthropicVersion      = "2023-06-01"
	DefaultAnthropicModel = "claude-3-opus-20240229"

	anthropicMaxTokens = 2000
)

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Anthropic calls the Messages API with the framing as system prompt.
type Anthropic struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{apiKey: apiKey, model: model, url: AnthropicURL, client: &http.Client{}}
}

// WithURL points the backend at another endpoint.
func (a *Anthropic) WithURL(url string) *Anthropic {
	a.url = url
	return a
}

func (a *Anthropic) Class() string { return "Anthropic" }
func (a *Anthropic) Model() string { return a.model }

func (a *Anthropic) Complete(ctx context.Context, system string, msgs []agent.Message) (string, error) {
	req := anthropicRequest{
		Model:     a.model,
		MaxTokens: anthropicMaxTokens,
		System:    system,
	}
	for _, m := range withOpeningTurn(msgs) {
		req.Messages = append(req.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	var resp anthropicResponse
	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": AnthropicVersion,
	}
	if err := postJSON(ctx, a.client, a.url, headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", nil
	}
	return resp.Content[0].Text, nil
}
