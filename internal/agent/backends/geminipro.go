package backends

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"aidebater/internal/agent"
)

const (
	DefaultGeminiProModel = "gemini-pro"

	// roleAcknowledgement keeps user/model alternation when the framing is
	// replayed as the first user turn.
	roleAcknowledgement = "Ok I understood my role"
)

var errNoCandidates = errors.New("gemini returned no candidates")

// GeminiPro drives the legacy chat-session SDK. Models without system
// instructions receive the framing as the opening user turn.
type GeminiPro struct {
	client *genai.Client
	model  string
}

func NewGeminiPro(ctx context.Context, apiKey, model string) (*GeminiPro, error) {
	if model == "" {
		model = DefaultGeminiProModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiPro{client: client, model: model}, nil
}

func (g *GeminiPro) Class() string { return "GeminiPro" }
func (g *GeminiPro) Model() string { return g.model }

// Close releases the underlying client.
func (g *GeminiPro) Close() error { return g.client.Close() }

func (g *GeminiPro) Complete(ctx context.Context, system string, msgs []agent.Message) (string, error) {
	history, last := chatTurns(system, msgs)
	session := g.client.GenerativeModel(g.model).StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errNoCandidates
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// chatTurns lays out the framing, the acknowledgement and msgs as alternating
// history, and splits off the final user turn to send.
func chatTurns(system string, msgs []agent.Message) ([]*genai.Content, string) {
	turns := []agent.Message{{Role: agent.RoleUser, Content: system}}
	if len(msgs) > 0 && msgs[0].Role == agent.RoleUser {
		turns = append(turns, agent.Message{Role: agent.RoleAssistant, Content: roleAcknowledgement})
	}
	turns = append(turns, msgs...)
	if turns[len(turns)-1].Role != agent.RoleUser {
		turns = append(turns, agent.Message{Role: agent.RoleUser, Content: emptyHistoryPrompt})
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == agent.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return history, turns[len(turns)-1].Content
}
