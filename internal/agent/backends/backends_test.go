package backends

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/generative-ai-go/genai"

	"aidebater/internal/agent"
)

func recordingServer(t *testing.T, status int, reply string, got *map[string]any, headers *http.Header) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if got != nil {
			if err := json.Unmarshal(body, got); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		if headers != nil {
			*headers = r.Header.Clone()
		}
		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChatCompletionsSendsSystemFraming(t *testing.T) {
	var body map[string]any
	var headers http.Header
	srv := recordingServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"argument"}}]}`, &body, &headers)

	b := NewOpenAI("sk-test", "").WithURL(srv.URL)
	out, err := b.Complete(context.Background(), "FRAMING", []agent.Message{
		{Role: agent.RoleUser, Content: "topic"},
		{Role: agent.RoleAssistant, Content: "mine"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "argument" {
		t.Errorf("Complete() = %q", out)
	}
	if got := headers.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got)
	}
	if body["model"] != DefaultOpenAIModel {
		t.Errorf("model = %v", body["model"])
	}
	want := []any{
		map[string]any{"role": "system", "content": "FRAMING"},
		map[string]any{"role": "user", "content": "topic"},
		map[string]any{"role": "assistant", "content": "mine"},
	}
	if diff := cmp.Diff(want, body["messages"]); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestChatCompletionsErrors(t *testing.T) {
	srv := recordingServer(t, http.StatusTooManyRequests, `{"error":"slow down"}`, nil, nil)
	_, err := NewMistral("k", "").WithURL(srv.URL).Complete(context.Background(), "F", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("Complete() error = %v, want APIError 429", err)
	}

	empty := recordingServer(t, http.StatusOK, `{"choices":[]}`, nil, nil)
	if _, err := NewMistral("k", "").WithURL(empty.URL).Complete(context.Background(), "F", nil); err == nil {
		t.Error("Complete() with no choices returned nil error")
	}
}

func TestAnthropicRequestShape(t *testing.T) {
	var body map[string]any
	var headers http.Header
	srv := recordingServer(t, http.StatusOK, `{"content":[{"type":"text","text":"hello"}]}`, &body, &headers)

	out, err := NewAnthropic("key", "").WithURL(srv.URL).Complete(context.Background(), "FRAMING", nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Complete() = %q", out)
	}
	if headers.Get("x-api-key") != "key" || headers.Get("anthropic-version") != AnthropicVersion {
		t.Errorf("headers = %v", headers)
	}
	if body["system"] != "FRAMING" || body["max_tokens"] != float64(anthropicMaxTokens) {
		t.Errorf("body = %v", body)
	}
	want := []any{map[string]any{"role": "user", "content": emptyHistoryPrompt}}
	if diff := cmp.Diff(want, body["messages"]); diff != "" {
		t.Errorf("empty history not replaced (-want +got):\n%s", diff)
	}
}

func TestGeminiSendsSystemInstruction(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		raw = string(body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"`+"```xml\\n<Judgement_ID>j1</Judgement_ID>\\n```"+`"}]}}]}`)
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), "key", "", srv.URL)
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}
	out, err := g.Complete(context.Background(), "FRAMING", []agent.Message{{Role: agent.RoleUser, Content: "topic"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "<Judgement_ID>j1</Judgement_ID>" {
		t.Errorf("Complete() = %q, want fences stripped", out)
	}
	if !strings.Contains(raw, "FRAMING") || !strings.Contains(raw, "topic") {
		t.Errorf("request body lacks framing or history: %s", raw)
	}
}

func TestGeminiContentsRoles(t *testing.T) {
	contents := geminiContents([]agent.Message{
		{Role: agent.RoleUser, Content: "a"},
		{Role: agent.RoleAssistant, Content: "b"},
	})
	var roles []string
	for _, c := range contents {
		roles = append(roles, string(c.Role))
	}
	if diff := cmp.Diff([]string{"user", "model"}, roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
}

type turn struct {
	Role string
	Text string
}

func flatten(history []*genai.Content) []turn {
	var out []turn
	for _, c := range history {
		out = append(out, turn{Role: c.Role, Text: string(c.Parts[0].(genai.Text))})
	}
	return out
}

func TestChatTurns(t *testing.T) {
	tests := []struct {
		name        string
		msgs        []agent.Message
		wantHistory []turn
		wantLast    string
	}{
		{
			name: "proposer opening",
			msgs: []agent.Message{{Role: agent.RoleUser, Content: "topic"}},
			wantHistory: []turn{
				{"user", "F"},
				{"model", roleAcknowledgement},
			},
			wantLast: "topic",
		},
		{
			name: "history ends on own turn",
			msgs: []agent.Message{
				{Role: agent.RoleUser, Content: "topic"},
				{Role: agent.RoleAssistant, Content: "mine"},
			},
			wantHistory: []turn{
				{"user", "F"},
				{"model", roleAcknowledgement},
				{"user", "topic"},
				{"model", "mine"},
			},
			wantLast: emptyHistoryPrompt,
		},
		{
			name:     "no history",
			wantLast: "F",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, last := chatTurns("F", tt.msgs)
			if diff := cmp.Diff(tt.wantHistory, flatten(history)); diff != "" {
				t.Errorf("history mismatch (-want +got):\n%s", diff)
			}
			if last != tt.wantLast {
				t.Errorf("last = %q, want %q", last, tt.wantLast)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open(context.Background(), "eliza", Settings{APIKey: "k"}); err == nil {
		t.Error("Open(unknown) returned nil error")
	}
	if _, err := Open(context.Background(), "openai", Settings{}); err == nil {
		t.Error("Open() without key returned nil error")
	}
	b, err := Open(context.Background(), "anthropic", Settings{APIKey: "k", Model: "claude-x"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if b.Class() != "Anthropic" || b.Model() != "claude-x" {
		t.Errorf("Open() = %s|%s", b.Class(), b.Model())
	}
}
