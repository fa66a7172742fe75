package backends

import (
	"context"
	"fmt"
	"sort"

	"aidebater/internal/agent"
)

// Settings configures one backend.
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string
}

type opener func(ctx context.Context, s Settings) (agent.Backend, error)

var openers = map[string]opener{
	"openai": func(_ context.Context, s Settings) (agent.Backend, error) {
		b := NewOpenAI(s.APIKey, s.Model)
		if s.BaseURL != "" {
			b.WithURL(s.BaseURL)
		}
		return b, nil
	},
	"mistral": func(_ context.Context, s Settings) (agent.Backend, error) {
		b := NewMistral(s.APIKey, s.Model)
		if s.BaseURL != "" {
			b.WithURL(s.BaseURL)
		}
		return b, nil
	},
	"anthropic": func(_ context.Context, s Settings) (agent.Backend, error) {
		b := NewAnthropic(s.APIKey, s.Model)
		if s.BaseURL != "" {
			b.WithURL(s.BaseURL)
		}
		return b, nil
	},
	"gemini": func(ctx context.Context, s Settings) (agent.Backend, error) {
		return NewGemini(ctx, s.APIKey, s.Model, s.BaseURL)
	},
	"geminipro": func(ctx context.Context, s Settings) (agent.Backend, error) {
		return NewGeminiPro(ctx, s.APIKey, s.Model)
	},
}

// Names lists the backend names accepted by Open.
func Names() []string {
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open builds the named backend.
func Open(ctx context.Context, name string, s Settings) (agent.Backend, error) {
	open, ok := openers[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (known: %v)", name, Names())
	}
	if s.APIKey == "" {
		return nil, fmt.Errorf("backend %s: API key is not set", name)
	}
	b, err := open(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return b, nil
}
