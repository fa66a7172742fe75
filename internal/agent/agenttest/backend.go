// Package agenttest provides in-memory chat backends for tests.
package agenttest

import (
	"context"
	"sync"

	"aidebater/internal/agent"
)

// Call records one Complete invocation.
type Call struct {
	System   string
	Messages []agent.Message
}

// ReplyFunc produces the answer for the n-th call (0-based).
type ReplyFunc func(ctx context.Context, n int, system string, msgs []agent.Message) (string, error)

// Backend is a scripted agent.Backend safe for concurrent use.
type Backend struct {
	class string
	model string
	reply ReplyFunc

	mu    sync.Mutex
	calls []Call
}

// NewFunc returns a backend answering with fn.
func NewFunc(class, model string, fn ReplyFunc) *Backend {
	return &Backend{class: class, model: model, reply: fn}
}

// NewScripted returns a backend that answers with replies in order and then
// keeps repeating the last one.
func NewScripted(class, model string, replies ...string) *Backend {
	return NewFunc(class, model, func(_ context.Context, n int, _ string, _ []agent.Message) (string, error) {
		if len(replies) == 0 {
			return "", nil
		}
		if n >= len(replies) {
			n = len(replies) - 1
		}
		return replies[n], nil
	})
}

func (b *Backend) Class() string { return b.class }
func (b *Backend) Model() string { return b.model }

func (b *Backend) Complete(ctx context.Context, system string, msgs []agent.Message) (string, error) {
	b.mu.Lock()
	n := len(b.calls)
	b.calls = append(b.calls, Call{System: system, Messages: append([]agent.Message(nil), msgs...)})
	b.mu.Unlock()
	return b.reply(ctx, n, system, msgs)
}

// Calls returns a snapshot of the recorded calls.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}
