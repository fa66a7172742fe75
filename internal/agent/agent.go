// Package agent binds chat backends to prompt contracts and obtains validated
// answers from them.
package agent

import (
	"context"
	"errors"
	"time"

	"aidebater/internal/contract"
	"aidebater/models"
)

// ErrNotInitialized is returned when an agent is asked to answer before a
// contract has been bound to it.
var ErrNotInitialized = errors.New("agent: no contract bound")

// Role is the speaker of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat history.
type Message struct {
	Role    Role
	Content string
}

// Backend is a vendor chat endpoint. system is the contract framing; the
// backend decides how to present it to its API.
type Backend interface {
	Class() string
	Model() string
	Complete(ctx context.Context, system string, msgs []Message) (string, error)
}

// Agent pairs a backend with a stable identity and, once bound, a contract.
type Agent struct {
	id        string
	backend   Backend
	contract  *contract.Contract
	createdAt time.Time
}

// New returns an unbound agent with a fresh identity.
func New(b Backend) *Agent {
	return &Agent{
		id:        NewID(),
		backend:   b,
		createdAt: time.Now().UTC(),
	}
}

// ID returns the agent's opaque identity.
func (a *Agent) ID() string { return a.id }

// Entity returns the human-readable descriptor "class|model".
func (a *Agent) Entity() string {
	return a.backend.Class() + "|" + a.backend.Model()
}

// Info returns the metainfo persisted for the agent.
func (a *Agent) Info() models.AgentInfo {
	return models.AgentInfo{
		ModelID:     a.id,
		ModelClass:  a.backend.Class(),
		Model:       a.backend.Model(),
		ModelEntity: a.Entity(),
		CreatedAt:   a.createdAt,
	}
}

// Contract returns the bound contract, or nil.
func (a *Agent) Contract() *contract.Contract { return a.contract }

// Bind returns a copy of the agent bound to c. The copy shares the identity,
// so one participant can play several roles.
func (a *Agent) Bind(c *contract.Contract) *Agent {
	bound := *a
	bound.contract = c
	return &bound
}

// Answer sends msgs to the backend under the contract's framing.
func (a *Agent) Answer(ctx context.Context, msgs []Message) (string, error) {
	if a.contract == nil {
		return "", ErrNotInitialized
	}
	return a.backend.Complete(ctx, a.contract.GeneratePrompt(), msgs)
}
