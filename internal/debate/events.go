package debate

import (
	"context"
	"encoding/json"
	"time"
)

// Event types published while a discourse runs and is evaluated.
const (
	EventDiscourseStarted  = "discourse_started"
	EventArgument          = "argument"
	EventDiscourseFinished = "discourse_finished"
	EventJudgement         = "judgement"
	EventVote              = "vote"
)

// Event represents a debate event published to a Redis stream
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// DiscoursePayload announces the start or end of a discourse.
type DiscoursePayload struct {
	DiscourseID string `json:"discourseId"`
	TopicID     string `json:"topicId"`
	Proposer    string `json:"proposer"`
	Opponent    string `json:"opponent"`
	Arguments   int    `json:"arguments,omitempty"`
	Gaps        int    `json:"gaps,omitempty"`
}

// ArgumentPayload carries one turn.
type ArgumentPayload struct {
	IthArgument   int     `json:"ithArgument"`
	Round         int     `json:"round"`
	ModelSpeaking string  `json:"modelSpeaking"`
	Side          string  `json:"side"`
	Argument      *string `json:"argument"`
}

// JudgementPayload summarises a judging pass.
type JudgementPayload struct {
	JudgementID string             `json:"judgementId"`
	Judge       string             `json:"judge"`
	Totals      map[string]float64 `json:"totals"` // team -> summed score
}

// VotePayload summarises a vote.
type VotePayload struct {
	VoteID string `json:"voteId"`
	Voter  string `json:"voter"`
	Chosen string `json:"chosen"`
	Label  string `json:"label"`
}

// EventSink receives events keyed by discourse. A nil sink drops them.
type EventSink interface {
	Publish(ctx context.Context, discourseID string, event *Event) error
}

// NewEvent creates a new event with timestamp
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   payloadBytes,
		Timestamp: time.Now().Unix(),
	}, nil
}

// MarshalEvent marshals an event to JSON string for Redis Stream
func MarshalEvent(event *Event) (string, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalEvent unmarshals a JSON string to an Event
func UnmarshalEvent(data string) (*Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}
	return &event, nil
}
