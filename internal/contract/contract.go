// Package contract defines the structured prompts handed to debate agents and
// the parsers that turn their free-text answers into typed results.
//
// A Contract carries seven framing fields rendered into a fixed block that is
// used as the agent's system framing, and a Kind that selects how answers are
// parsed. An answer is valid exactly when Parse succeeds.
package contract

import (
	"fmt"
	"strings"
)

// Kind selects the response shape a contract expects.
type Kind int

const (
	KindTopicCreation Kind = iota
	KindDebate
	KindJudging
	KindVoting
)

func (k Kind) String() string {
	switch k {
	case KindTopicCreation:
		return "topic-creation"
	case KindDebate:
		return "debate"
	case KindJudging:
		return "judging"
	case KindVoting:
		return "voting"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const framingRule = "#########\n"

// Contract is immutable once built by one of the New* constructors.
type Contract struct {
	kind           Kind
	context        string
	objective      string
	style          string
	tone           string
	audience       string
	responseFormat string
	inputFormat    string
}

// Kind returns the response shape of the contract.
func (c *Contract) Kind() Kind { return c.kind }

// ResponseFormat returns the declared answer layout.
func (c *Contract) ResponseFormat() string { return c.responseFormat }

// InputFormat returns the declared input layout.
func (c *Contract) InputFormat() string { return c.inputFormat }

// GeneratePrompt renders the framing block. Every field is rendered, in a fixed
// order, even when empty, so equal contracts render byte-identical framing.
func (c *Contract) GeneratePrompt() string {
	fields := [...]struct{ name, value string }{
		{"Context", c.context},
		{"Objective", c.objective},
		{"Style", c.style},
		{"Tone", c.tone},
		{"Audience", c.audience},
		{"Response format", c.responseFormat},
		{"Input format", c.inputFormat},
	}

	var sb strings.Builder
	sb.WriteString(framingRule)
	for _, f := range fields {
		sb.WriteString("# ")
		sb.WriteString(f.name)
		sb.WriteString(" #")
		sb.WriteString(f.value)
		sb.WriteString("\n")
	}
	sb.WriteString(framingRule)
	return sb.String()
}

// Output is the typed result of parsing an answer: TopicList, Argument,
// Scorecard or Verdict depending on the contract kind.
type Output interface {
	outputKind() Kind
}

// Parse validates raw and converts it to the contract's typed result.
func (c *Contract) Parse(raw string) (Output, error) {
	switch c.kind {
	case KindTopicCreation:
		return parseTopics(raw)
	case KindDebate:
		return parseArgument(raw)
	case KindJudging:
		return parseScorecard(raw)
	case KindVoting:
		return parseVerdict(raw)
	default:
		return nil, fmt.Errorf("contract: unknown kind %s", c.kind)
	}
}

// IsValid reports whether Parse would succeed on raw.
func (c *Contract) IsValid(raw string) bool {
	_, err := c.Parse(raw)
	return err == nil
}
