package contract

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned by the debate contract for an empty answer.
var ErrEmptyResponse = errors.New("contract: response is empty")

// ParseError reports markup that could not be parsed into the contract's shape.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("contract %s: parse response: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidScoreError reports a judging answer whose scores cannot be normalised:
// a missing category block or attribute, a non-numeric value, a zero max_score,
// or a score outside [0, max_score].
type InvalidScoreError struct {
	Category string
	TeamID   string
	Reason   string
}

func (e *InvalidScoreError) Error() string {
	if e.TeamID == "" {
		return fmt.Sprintf("contract judging: category %s: %s", e.Category, e.Reason)
	}
	return fmt.Sprintf("contract judging: category %s team %s: %s", e.Category, e.TeamID, e.Reason)
}
