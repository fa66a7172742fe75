package contract

import (
	"fmt"
	"strings"
)

// Verdict is the result of the voting contract: the judgement the voter found
// most appropriate.
type Verdict struct {
	JudgementID string
}

func (Verdict) outputKind() Kind { return KindVoting }

// NewPublic returns the contract used by audience voters to pick a judgement.
func NewPublic() *Contract {
	return &Contract{
		kind: KindVoting,
		context: `
The context is within a debate setting where individuals serve as audience members or spectators, observing and listening to the arguments presented by debaters on a specific topic.
This could include academic debates, public forums, political debates, or online debate platforms.
`,
		objective: `
Your objective is to evaluate which judge judgment is most appropriate.
`,
		inputFormat: transcriptFormat + `
<Verdict>
<Judgement_ID></Judgement_ID>
` + scorecardFormat + `
</Verdict>
<Verdict>
...
</Verdict>
`,
		responseFormat: `
<Judgement_ID></Judgement_ID>
`,
	}
}

func parseVerdict(raw string) (Output, error) {
	var doc struct {
		JudgementIDs []string `xml:"Judgement_ID"`
	}
	if err := decodeDocument(raw, &doc); err != nil {
		return nil, &ParseError{Kind: KindVoting, Err: err}
	}
	switch len(doc.JudgementIDs) {
	case 0:
		return nil, &ParseError{Kind: KindVoting, Err: fmt.Errorf("missing <Judgement_ID>")}
	case 1:
	default:
		return nil, &ParseError{Kind: KindVoting, Err: fmt.Errorf("expected one <Judgement_ID>, got %d", len(doc.JudgementIDs))}
	}
	id := strings.TrimSpace(doc.JudgementIDs[0])
	if id == "" {
		return nil, &ParseError{Kind: KindVoting, Err: fmt.Errorf("empty <Judgement_ID>")}
	}
	return Verdict{JudgementID: id}, nil
}
