package debate

import (
	"sort"
	"strconv"
	"strings"

	"aidebater/internal/agent"
	"aidebater/internal/contract"
	"aidebater/models"
)

// Side is a participant's seat in a discourse.
type Side int

const (
	Proposer Side = iota
	Opponent
)

func (s Side) String() string {
	if s == Opponent {
		return "opponent"
	}
	return "proposer"
}

// SideOf returns the side that speaks the ith argument.
func SideOf(ith int) Side {
	if ith%2 == 0 {
		return Proposer
	}
	return Opponent
}

const (
	// Acknowledgement opens the opponent's history so both views alternate
	// user and assistant turns from the start.
	Acknowledgement = "Ok, I understood"
	// GapText stands in for a turn that produced no valid argument.
	GapText = "[no argument]"
)

func argumentText(a models.Argument) string {
	if a.Argument == nil {
		return GapText
	}
	return *a.Argument
}

// RenderView builds the message sequence shown to speaker: the topic as the
// opening user turn, then every prior argument, the speaker's own as
// assistant turns and the other side's as user turns.
func RenderView(topic models.Topic, args []models.Argument, speaker Side) []agent.Message {
	msgs := make([]agent.Message, 0, len(args)+2)
	msgs = append(msgs, agent.Message{Role: agent.RoleUser, Content: topic.Message()})
	if speaker == Opponent {
		msgs = append(msgs, agent.Message{Role: agent.RoleAssistant, Content: Acknowledgement})
	}
	for i, a := range args {
		role := agent.RoleUser
		if SideOf(i) == speaker {
			role = agent.RoleAssistant
		}
		msgs = append(msgs, agent.Message{Role: role, Content: argumentText(a)})
	}
	return msgs
}

// RenderTranscript renders a discourse as the <Discourse> block read by
// judges and voters, ordered by turn.
func RenderTranscript(args []models.Argument) string {
	sorted := append([]models.Argument(nil), args...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].IthArgument < sorted[j].IthArgument })

	var sb strings.Builder
	sb.WriteString("<Discourse>\n")
	for _, a := range sorted {
		sb.WriteString("<Argument>")
		sb.WriteString("<Number>" + strconv.Itoa(a.IthArgument) + "</Number>")
		sb.WriteString("<Team_ID>" + contract.EscapeText(a.ModelSpeaking) + "</Team_ID>")
		sb.WriteString("<Text>" + contract.EscapeText(argumentText(a)) + "</Text>")
		sb.WriteString("</Argument>\n")
	}
	sb.WriteString("</Discourse>\n")
	return sb.String()
}

// RenderBallot renders the transcript followed by one <Verdict> per
// candidate judgement, in the order given.
func RenderBallot(args []models.Argument, judgements []models.Judgement) string {
	var sb strings.Builder
	sb.WriteString(RenderTranscript(args))
	for _, j := range judgements {
		rows := make([]contract.TeamScore, 0, len(j.Rows))
		for _, r := range j.Rows {
			rows = append(rows, contract.TeamScore{Category: r.Category, TeamID: r.TeamID, Score: r.Score, Rational: r.Rational})
		}
		sb.WriteString("<Verdict>\n")
		sb.WriteString("<Judgement_ID>" + contract.EscapeText(j.JudgementID) + "</Judgement_ID>\n")
		sb.WriteString(contract.RenderScorecard(rows))
		sb.WriteString("</Verdict>\n")
	}
	return sb.String()
}
