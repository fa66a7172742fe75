package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"aidebater/internal/debate"
	"aidebater/models"
)

func strp(s string) *string { return &s }

func TestRootRegistersCommands(t *testing.T) {
	want := []string{"analyze", "debate", "judge", "topics", "tournament", "vote", "watch"}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestLeaderboardTable(t *testing.T) {
	out := leaderboardTable([]models.AgentRating{
		{ModelEntity: "OpenAI|gpt-4", Rating: 1662.3, RD: 290.3, Volatility: 0.06, Wins: 1},
		{ModelEntity: "Mistral|large", Rating: 1337.7, RD: 290.3, Volatility: 0.06, Losses: 1},
	}, false)
	first := strings.Index(out, "OpenAI|gpt-4")
	second := strings.Index(out, "Mistral|large")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("leaderboard rows missing or out of order:\n%s", out)
	}
	if !strings.Contains(out, "1662.3") {
		t.Errorf("rating not rendered:\n%s", out)
	}
}

func TestVotesTableSummarisesLabels(t *testing.T) {
	out := votesTable([]models.ResolvedVote{
		{Vote: models.Vote{DiscourseID: "d1", Candidates: []string{"a", "b"}}, VoterEntity: strp("V|m"), Label: "first_judgement"},
		{Vote: models.Vote{DiscourseID: "d2", Candidates: []string{"a"}}, Label: "Failed to vote"},
	}, true)
	if !strings.Contains(out, "Failed to vote=1 first_judgement=1") {
		t.Errorf("summary footer missing:\n%s", out)
	}
	if !strings.HasPrefix(out, "|") {
		t.Errorf("markdown output expected:\n%s", out)
	}
}

func TestPrintEvent(t *testing.T) {
	arg, _ := debate.NewEvent(debate.EventArgument, debate.ArgumentPayload{IthArgument: 1, Side: "opponent", ModelSpeaking: "o"})
	vote, _ := debate.NewEvent(debate.EventVote, debate.VotePayload{Voter: "V|m", Label: "second_judgement"})
	bad := &debate.Event{Type: debate.EventJudgement, Payload: json.RawMessage(`[`)}

	var buf bytes.Buffer
	if err := printEvent(&buf, arg); err != nil {
		t.Fatal(err)
	}
	if err := printEvent(&buf, vote); err != nil {
		t.Fatal(err)
	}
	want := "[1] opponent (o):\n" + debate.GapText + "\n\n== vote by V|m: second_judgement\n"
	if buf.String() != want {
		t.Errorf("printEvent() wrote %q, want %q", buf.String(), want)
	}
	if err := printEvent(&buf, bad); err == nil {
		t.Error("printEvent() accepted a malformed payload")
	}
}
