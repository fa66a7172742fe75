package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"aidebater/db"
	"aidebater/models"
	"aidebater/rating"
)

func strp(s string) *string { return &s }

func row(judgement, judge, category, team string, score float64) models.EnrichedJudgementRow {
	r := models.EnrichedJudgementRow{
		JudgementRow: models.JudgementRow{
			JudgementID: judgement,
			ScoreRow:    models.ScoreRow{Category: category, TeamID: team, Score: score},
		},
	}
	if judge != "" {
		r.JudgeEntity = strp(judge)
	}
	return r
}

func normalised(rows []models.EnrichedJudgementRow) []float64 {
	var out []float64
	for _, r := range Normalise(rows) {
		out = append(out, *r.NormalisedScore)
	}
	return out
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name string
		rows []models.EnrichedJudgementRow
		want []float64
	}{
		{
			name: "min max across discourses",
			rows: []models.EnrichedJudgementRow{
				row("j1", "J", "ReasoningAndEvidence", "a", 0.2),
				row("j2", "J", "ReasoningAndEvidence", "b", 0.8),
			},
			want: []float64{0, 1},
		},
		{
			name: "interior point",
			rows: []models.EnrichedJudgementRow{
				row("j1", "J", "ReasoningAndEvidence", "a", 0.25),
				row("j1", "J", "ReasoningAndEvidence", "b", 0.5),
				row("j2", "J", "ReasoningAndEvidence", "a", 0.75),
			},
			want: []float64{0, 0.5, 1},
		},
		{
			name: "degenerate range",
			rows: []models.EnrichedJudgementRow{
				row("j1", "J", "ReasoningAndEvidence", "a", 0.6),
				row("j2", "J", "ReasoningAndEvidence", "b", 0.6),
			},
			want: []float64{DegenerateScore, DegenerateScore},
		},
		{
			name: "groups by judge and category",
			rows: []models.EnrichedJudgementRow{
				row("j1", "J", "ReasoningAndEvidence", "a", 0.2),
				row("j1", "J", "ListeningAndResponse", "a", 0.9),
				row("j2", "K", "ReasoningAndEvidence", "a", 0.4),
				row("j1", "J", "ReasoningAndEvidence", "b", 0.6),
				row("j3", "", "ReasoningAndEvidence", "a", 0.1),
			},
			want: []float64{0, DegenerateScore, DegenerateScore, 1, DegenerateScore},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalised(tt.rows)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalise() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormaliseDoesNotMutateInput(t *testing.T) {
	rows := []models.EnrichedJudgementRow{row("j1", "J", "c", "a", 0.3)}
	Normalise(rows)
	if rows[0].NormalisedScore != nil {
		t.Error("Normalise() wrote into its input")
	}
}

func TestOrdinalLabel(t *testing.T) {
	want := []string{"first_judgement", "second_judgement", "third_judgement", "fourth_judgement", "5th_judgement", "6th_judgement"}
	for i, w := range want {
		if got := OrdinalLabel(i); got != w {
			t.Errorf("OrdinalLabel(%d) = %q, want %q", i, got, w)
		}
	}

	suffixes := map[int]string{
		10:  "11th_judgement",
		11:  "12th_judgement",
		12:  "13th_judgement",
		20:  "21st_judgement",
		21:  "22nd_judgement",
		22:  "23rd_judgement",
		23:  "24th_judgement",
		100: "101st_judgement",
		110: "111th_judgement",
		111: "112th_judgement",
	}
	for pos, w := range suffixes {
		if got := OrdinalLabel(pos); got != w {
			t.Errorf("OrdinalLabel(%d) = %q, want %q", pos, got, w)
		}
	}
}

func TestResolveVote(t *testing.T) {
	known := map[string]bool{"j1": true, "j2": true, "j3": true, "j9": true}
	candidates := []string{"j1", "j2", "j3"}

	tests := []struct {
		chosen string
		want   string
	}{
		{"j1", "first_judgement"},
		{"j2", "second_judgement"},
		{"j3", "third_judgement"},
		{"missing", FailedVote},
		{"j9", FailedVote},
		{"", FailedVote},
	}
	for _, tt := range tests {
		if got := ResolveVote(candidates, tt.chosen, known); got != tt.want {
			t.Errorf("ResolveVote(%q) = %q, want %q", tt.chosen, got, tt.want)
		}
	}
}

func judged(judgement, prop, opp string, propScore, oppScore float64) []models.EnrichedJudgementRow {
	mk := func(team string, score float64) models.EnrichedJudgementRow {
		r := row(judgement, "J", "ReasoningAndEvidence", team, score)
		r.ModelProposing, r.ModelOpposing = strp(prop), strp(opp)
		r.ProposerEntity, r.OpponentEntity = strp(prop+"|m"), strp(opp+"|m")
		return r
	}
	return []models.EnrichedJudgementRow{mk(prop, propScore), mk(opp, oppScore)}
}

func TestLeaderboard(t *testing.T) {
	var rows []models.EnrichedJudgementRow
	rows = append(rows, judged("j1", "a", "b", 0.8, 0.3)...)
	rows = append(rows, judged("j2", "b", "a", 0.4, 0.6)...)
	rows = append(rows, judged("j3", "a", "c", 0.5, 0.5)...)
	// An unresolvable side is ignored.
	orphan := row("j4", "J", "ReasoningAndEvidence", "x", 1)
	rows = append(rows, orphan)

	board := Leaderboard(rows, rating.New(nil))
	if len(board) != 3 {
		t.Fatalf("Leaderboard() has %d entries, want 3", len(board))
	}
	if board[0].ModelEntity != "a|m" {
		t.Errorf("leader = %s, want a|m", board[0].ModelEntity)
	}
	stats := make(map[string]models.AgentRating)
	for _, r := range board {
		stats[r.ModelEntity] = r
	}
	a := stats["a|m"]
	if a.Matches != 3 || a.Wins != 2 || a.Draws != 1 || a.Losses != 0 {
		t.Errorf("a|m stats = %+v", a)
	}
	if b := stats["b|m"]; b.Losses != 2 || b.Wins != 0 {
		t.Errorf("b|m stats = %+v", b)
	}
	for i := 1; i < len(board); i++ {
		if board[i-1].Rating < board[i].Rating {
			t.Errorf("leaderboard not sorted: %v", board)
		}
	}
}

func TestPipelineOverSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := db.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer store.Close(ctx)

	if err := store.AppendAgent(ctx, models.AgentInfo{ModelID: "judge", ModelEntity: "Gemini|flash"}); err != nil {
		t.Fatal(err)
	}
	for _, j := range []models.Judgement{
		{JudgementID: "j1", DiscourseID: "d", ModelIDJudging: "judge", Rows: []models.ScoreRow{{Category: "c", TeamID: "p", Score: 0.2}}},
		{JudgementID: "j2", DiscourseID: "d", ModelIDJudging: "judge", Rows: []models.ScoreRow{{Category: "c", TeamID: "p", Score: 0.8}}},
	} {
		if err := store.AppendJudgement(ctx, j); err != nil {
			t.Fatal(err)
		}
	}
	for _, v := range []models.Vote{
		{VoteID: "v1", DiscourseID: "d", ModelIDVoting: "judge", Candidates: []string{"j1", "j2"}, Chosen: "j2"},
		{VoteID: "v2", DiscourseID: "d", ModelIDVoting: "judge", Candidates: []string{"j1", "j2"}, Chosen: "j7"},
	} {
		if err := store.AppendVote(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	p := NewPipeline(store, nil)
	rows, err := p.Judgements(ctx)
	if err != nil {
		t.Fatalf("Judgements() error = %v", err)
	}
	if len(rows) != 2 || math.Abs(*rows[0].NormalisedScore) > 1e-12 || math.Abs(*rows[1].NormalisedScore-1) > 1e-12 {
		t.Errorf("Judgements() = %+v", rows)
	}

	votes, err := p.Votes(ctx)
	if err != nil {
		t.Fatalf("Votes() error = %v", err)
	}
	var labels []string
	for _, v := range votes {
		labels = append(labels, v.Label)
	}
	if diff := cmp.Diff([]string{"second_judgement", FailedVote}, labels); diff != "" {
		t.Errorf("vote labels mismatch (-want +got):\n%s", diff)
	}
}
