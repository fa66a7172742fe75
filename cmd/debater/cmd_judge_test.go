package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"aidebater/db"
	"aidebater/internal/agent"
	"aidebater/internal/agent/agenttest"
	"aidebater/internal/contract"
	"aidebater/internal/debate"
	"aidebater/models"
)

func seedBatch(t *testing.T) (*debate.Orchestrator, []string) {
	t.Helper()
	ctx := context.Background()
	store, err := db.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close(ctx) })

	// "t1:p-vs-o" was interrupted right after it was registered.
	var ids []string
	for _, topic := range []string{"t1", "t2"} {
		id := models.DiscourseID(topic, "p", "o")
		if err := store.AppendDiscourse(ctx, models.Discourse{DiscourseID: id, TopicID: topic, ModelProposing: "p", ModelOpposing: "o"}); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	full := ids[1]
	if err := store.AppendArguments(ctx, full, []models.Argument{
		{DiscourseID: full, IthArgument: 0, ArgumentID: models.ArgumentID(full, 0), ModelSpeaking: "p", Argument: strp("yes")},
		{DiscourseID: full, IthArgument: 1, ArgumentID: models.ArgumentID(full, 1), ModelSpeaking: "o", Argument: strp("no")},
	}); err != nil {
		t.Fatal(err)
	}
	o := debate.NewOrchestrator(store, agent.NewAcquirer(1, time.Second, nil), debate.Options{})
	return o, ids
}

func judgeReply() string {
	var sb strings.Builder
	for _, c := range contract.Categories {
		fmt.Fprintf(&sb, `<%s><Team><Team_ID>p</Team_ID><Score max_score="100">60</Score><Rational>r</Rational></Team>`, c)
		fmt.Fprintf(&sb, `<Team><Team_ID>o</Team_ID><Score max_score="100">40</Score><Rational>r</Rational></Team></%s>`, c)
	}
	return sb.String()
}

func TestJudgeAllSkipsEmptyDiscourses(t *testing.T) {
	o, ids := seedBatch(t)
	ctx := context.Background()
	judge := agent.New(agenttest.NewScripted("Judge", "m", judgeReply())).Bind(contract.NewJudge())

	var out bytes.Buffer
	if err := judgeAll(ctx, o, judge, ids, true, &out); err != nil {
		t.Fatalf("judgeAll() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || lines[0] != ids[0]+"\tno arguments" || !strings.HasPrefix(lines[1], ids[1]+"\t") {
		t.Errorf("judgeAll() output:\n%s", out.String())
	}

	if err := judgeAll(ctx, o, judge, ids[:1], false, &out); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("judgeAll() on a named empty discourse error = %v, want ErrNotFound", err)
	}
}

func TestVoteAllSkipsUnreadyDiscourses(t *testing.T) {
	o, ids := seedBatch(t)
	ctx := context.Background()
	voter := agent.New(agenttest.NewScripted("Voter", "m", "<Judgement_ID>unknown</Judgement_ID>")).Bind(contract.NewPublic())

	var out bytes.Buffer
	if err := voteAll(ctx, o, voter, ids, true, &out); err != nil {
		t.Fatalf("voteAll() error = %v", err)
	}
	want := ids[0] + "\tno arguments\n" + ids[1] + "\tnot judged\n"
	if out.String() != want {
		t.Errorf("voteAll() output = %q, want %q", out.String(), want)
	}

	judge := agent.New(agenttest.NewScripted("Judge", "m", judgeReply())).Bind(contract.NewJudge())
	if err := judgeAll(ctx, o, judge, ids[1:], false, &out); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := voteAll(ctx, o, voter, ids, true, &out); err != nil {
		t.Fatalf("voteAll() after judging error = %v", err)
	}
	if !strings.HasSuffix(out.String(), ids[1]+"\tunknown\t"+"Failed to vote\n") {
		t.Errorf("voteAll() output:\n%s", out.String())
	}
	if err := voteAll(ctx, o, voter, ids[:1], false, &out); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("voteAll() on a named empty discourse error = %v, want ErrNotFound", err)
	}
}
