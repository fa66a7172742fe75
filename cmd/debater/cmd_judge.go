package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"aidebater/db"
	"aidebater/internal/agent"
	"aidebater/internal/app"
	"aidebater/internal/contract"
	"aidebater/internal/debate"
)

var judgeFlags struct {
	discourse string
	judge     string
}

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Have a backend score a stored debate (or every stored debate)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		judge, err := a.Agent(ctx, judgeFlags.judge, contract.NewJudge())
		if err != nil {
			return err
		}
		ids, err := discourseIDs(ctx, a, judgeFlags.discourse)
		if err != nil {
			return err
		}

		return judgeAll(ctx, a.Orchestrator(), judge, ids, judgeFlags.discourse == "", cmd.OutOrStdout())
	},
}

// judgeAll judges each discourse in turn. In batch mode a discourse without
// arguments, left behind by an interrupted debate, is reported and skipped.
func judgeAll(ctx context.Context, o *debate.Orchestrator, judge *agent.Agent, ids []string, batch bool, out io.Writer) error {
	for _, id := range ids {
		j, err := o.Judge(ctx, judge, id)
		if batch && errors.Is(err, db.ErrNotFound) {
			fmt.Fprintf(out, "%s\tno arguments\n", id)
			continue
		}
		if err != nil {
			return err
		}
		if j == nil {
			fmt.Fprintf(out, "%s\tno judgement\n", id)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", id, j.JudgementID)
	}
	return nil
}

func init() {
	f := judgeCmd.Flags()
	f.StringVar(&judgeFlags.discourse, "discourse", "", "discourse id (default: every stored discourse)")
	f.StringVar(&judgeFlags.judge, "judge", "gemini", "judging backend")
}

// discourseIDs returns id, or every stored discourse id when id is empty.
func discourseIDs(ctx context.Context, a *app.App, id string) ([]string, error) {
	if id != "" {
		return []string{id}, nil
	}
	competitions, err := a.Store.LoadCompetitions(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(competitions))
	for _, c := range competitions {
		ids = append(ids, c.DiscourseID)
	}
	return ids, nil
}

var voteFlags struct {
	discourse string
	voter     string
}

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Have a backend pick the most convincing judgement of a debate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		voter, err := a.Agent(ctx, voteFlags.voter, contract.NewPublic())
		if err != nil {
			return err
		}
		ids, err := discourseIDs(ctx, a, voteFlags.discourse)
		if err != nil {
			return err
		}

		return voteAll(ctx, a.Orchestrator(), voter, ids, voteFlags.discourse == "", cmd.OutOrStdout())
	},
}

// voteAll votes on each discourse in turn. In batch mode discourses that have
// no arguments or no judgements yet are reported and skipped.
func voteAll(ctx context.Context, o *debate.Orchestrator, voter *agent.Agent, ids []string, batch bool, out io.Writer) error {
	for _, id := range ids {
		v, label, err := o.Vote(ctx, voter, id)
		switch {
		case batch && errors.Is(err, db.ErrNotFound):
			fmt.Fprintf(out, "%s\tno arguments\n", id)
			continue
		case batch && errors.Is(err, debate.ErrNoJudgements):
			fmt.Fprintf(out, "%s\tnot judged\n", id)
			continue
		case err != nil:
			return err
		}
		if v == nil {
			fmt.Fprintf(out, "%s\tno vote\n", id)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", id, v.Chosen, label)
	}
	return nil
}

func init() {
	f := voteCmd.Flags()
	f.StringVar(&voteFlags.discourse, "discourse", "", "discourse id (default: every stored discourse)")
	f.StringVar(&voteFlags.voter, "voter", "mistral", "voting backend")
}
