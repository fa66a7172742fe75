package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"aidebater/internal/debate"
)

var watchFlags struct {
	discourse string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live event stream of a debate",
	Long:  "Follows the Redis event stream of a discourse until interrupted. Requires redis.addr.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close(ctx)
		if a.Redis == nil {
			return errors.New("watch needs redis.addr to be configured")
		}

		out := cmd.OutOrStdout()
		tail := debate.NewStreamTail(a.Redis, a.Logger)
		err = tail.Follow(ctx, watchFlags.discourse, func(e *debate.Event) error {
			return printEvent(out, e)
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.discourse, "discourse", "", "discourse id")
	_ = watchCmd.MarkFlagRequired("discourse")
}

func printEvent(w io.Writer, e *debate.Event) error {
	switch e.Type {
	case debate.EventArgument:
		var p debate.ArgumentPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		text := debate.GapText
		if p.Argument != nil {
			text = *p.Argument
		}
		_, err := fmt.Fprintf(w, "[%d] %s (%s):\n%s\n\n", p.IthArgument, p.Side, p.ModelSpeaking, text)
		return err
	case debate.EventDiscourseStarted, debate.EventDiscourseFinished:
		var p debate.DiscoursePayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "== %s %s: %s vs %s (%d arguments, %d gaps)\n", e.Type, p.DiscourseID, p.Proposer, p.Opponent, p.Arguments, p.Gaps)
		return err
	case debate.EventJudgement:
		var p debate.JudgementPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "== judgement %s by %s: %v\n", p.JudgementID, p.Judge, p.Totals)
		return err
	case debate.EventVote:
		var p debate.VotePayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "== vote by %s: %s\n", p.Voter, p.Label)
		return err
	default:
		_, err := fmt.Fprintf(w, "== %s\n", e.Type)
		return err
	}
}
