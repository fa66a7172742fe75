package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aidebater/internal/contract"
)

var debateFlags struct {
	topic    string
	proposer string
	opponent string
}

var debateCmd = &cobra.Command{
	Use:   "debate",
	Short: "Run one debate on a stored topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		topic, err := a.Store.LoadTopic(ctx, debateFlags.topic)
		if err != nil {
			return fmt.Errorf("topic %s: %w", debateFlags.topic, err)
		}
		proposer, err := a.Agent(ctx, debateFlags.proposer, contract.NewDebater())
		if err != nil {
			return err
		}
		opponent, err := a.Agent(ctx, debateFlags.opponent, contract.NewDebater())
		if err != nil {
			return err
		}

		res, err := a.Orchestrator().RunDebate(ctx, topic, proposer, opponent)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d arguments\t%d gaps\n",
			res.Discourse.DiscourseID, len(res.Arguments), res.Gaps())
		return nil
	},
}

func init() {
	f := debateCmd.Flags()
	f.StringVar(&debateFlags.topic, "topic", "", "topic id")
	f.StringVar(&debateFlags.proposer, "proposer", "openai", "proposing backend")
	f.StringVar(&debateFlags.opponent, "opponent", "anthropic", "opposing backend")
	_ = debateCmd.MarkFlagRequired("topic")
}
