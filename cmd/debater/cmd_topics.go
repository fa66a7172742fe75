package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aidebater/internal/contract"
)

var topicsFlags struct {
	creator string
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Ask a backend for new debate topics and store them",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		creator, err := a.Agent(cmd.Context(), topicsFlags.creator, contract.NewTopicCreator())
		if err != nil {
			return err
		}
		topics, err := a.Orchestrator().CreateTopics(cmd.Context(), creator)
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			return fmt.Errorf("%s produced no valid topic list", creator.Entity())
		}
		out := cmd.OutOrStdout()
		for _, t := range topics {
			fmt.Fprintf(out, "%s\t%s\n", t.TopicID, t.Subject)
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().StringVar(&topicsFlags.creator, "creator", "openai", "backend that writes the topics")
}
