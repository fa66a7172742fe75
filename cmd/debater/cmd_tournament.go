package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"aidebater/internal/agent"
	"aidebater/internal/contract"
	"aidebater/internal/debate"
	"aidebater/models"
)

var tournamentFlags struct {
	agents      []string
	topics      []string
	parallelism int
}

var tournamentCmd = &cobra.Command{
	Use:   "tournament",
	Short: "Debate every ordered pair of backends on every topic",
	Long: `Runs one debate per topic and ordered pair of distinct backends. Debates
already stored are skipped, so an interrupted tournament can be resumed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		if len(tournamentFlags.agents) < 2 {
			return errors.New("a tournament needs at least two agents")
		}
		var agents []*agent.Agent
		for _, name := range tournamentFlags.agents {
			ag, err := a.Agent(ctx, name, contract.NewDebater())
			if err != nil {
				return err
			}
			agents = append(agents, ag)
		}

		var topics []models.Topic
		if len(tournamentFlags.topics) == 0 {
			stored, err := a.Store.LoadTopics(ctx)
			if err != nil {
				return err
			}
			for _, t := range stored {
				topics = append(topics, t.Topic)
			}
		}
		for _, id := range tournamentFlags.topics {
			t, err := a.Store.LoadTopic(ctx, id)
			if err != nil {
				return fmt.Errorf("topic %s: %w", id, err)
			}
			topics = append(topics, t)
		}
		if len(topics) == 0 {
			return errors.New("no topics stored; run `debater topics` first")
		}

		parallelism := tournamentFlags.parallelism
		if parallelism <= 0 {
			parallelism = a.Config.Debate.Parallelism
		}
		report, err := a.Orchestrator().RunTournament(ctx, debate.Pairings(topics, agents), parallelism)
		if report != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%d completed, %d skipped\n", len(report.Completed), len(report.Skipped))
		}
		return err
	},
}

func init() {
	f := tournamentCmd.Flags()
	f.StringSliceVar(&tournamentFlags.agents, "agents", []string{"openai", "anthropic", "mistral", "gemini"}, "backends taking part")
	f.StringSliceVar(&tournamentFlags.topics, "topics", nil, "topic ids (default: every stored topic)")
	f.IntVar(&tournamentFlags.parallelism, "parallelism", 0, "debates run at once (default: debate.parallelism)")
}
