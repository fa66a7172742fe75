package main

import (
	"github.com/spf13/cobra"

	"aidebater/config"
	"aidebater/internal/app"
)

var rootFlags struct {
	config string
	level  string
}

var rootCmd = &cobra.Command{
	Use:   "debater",
	Short: "Run debates between language models and analyse the results",
	Long: `debater creates topics, runs proposer/opponent debates between chat
backends, has other backends judge and vote on them, and turns the stored
judgements into normalised scores, vote labels and a Glicko-2 leaderboard.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.config, "config", "c", "./config/config.yml", "path to the YAML configuration")
	pf.StringVar(&rootFlags.level, "log-level", "", "override logging.level")

	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(debateCmd)
	rootCmd.AddCommand(tournamentCmd)
	rootCmd.AddCommand(judgeCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(watchCmd)
}

// openApp loads the configuration and opens the shared services. The caller
// closes the returned app.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(rootFlags.config)
	if err != nil {
		return nil, err
	}
	if rootFlags.level != "" {
		cfg.Logging.Level = rootFlags.level
	}
	logger, err := app.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, logger)
}
