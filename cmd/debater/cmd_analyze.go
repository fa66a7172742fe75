package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"aidebater/models"
)

var analyzeFlags struct {
	table    string
	markdown bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print normalised judgements, vote labels or the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close(ctx)
		p := a.Pipeline()

		var out string
		switch analyzeFlags.table {
		case "judgements":
			rows, err := p.Judgements(ctx)
			if err != nil {
				return err
			}
			out = judgementsTable(rows, analyzeFlags.markdown)
		case "votes":
			votes, err := p.Votes(ctx)
			if err != nil {
				return err
			}
			out = votesTable(votes, analyzeFlags.markdown)
		case "leaderboard":
			ratings, err := p.Leaderboard(ctx)
			if err != nil {
				return err
			}
			out = leaderboardTable(ratings, analyzeFlags.markdown)
		default:
			return fmt.Errorf("unknown table %q (judgements, votes, leaderboard)", analyzeFlags.table)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.table, "table", "leaderboard", "judgements, votes or leaderboard")
	f.BoolVar(&analyzeFlags.markdown, "markdown", false, "render as a Markdown table")
}

func newTable(markdown bool, header table.Row, numeric ...int) (table.Writer, func() string) {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(header)
	cfgs := make([]table.ColumnConfig, 0, len(numeric))
	for _, n := range numeric {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	w.SetColumnConfigs(cfgs)
	if markdown {
		return w, w.RenderMarkdown
	}
	return w, w.Render
}

func orNone(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func judgementsTable(rows []models.EnrichedJudgementRow, markdown bool) string {
	w, render := newTable(markdown, table.Row{"Judge", "Discourse", "Category", "Team", "Score", "Normalised"}, 5, 6)
	for _, r := range rows {
		normalised := "-"
		if r.NormalisedScore != nil {
			normalised = fmt.Sprintf("%.3f", *r.NormalisedScore)
		}
		w.AppendRow(table.Row{orNone(r.JudgeEntity), r.DiscourseID, r.Category, r.TeamID, fmt.Sprintf("%.2f", r.Score), normalised})
	}
	return render()
}

func votesTable(votes []models.ResolvedVote, markdown bool) string {
	w, render := newTable(markdown, table.Row{"Voter", "Discourse", "Candidates", "Label"}, 3)
	counts := make(map[string]int)
	for _, v := range votes {
		w.AppendRow(table.Row{orNone(v.VoterEntity), v.DiscourseID, len(v.Candidates), v.Label})
		counts[v.Label]++
	}
	var summary []string
	for _, label := range sortedKeys(counts) {
		summary = append(summary, fmt.Sprintf("%s=%d", label, counts[label]))
	}
	w.AppendFooter(table.Row{"", "", len(votes), strings.Join(summary, " ")})
	return render()
}

func leaderboardTable(ratings []models.AgentRating, markdown bool) string {
	w, render := newTable(markdown, table.Row{"#", "Model", "Rating", "RD", "Volatility", "W", "L", "D"}, 1, 3, 4, 5, 6, 7, 8)
	for i, r := range ratings {
		w.AppendRow(table.Row{
			i + 1, r.ModelEntity,
			fmt.Sprintf("%.1f", r.Rating), fmt.Sprintf("%.1f", r.RD), fmt.Sprintf("%.4f", r.Volatility),
			r.Wins, r.Losses, r.Draws,
		})
	}
	return render()
}
