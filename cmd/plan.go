package cmd

import (
	"encoding/json"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/planner"
)

func newPlanCommand() *cobra.Command {
	var (
		audience string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print this week's content plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := planner.WeeklyPlan(audience)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"week_start_date": models.WeekStart(time.Now()).Format(time.DateOnly),
					"posts":           entries,
				})
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.SetTitle("Week of " + models.WeekStart(time.Now()).Format(time.DateOnly))
			t.AppendHeader(table.Row{"ID", "Day", "Platform", "Content Type", "Time", "Topic"})
			for _, e := range entries {
				t.AppendRow(table.Row{e.ID, e.Day, e.Platform, e.ContentType, e.SuggestedTime, e.Topic})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&audience, "audience", "your audience", "target audience used in every topic")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}
