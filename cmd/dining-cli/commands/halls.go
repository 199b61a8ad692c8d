package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hallsCmd)
}

var hallsCmd = &cobra.Command{
	Use:   "halls",
	Short: "Prints every configured dining hall with its live open/closed status.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := createService()
		statuses := svc.HallStatuses(cmd.Context())

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Hall", "Open", "Hours", "Reason"})

		for _, s := range statuses {
			open := "?"
			if s.IsOpen != nil {
				if *s.IsOpen {
					open = "yes"
				} else {
					open = "no"
				}
			}
			t.AppendRow(table.Row{s.Id, s.Name, open, s.Hours, s.Reason})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
