package commands

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches today's menus across every hall for a dish.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := createService()
		hits := svc.SearchDishes(cmd.Context(), strings.Join(args, " "))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Dish", "Halls"})

		for _, hit := range hits {
			t.AppendRow(table.Row{hit.Name, strings.Join(hit.Halls, ", ")})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
