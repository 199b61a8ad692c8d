package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"campusdining-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(itemsCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu <hall id>",
	Short: "Prints the multi-day meal schedule for one dining hall.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			serviceutil.Fatal("hall id must be an integer", err)
		}

		svc := createService()
		menu, err := svc.HallMenu(cmd.Context(), id)
		if err != nil {
			serviceutil.Fatal("failed to fetch menu", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle(menu.Hall)
		t.AppendHeader(table.Row{"Date", "Meal Id", "Meal"})

		for _, day := range menu.Schedule {
			for _, meal := range day.Meals {
				t.AppendRow(table.Row{day.Date, meal.Id, meal.Name})
			}
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var itemsUnitId *int

func init() {
	itemsUnitId = itemsCmd.Flags().Int("unit", 0, "The portal unit id the meal belongs to.")
	itemsCmd.MarkFlagRequired("unit")
}

var itemsCmd = &cobra.Command{
	Use:   "items <meal id> --unit <unit id>",
	Short: "Prints the dishes served at one meal.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		menuId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("meal id must be an integer", err)
		}

		svc := createService()
		items, err := svc.MenuItems(cmd.Context(), menuId, *itemsUnitId)
		if err != nil {
			serviceutil.Fatal("failed to fetch menu items", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Dish", "Calories", "Allergens"})

		for _, item := range items {
			calories := ""
			if item.Calories != nil {
				calories = fmt.Sprintf("%g", *item.Calories)
			}
			t.AppendRow(table.Row{item.Name, calories, strings.Join(item.Allergens, ", ")})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
