package main

import (
	"github.com/spf13/cobra"

	"calview/internal/grid"
	"calview/internal/model"
	"calview/internal/render"
	"calview/internal/view"
)

var (
	gridFlags viewFlags

	gridCmd = &cobra.Command{
		Use:   "grid",
		Short: "Show a month as a calendar grid",
		Args:  cobra.NoArgs,
		RunE:  runGrid,
	}
)

func init() {
	rootCmd.AddCommand(gridCmd)
	gridFlags.register(gridCmd, "")
}

func runGrid(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	req, err := gridFlags.resolve(a.today)
	if err != nil {
		return err
	}
	items, err := a.store.Items(req.period)
	if err != nil {
		return err
	}
	g, err := grid.BuildAt(req.period, model.FilterKind(items, req.kind), model.DateOf, a.today)
	if err != nil {
		return err
	}
	v := view.Calendar(g, view.CalendarOptions[model.Item, string]{
		Common: view.Common[model.Item, string]{
			Key:         model.KeyOf,
			Placeholder: placeholderText,
		},
		Card:          func(it model.Item, _ int) string { return it.Title },
		WeekdayLabels: a.cfg.WeekLabels,
	})

	out := cmd.OutOrStdout()
	switch req.format {
	case render.FormatJSON:
		return render.JSON(out, v)
	case render.FormatTable:
		return render.CalendarTable(out, v)
	default:
		return render.Calendar(out, v, textOptions(a.cfg, out))
	}
}
