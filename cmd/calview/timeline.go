package main

import (
	"github.com/spf13/cobra"

	appLog "calview/internal/log"
	"calview/internal/model"
	"calview/internal/render"
	"calview/internal/timeline"
	"calview/internal/view"
)

var (
	timelineFlags viewFlags

	timelineCmd = &cobra.Command{
		Use:   "timeline",
		Short: "Show a month as a timeline of date ranges",
		Args:  cobra.NoArgs,
		RunE:  runTimeline,
	}
)

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineFlags.register(timelineCmd, string(model.KindGoal))
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	req, err := timelineFlags.resolve(a.today)
	if err != nil {
		return err
	}
	items, err := a.store.Items(req.period)
	if err != nil {
		return err
	}
	res, err := timeline.LayoutAt(req.period, model.FilterKind(items, req.kind), model.StartOf, model.EndOf, a.today)
	if err != nil {
		return err
	}
	if res.Skipped != nil {
		appLog.Warn("timeline: items without a start date were skipped", "err", res.Skipped)
	}
	v := view.Timeline(res, view.TimelineOptions[model.Item, string]{
		Common: view.Common[model.Item, string]{
			Key:         model.KeyOf,
			Placeholder: placeholderText,
		},
		Label:     func(it model.Item) string { return it.Title },
		CellWidth: a.cfg.CellWidth,
	})

	out := cmd.OutOrStdout()
	switch req.format {
	case render.FormatJSON:
		return render.JSON(out, v)
	case render.FormatTable:
		return render.TimelineTable(out, v)
	default:
		return render.Timeline(out, v, textOptions(a.cfg, out))
	}
}
