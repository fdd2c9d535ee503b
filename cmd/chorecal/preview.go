package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/model"
	"github.com/dukerupert/chorecal/internal/recurrence"
)

type previewResult struct {
	RRule     string   `json:"rrule"`
	Summary   string   `json:"summary"`
	StartDate string   `json:"start_date"`
	Dates     []string `json:"dates"`
	Truncated bool     `json:"truncated"`
}

func newPreviewCmd(a *app) *cobra.Command {
	var start, output string

	cmd := &cobra.Command{
		Use:   "preview RRULE",
		Short: "List the dates a recurrence rule produces",
		Example: `  chorecal preview "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE" --start 2024-01-01
  chorecal preview "FREQ=MONTHLY;BYMONTHDAY=31;UNTIL=20241231" --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := recurrence.Parse(args[0])
			if err != nil {
				return err
			}

			startDate := calendar.Today()
			if start != "" {
				if startDate, err = calendar.ParseDate(start); err != nil {
					return err
				}
			}

			p := rule.Pattern(startDate)
			res := recurrence.Expand(model.ChoreTemplate{ID: "preview", Recurrence: &p}, time.Now(), a.cfg.HorizonMonths)

			out := previewResult{
				RRule:     rule.String(),
				Summary:   recurrence.Describe(&p),
				StartDate: p.StartDate,
				Dates:     []string{},
				Truncated: res.Truncated,
			}
			for _, inst := range res.Instances {
				out.Dates = append(out.Dates, inst.DueDate)
			}

			w := cmd.OutOrStdout()
			if output != formatText {
				return writeStructured(w, output, out)
			}

			fmt.Fprintf(w, "%s (%s)\n", out.Summary, out.RRule)
			for _, d := range out.Dates {
				fmt.Fprintf(w, "  %s  %s\n", d, calendar.DisplayDate(d))
			}
			fmt.Fprintf(w, "%d occurrences", len(out.Dates))
			if out.Truncated {
				fmt.Fprintf(w, " (stopped at the %d limit)", recurrence.MaxInstances)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}
