package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/chore"
)

func newMonthCmd(a *app) *cobra.Command {
	var year, month int
	var output string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print a month's calendar with its chores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be 1-12, got %d", month)
			}

			st, release, err := a.openStore()
			if err != nil {
				return err
			}
			defer release()

			svc := chore.NewService(st, a.logger, chore.WithHorizon(a.cfg.HorizonMonths))
			view := svc.MonthView(cmd.Context(), year, time.Month(month))

			if output != formatText {
				return writeStructured(cmd.OutOrStdout(), output, view)
			}
			printMonth(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current)")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}

// printMonth draws the grid, marking days that have chores with '*' and
// today with brackets, then lists the month's chores by day.
func printMonth(w io.Writer, view chore.MonthView) {
	fmt.Fprintf(w, "%s\n", view.Title)
	fmt.Fprintln(w, " Sun  Mon  Tue  Wed  Thu  Fri  Sat")

	for i, d := range view.Days {
		cell := fmt.Sprintf("%2d", d.DayNumber)
		if !d.InMonth {
			cell = "  "
		}
		switch {
		case d.IsToday:
			cell = "[" + cell + "]"
		case d.InMonth && len(d.Chores) > 0:
			cell = " " + cell + "*"
		default:
			cell = " " + cell + " "
		}
		fmt.Fprint(w, cell)
		if i%7 == 6 {
			fmt.Fprintln(w)
		} else {
			fmt.Fprint(w, " ")
		}
	}

	for _, d := range view.Days {
		if !d.InMonth || len(d.Chores) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", calendar.DisplayDate(d.Key))
		for _, c := range d.Chores {
			who := c.MemberName
			if who == "" {
				who = c.AssignedTo
			}
			mark := " "
			if c.Recurring {
				mark = "↻"
			}
			fmt.Fprintf(w, "  %s %-8s %s (%s, %s)\n", mark, c.DisplayStatus, c.Title, who, strings.ToLower(string(c.Priority)))
		}
	}
}
