package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charles-oliveira/web-2/models"
	"github.com/charles-oliveira/web-2/service"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var (
		userID     int64
		global     bool
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a period summary for one user, or totals across all users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (userID == 0) == !global {
				return errors.New("exactly one of --user-id or --global is required")
			}
			r, err := reportRange(start, end)
			if err != nil {
				return err
			}

			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Close()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			engine := service.NewEngine(storage, service.EngineConfig{
				Location:      loc,
				GlobalEnabled: cfg.Reports.GlobalEnabled,
			}, log)

			out := cmd.OutOrStdout()
			if global {
				if r == nil {
					dr := engine.DefaultRange()
					r = &dr
				}
				totals, err := engine.GlobalTotals(cmd.Context(), *r)
				if err != nil {
					return err
				}
				printGlobal(out, totals)
				return nil
			}

			summary, err := engine.Summary(cmd.Context(), userID, r)
			if err != nil {
				return err
			}
			printSummary(out, summary)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user-id", 0, "report on this user")
	cmd.Flags().BoolVar(&global, "global", false, "report totals across every user (needs reports.global_enabled)")
	cmd.Flags().StringVar(&start, "start", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "inclusive end date (YYYY-MM-DD)")
	return cmd
}

// reportRange parses --start and --end; both or neither must be given.
func reportRange(start, end string) (*models.DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, errors.New("--start and --end must be given together")
	}
	s, err := models.ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := models.ParseDate(end)
	if err != nil {
		return nil, err
	}
	r := models.DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func printSummary(out io.Writer, s models.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Period\t%s\n", s.Range)
	fmt.Fprintf(w, "Income\t%s\n", s.TotalIncome)
	fmt.Fprintf(w, "Expense\t%s\n", s.TotalExpense)
	fmt.Fprintf(w, "Balance\t%s\n", s.Balance)

	if len(s.CategoryTotals) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Category\tKind\tTotal")
		for _, c := range s.CategoryTotals {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Kind, c.Total)
		}
	}
	if len(s.RecentTransactions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Date\tDescription\tKind\tAmount")
		for _, t := range s.RecentTransactions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Date, t.Description, t.Kind, t.Amount)
		}
	}
}

func printGlobal(out io.Writer, g models.GlobalTotals) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Period\t%s\n", g.Range)
	fmt.Fprintf(w, "Owners\t%d\n", g.Owners)
	fmt.Fprintf(w, "Income\t%s\n", g.Totals.Income)
	fmt.Fprintf(w, "Expense\t%s\n", g.Totals.Expense)
	fmt.Fprintf(w, "Balance\t%s\n", g.Balance)
}
