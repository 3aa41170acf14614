package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/pizza-watch/internal/render"
	"github.com/sells-group/pizza-watch/internal/store"
)

var (
	historyOutlet string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently journaled activity readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("history"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := store.Open(ctx, store.Config{Driver: cfg.Store.Driver, DatabaseURL: cfg.Store.DatabaseURL})
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		readings, err := st.RecentReadings(ctx, store.Filter{Outlet: historyOutlet, Limit: historyLimit})
		if err != nil {
			return err
		}
		return writeHistory(cmd.OutOrStdout(), readings)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyOutlet, "outlet", "", "only readings for this outlet name")
	historyCmd.Flags().IntVar(&historyLimit, "limit", store.DefaultLimit, "maximum readings to show")
	rootCmd.AddCommand(historyCmd)
}

func writeHistory(w io.Writer, readings []store.Reading) error {
	if len(readings) == 0 {
		_, err := fmt.Fprintln(w, "No readings.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBSERVED\tOUTLET\tACTIVITY\tSCORE\tDISTANCE\tSTATUS")
	for _, r := range readings {
		score := "-"
		if r.Score != nil {
			score = fmt.Sprintf("%.0f", *r.Score)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f km\t%s\n",
			r.ObservedAt.Format("2006-01-02 15:04"), r.Outlet, render.TierLabel(r.Tier), score, r.DistanceKm, r.BusyLevel)
	}
	return tw.Flush()
}
