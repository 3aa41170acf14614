package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pizza-watch/internal/geo"
	"github.com/sells-group/pizza-watch/internal/render"
)

var distanceScore float64

var distanceCmd = &cobra.Command{
	Use:   "distance LAT1 LON1 [LAT2 LON2]",
	Short: "Great-circle distance in km; the second point defaults to the landmark",
	Args:  cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var score *float64
		if cmd.Flags().Changed("score") {
			score = &distanceScore
		}
		return runDistance(cmd.OutOrStdout(), args, landmark(cfg), cfg.Landmark.Name, score)
	},
}

func init() {
	distanceCmd.Flags().Float64Var(&distanceScore, "score", 0, "also classify this activity score")
	rootCmd.AddCommand(distanceCmd)
}

func runDistance(w io.Writer, args []string, center geo.Coordinate, centerName string, score *float64) error {
	if len(args) != 2 && len(args) != 4 {
		return eris.Errorf("distance: want 2 or 4 coordinates, got %d", len(args))
	}

	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return eris.Wrapf(err, "distance: parse %q", a)
		}
		vals[i] = v
	}

	from := geo.Coordinate{Lat: vals[0], Lon: vals[1]}
	to, toName := center, centerName
	if len(vals) == 4 {
		to = geo.Coordinate{Lat: vals[2], Lon: vals[3]}
		toName = fmt.Sprintf("%g,%g", to.Lat, to.Lon)
	}

	if _, err := fmt.Fprintf(w, "%.2f km to %s\n", geo.DistanceKm(from, to), toName); err != nil {
		return err
	}
	if score != nil {
		tier := geo.ClassifyActivity(score)
		_, err := fmt.Fprintf(w, "score %g: %s (%s)\n", *score, render.TierLabel(tier), tier.Color())
		return err
	}
	return nil
}
