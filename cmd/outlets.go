package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pizza-watch/internal/geo"
	"github.com/sells-group/pizza-watch/internal/mapview"
	"github.com/sells-group/pizza-watch/internal/model"
	"github.com/sells-group/pizza-watch/internal/render"
)

var (
	outletsFallback bool
	outletsGeoJSON  bool
)

var outletsCmd = &cobra.Command{
	Use:   "outlets",
	Short: "Print outlets sorted by distance from the landmark",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var outlets []model.Outlet
		if outletsFallback {
			outlets = model.FallbackOutlets()
		} else {
			if err := cfg.Validate("outlets"); err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			outlets, err = client.Outlets(ctx)
			if err != nil {
				return err
			}
		}

		zap.L().Debug("outlets fetched", zap.Int("count", len(outlets)), zap.Bool("fallback", outletsFallback))
		return writeOutlets(ctx, cmd.OutOrStdout(), landmark(cfg), cfg.Landmark.Name, outlets, outletsGeoJSON)
	},
}

func init() {
	outletsCmd.Flags().BoolVar(&outletsFallback, "fallback", false, "show the built-in outlet list without fetching")
	outletsCmd.Flags().BoolVar(&outletsGeoJSON, "geojson", false, "print the marker layer as GeoJSON")
	rootCmd.AddCommand(outletsCmd)
}

func writeOutlets(ctx context.Context, w io.Writer, center geo.Coordinate, name string, outlets []model.Outlet, asGeoJSON bool) error {
	markers := mapview.BuildMarkers(center, outlets)
	mapview.SortByDistance(markers)

	if asGeoJSON {
		layer := render.NewGeoJSON(center, name)
		if err := layer.RenderOutlets(ctx, markers); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, string(layer.Bytes()))
		return err
	}

	if len(markers) == 0 {
		_, err := fmt.Fprintln(w, "No outlets.")
		return err
	}
	return render.NewText(w).RenderOutlets(ctx, markers)
}
