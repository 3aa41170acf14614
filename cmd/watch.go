package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookgo/clock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pizza-watch/internal/config"
	"github.com/sells-group/pizza-watch/internal/mapview"
	"github.com/sells-group/pizza-watch/internal/notify"
	"github.com/sells-group/pizza-watch/internal/refresh"
	"github.com/sells-group/pizza-watch/internal/render"
	"github.com/sells-group/pizza-watch/internal/store"
)

var (
	watchPort   int
	watchNoKeys bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the watch list, news feed and outlet map until interrupted",
	Long:  "Loads the outlet markers, then refreshes each feed on its own period. Type r + Enter to refresh the watch list and news now, q + Enter to quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := applyPortFlag(cmd, cfg); err != nil {
			return err
		}
		if err := cfg.Validate("watch"); err != nil {
			return err
		}

		env, err := newWatchEnv(ctx, cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		log := zap.L().With(zap.String("component", "watch"))
		out := env.ctrl.Init(ctx)
		log.Info("outlets loaded", zap.String("outcome", string(out)), zap.Bool("fallback", env.ctrl.UsedFallback()))
		env.ctrl.RefreshAll(ctx)

		wait := env.ctrl.Start(ctx)

		if cfg.Server.Port > 0 {
			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:           buildRouter(ctx, env.ctrl, env.board, env.layer),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				log.Info("shutting down status server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			go func() {
				log.Info("starting status server", zap.Int("port", cfg.Server.Port))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("status server failed", zap.Error(err))
				}
			}()
		}

		if !watchNoKeys {
			go func() {
				quit, err := env.ctrl.HandleKeys(ctx, cmd.InOrStdin())
				if err != nil {
					log.Warn("key input stopped", zap.Error(err))
				}
				if quit {
					stop()
				}
			}()
		}

		err = wait()
		log.Info("watch stopped")
		return err
	},
}

// applyPortFlag overrides the configured status API port when --port is set
// explicitly. --port 0 disables the API.
func applyPortFlag(cmd *cobra.Command, c *config.Config) error {
	if !cmd.Flags().Changed("port") {
		return nil
	}
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return eris.Wrap(err, "watch: read --port")
	}
	c.Server.Port = port
	return nil
}

func init() {
	watchCmd.Flags().IntVar(&watchPort, "port", 0, "status API port (overrides config; 0 disables)")
	watchCmd.Flags().BoolVar(&watchNoKeys, "no-keys", false, "do not read refresh/quit commands from stdin")
	rootCmd.AddCommand(watchCmd)
}

type watchEnv struct {
	ctrl    *refresh.Controller
	board   *notify.Board
	layer   *render.GeoJSON
	journal store.Store
}

func (e *watchEnv) Close() {
	if e.journal != nil {
		if err := e.journal.Close(); err != nil {
			zap.L().Warn("close journal", zap.Error(err))
		}
	}
}

func newWatchEnv(ctx context.Context, cmd *cobra.Command) (*watchEnv, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	env := &watchEnv{
		board: notify.NewBoard(clk),
		layer: render.NewGeoJSON(landmark(cfg), cfg.Landmark.Name),
	}

	renderers := render.Multi{render.NewText(cmd.OutOrStdout()), env.layer}

	journal, err := store.Open(ctx, store.Config{Driver: cfg.Store.Driver, DatabaseURL: cfg.Store.DatabaseURL})
	if err != nil {
		return nil, eris.Wrap(err, "watch: open journal")
	}
	if journal != nil {
		env.journal = journal
		renderers = append(renderers, render.NewJournal(journal, clk))
	}

	notifiers := notify.Multi{env.board, notify.LogNotifier{}}
	if cfg.Notify.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.Notify.WebhookURL))
	}

	env.ctrl, err = refresh.New(refresh.Options{
		Source:   client,
		Renderer: renderers,
		Notifier: notifiers,
		Clock:    clk,
		View:     mapview.NewView(landmark(cfg)),
		Intervals: refresh.Intervals{
			Watch:   cfg.Refresh.WatchInterval(),
			News:    cfg.Refresh.NewsInterval(),
			Outlets: cfg.Refresh.OutletsInterval(),
		},
		NotificationTTL: cfg.Refresh.NotificationTTL(),
	})
	if err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

type statusResponse struct {
	refresh.Status
	Notifications []notify.Notification `json:"notifications"`
}

// buildRouter serves the local status API. Manual refreshes run on ctx.
func buildRouter(ctx context.Context, ctrl *refresh.Controller, board *notify.Board, layer *render.GeoJSON) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		resp := statusResponse{Status: ctrl.Status(), Notifications: []notify.Notification{}}
		if board != nil {
			resp.Notifications = append(resp.Notifications, board.Active()...)
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/api/markers.geojson", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(layer.Bytes())
	})

	r.Post("/api/refresh", func(w http.ResponseWriter, _ *http.Request) {
		go ctrl.RefreshAll(ctx)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
