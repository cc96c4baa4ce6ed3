package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scoutdesk/config"
	"scoutdesk/importer"
	"scoutdesk/storage"
	"scoutdesk/telemetry"
	"scoutdesk/web"
)

var (
	servePort   int
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the player import HTTP API",
	Long: `Start an HTTP server exposing the spreadsheet import and the stored players.

Endpoints:
  POST   /api/players/import     multipart upload, form field "file"
  GET    /api/players            list stored players
  GET    /api/players/{id}       one player with statistics
  DELETE /api/players/{id}       remove a player
  GET    /api/imports            recent import batches (requires telemetry.enabled)
  GET    /api/templates/{format} blank template, csv or xlsx
  GET    /metrics                Prometheus metrics
  GET    /healthz                liveness`,
	Example: `
  # Start on the configured port
  scoutdesk serve

  # Start with an explicit database and port
  scoutdesk serve --port 9090 --db ./scouting.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(serveDBPath)
		if err != nil {
			return err
		}
		port := resolveServePort(servePort, *cfg)

		store, err := storage.OpenSQLite(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		metrics := telemetry.NewMetrics()
		service := &importer.Service{
			Store:     store,
			Telemetry: serveRecorder(*cfg, store, metrics),
			Logger:    slog.Default(),
		}

		server := &http.Server{
			Addr: fmt.Sprintf(":%d", port),
			Handler: withRootRedirect(web.NewServer(store, service, *cfg, web.Options{
				Metrics: metrics.Handler(),
				Logger:  slog.Default(),
			}), "/api/players"),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		slog.Info("server listening", "addr", server.Addr, "db_path", cfg.Storage.DBPath, "telemetry", cfg.Telemetry.Enabled)
		fmt.Printf("Listening on http://localhost:%d\n", port)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default from server.port)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (default from storage.db_path)")
}

func resolveServePort(flagPort int, cfg config.Config) int {
	if flagPort > 0 {
		return flagPort
	}
	if cfg.Server.Port > 0 {
		return cfg.Server.Port
	}
	return config.DefaultServerPort
}

// serveRecorder always feeds the metrics; the import log is opt-in.
func serveRecorder(cfg config.Config, store *storage.SQLiteStore, metrics *telemetry.Metrics) telemetry.Recorder {
	if !cfg.Telemetry.Enabled {
		return metrics
	}
	return telemetry.Fanout{metrics, store}
}

func withRootRedirect(next http.Handler, target string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
