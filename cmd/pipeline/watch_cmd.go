package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/podcast-digest/internal/metrics"
	"github.com/nguyentantai21042004/podcast-digest/internal/watcher"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process every .url file dropped into the input directory",
		Long: `Watches watch.input_dir. Each *.url file holds one video URL (first
non-empty line). Every file is processed in its own work directory and renamed
to *.url.done or *.url.failed afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := a.cfg
			if err := os.MkdirAll(cfg.Watch.InputDir, 0755); err != nil {
				return fmt.Errorf("create input dir %s: %w", cfg.Watch.InputDir, err)
			}

			if cfg.Metrics.ListenAddr != "" {
				srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					a.log.Info(ctx, "Serving metrics on %s/metrics", cfg.Metrics.ListenAddr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.log.Error(ctx, "Metrics server error: %v", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			workRoot := filepath.Join(cfg.Paths.WorkDir, "podcast-digest")
			w, err := watcher.New(cfg.Watch.InputDir, watcher.SourceHandler(a.pipeline, workRoot, a.log), a.log, cfg.Watch.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			a.log.Info(ctx, "Monitoring: %s (work root %s). Press Ctrl+C to stop", cfg.Watch.InputDir, workRoot)

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.log.Info(ctx, "Watcher stopped")
			return nil
		},
	}
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
