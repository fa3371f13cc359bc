package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wayfind/infrastructure/config"
	"wayfind/infrastructure/connectivity"
)

func monitorCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the connectivity prober until interrupted",
		Long: `Runs the background connectivity prober, printing state changes.
With --metrics-addr and WAYFIND_ENABLE_METRICS=true the collected metrics
are exposed over HTTP. In development the config file is hot reloaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			watcher, err := config.NewWatcher(app.cfg, app.logger)
			if err != nil {
				return err
			}
			defer watcher.Stop()
			watcher.OnReload(func(cfg *config.Config) {
				fmt.Printf("configuration reloaded (log level %s)\n", cfg.LogLevel)
			})

			unsubscribe := app.monitor.Subscribe(func(online bool) {
				if online {
					fmt.Println("connectivity: online")
				} else {
					fmt.Println("connectivity: offline")
				}
			})
			defer unsubscribe()

			if app.cfg.EnableMetrics && metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				srv := &http.Server{Addr: metricsAddr, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != http.ErrServerClosed {
						app.logger.Warn("Metrics server stopped", zap.Error(err))
					}
				}()
				defer srv.Close()
				app.logger.Info("Serving metrics", zap.String("addr", metricsAddr))
			}

			if app.monitor.IsOnline() {
				fmt.Println("connectivity: online")
			} else {
				fmt.Println("connectivity: offline")
			}

			probe := connectivity.NewHTTPProbe(app.cfg.APIBaseURL, app.cfg.RequestTimeout)
			prober := connectivity.NewProber(probe, app.monitor, app.cfg.ProbeInterval(), app.logger)
			prober.Run(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090")
	return cmd
}
