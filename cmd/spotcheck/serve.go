package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/spotcheck"
	"github.com/aretw0/spotcheck/internal/presentation/tui"
	"github.com/aretw0/spotcheck/internal/validator"
	httpAdapter "github.com/aretw0/spotcheck/pkg/adapters/http"
	"github.com/aretw0/spotcheck/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the test endpoint, step images, health checks and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer a.Close()

		// A broken catalog is reported but does not stop the server; steps can be fixed live.
		if steps, err := a.catalog.ListSteps(ctx); err != nil {
			a.logger.Warn("catalog unavailable at startup", "err", err)
		} else if err := validator.ValidateCatalog(steps, cfg.ImagesDir); err != nil {
			a.logger.Warn("catalog has problems", "err", err)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := observability.NewMetrics(reg, a.logger)

		engineOpts := []spotcheck.Option{
			spotcheck.WithCatalog(a.catalog),
			spotcheck.WithRecorder(a.db),
			spotcheck.WithStore(a.store),
			spotcheck.WithLogger(a.logger),
			spotcheck.WithLifecycleHooks(metrics.Hooks()),
			spotcheck.WithMaxTextSize(cfg.MaxTextSize),
		}
		if a.locker != nil {
			engineOpts = append(engineOpts, spotcheck.WithLocker(a.locker))
		}
		engine, err := spotcheck.New(engineOpts...)
		if err != nil {
			return fmt.Errorf("error initializing spotcheck: %w", err)
		}

		handler := httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(a.logger),
			httpAdapter.WithCookie(cfg.CookieName, cfg.CookieSecure, cfg.SessionTTL),
			httpAdapter.WithImages(cfg.ImagesDir),
			httpAdapter.WithMetrics(metrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
			httpAdapter.WithHealthCheck(a.Health),
		)

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(os.Stdout)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			a.logger.Info("starting spotcheck server",
				"addr", srv.Addr, "catalog", cfg.Catalog, "store", cfg.Store, "images", cfg.ImagesDir)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			a.logger.Info("shutting down")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			a.logger.Info("spotcheck server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides config)")
	serveCmd.Flags().String("store", "", "Session store: memory, file or redis (overrides config)")
	serveCmd.Flags().String("images", "", "Directory with step images (overrides config)")
}
