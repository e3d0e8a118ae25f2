package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/toast/internal/config"
	"github.com/vango-dev/toast/pkg/metrics"
	"github.com/vango-dev/toast/pkg/server"
	"github.com/vango-dev/toast/pkg/toast"
)

type serveOptions struct {
	dir     string
	envFile string
	port    int
	host    string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the toast server",
		Long: `Start the toast server.

Configuration is read from toast.json in --config (defaults apply when the
file is missing), then overridden by TOASTD_* environment variables, which
may come from a .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd.Flags().Changed("port"), cmd.Flags().Changed("host"))
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "config", "c", ".", "Directory containing toast.json")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	cmd.Flags().IntVarP(&opts.port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&opts.host, "host", config.DefaultHost, "Host to bind to")

	return cmd
}

// loadConfig resolves configuration: file, then environment, then flags.
func loadConfig(opts serveOptions, portSet, hostSet bool) (*config.Config, error) {
	if err := config.LoadDotenv(opts.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(opts.dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if portSet {
		cfg.Server.Port = opts.port
	}
	if hostSet {
		cfg.Server.Host = opts.host
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts serveOptions, portSet, hostSet bool) error {
	cfg, err := loadConfig(opts, portSet, hostSet)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg)
	managerOpts := append(cfg.ManagerOptions(), toast.WithLogger(logger))
	m := toast.New(managerOpts...)

	srvConfig := server.Config{
		Address:         cfg.Address(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Logger:          logger,
	}

	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		stopMetrics := metrics.New(metrics.WithRegistry(reg)).Observe(m, nil)
		defer stopMetrics()
		srvConfig.Gatherer = reg
	}

	srv := server.New(m, srvConfig)

	logger.Info("toast queue ready",
		"position", cfg.Queue.Position,
		"max_visible", cfg.Queue.MaxVisible,
		"default_duration", cfg.Queue.DefaultDuration,
	)
	return srv.ListenAndServe(ctx)
}

// newLogger builds the process logger from cfg.Log.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}
