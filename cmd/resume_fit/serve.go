package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/server"
	"github.com/jonathan/resume-fit/internal/server/ratelimit"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Start an HTTP server exposing POST /analyze, POST /analyze/stream, POST /fetch and GET /health.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load(false)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx := cmd.Context()
			var cleanup closers
			defer cleanup.Close()

			fetcher, err := newFetcher(ctx, cfg, logger, &cleanup)
			if err != nil {
				return err
			}
			analyzer, err := newAnalyzer(ctx, cfg, logger, fetcher, &cleanup)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				Port:           cfg.Server.Port,
				Analyzer:       analyzer,
				Fetcher:        fetcher,
				Logger:         logger,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				RateLimit:      ratelimit.DefaultConfig(cfg.Server.RateLimit, cfg.Server.RateBurst),
				MaxUploadBytes: cfg.Server.MaxUploadBytes,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			logger.Info("serving",
				zap.String("provider", cfg.Provider),
				zap.Bool("scripted", fetcher.ScriptingAvailable()),
				zap.String("cache", cfg.Cache.Backend),
			)
			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides server.port)")
	return cmd
}
