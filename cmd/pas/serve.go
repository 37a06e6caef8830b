package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clarete/pas/server"
)

func newServeCmd(g *globals) *cobra.Command {
	var addr string
	cfg := server.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the matching API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Engine = g.engineConfig()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			s, err := server.New(cfg, g.logger, registry)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g.logger.Info("Starting server",
				zap.String("addr", addr),
				zap.Int("cache_size", cfg.CacheSize),
				zap.Duration("match_timeout", cfg.MatchTimeout),
				zap.Float64("rate_limit", cfg.RateLimit))
			return s.ListenAndServe(ctx, addr)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", ":8080", "Address to listen on")
	flags.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "Number of compiled grammars kept in memory")
	flags.DurationVar(&cfg.MatchTimeout, "match-timeout", cfg.MatchTimeout, "Maximum duration of each match, 0 disables it")
	flags.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", cfg.MaxBodyBytes, "Maximum size of request bodies")
	flags.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Match requests accepted per second, 0 disables rate limiting")
	flags.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "Match requests accepted at once")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Time given to requests in flight on shutdown")
	return cmd
}
