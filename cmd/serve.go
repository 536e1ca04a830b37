package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/recipepipe/config"
	"github.com/gaurav-prasanna/recipepipe/metrics"
	"github.com/gaurav-prasanna/recipepipe/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recipe extraction HTTP API",
	Long: `Serve starts the HTTP API. Settings come from the environment (or a .env
file): PORT, HOST, FETCH_*, SCRAPER_*, LOG_*, RATE_LIMIT_* and CORS_ORIGINS.

Routes:
  POST /api/v1/recipes/extract   {"url": "..."}
  GET  /api/v1/recipes/extract?url=...
  GET  /health
  GET  /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	logger.Info("Initializing recipepipe server",
		zap.String("addr", cfg.Server.Addr()),
		zap.Duration("fetch_timeout", cfg.Fetch.Timeout),
		zap.Bool("scraper", cfg.Scraper.Enabled()),
	)

	m := metrics.New()
	p := newPipeline(cfg, logger.Logger, m)
	srv := server.New(cfg, p, logger, m)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
