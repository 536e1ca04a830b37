package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/recipepipe/config"
	"github.com/gaurav-prasanna/recipepipe/core/adapter"
	"github.com/gaurav-prasanna/recipepipe/core/fetch"
	"github.com/gaurav-prasanna/recipepipe/core/pipeline"
	"github.com/gaurav-prasanna/recipepipe/logging"
)

// newLogger builds the logger described by cfg.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.DefaultConfig()
	if cfg.Logging.Development {
		lc = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		lc.Level = cfg.Logging.Level
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, nil
}

// newPipeline wires the fetcher, the optional remote scraper and the
// observer into a Pipeline.
func newPipeline(cfg *config.Config, logger *zap.Logger, observer pipeline.Observer) *pipeline.Pipeline {
	fetcher := fetch.NewWithOptions(fetch.Options{
		Timeout:      cfg.Fetch.Timeout,
		MaxRedirects: cfg.Fetch.MaxRedirects,
		UserAgent:    cfg.Fetch.UserAgent,
	})

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithObserver(observer),
	}

	if cfg.Scraper.Enabled() {
		remote := adapter.NewRemote(adapter.RemoteOptions{
			Endpoint: cfg.Scraper.URL,
			Timeout:  cfg.Scraper.Timeout,
			Retries:  cfg.Scraper.Retries,
		})
		if a, ok := adapter.Probe(remote); ok {
			logger.Info("External scraper enabled", zap.String("endpoint", cfg.Scraper.URL))
			opts = append(opts, pipeline.WithAdapter(a))
		}
	}

	return pipeline.New(fetcher, opts...)
}
