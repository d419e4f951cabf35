package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/danielsoro/activemq/internal/config"
	"github.com/danielsoro/activemq/internal/console"
	"github.com/danielsoro/activemq/internal/filter"
	"github.com/danielsoro/activemq/internal/kafka/admin"
	"github.com/danielsoro/activemq/internal/logger"
	"github.com/danielsoro/activemq/internal/transform"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("service", "amq-query").Logger()

	source, err := admin.New(
		cfg.Kafka.Brokers,
		log.With().Str("component", "admin").Logger(),
		admin.WithDomain(cfg.Query.BeanDomain),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka admin source")
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka admin source")
		}
	}()

	chain, err := buildChain(cfg, source, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build query chain")
	}

	results, err := chain.Query(ctx, os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("query failed")
	}

	if err := console.NewPrinter(os.Stdout).Print(results); err != nil {
		log.Fatal().Err(err).Msg("failed to print results")
	}
	log.Info().Int("results", len(results)).Msg("query complete")
}

func buildChain(cfg *config.Config, source *admin.Source, log zerolog.Logger) (filter.QueryFilter, error) {
	transformer := transform.NewMapTransformer(console.NewWriterSink(os.Stderr))

	beans, err := filter.NewBeanQueryFilter(source, log)
	if err != nil {
		return nil, err
	}

	var chain filter.QueryFilter
	chain, err = filter.NewBeanAttributeQueryFilter(beans, source, nil, log)
	if err != nil {
		return nil, err
	}

	chain, err = filter.NewMapTransformFilter(chain, transformer, log, filter.WithConcurrency(cfg.Query.Concurrency))
	if err != nil {
		return nil, err
	}

	if len(cfg.Query.ViewGroups) > 0 {
		chain, err = filter.NewGroupPropertiesViewFilter(chain, cfg.Query.ViewGroups)
		if err != nil {
			return nil, err
		}
	}
	if len(cfg.Query.ViewKeys) > 0 {
		chain, err = filter.NewPropertiesViewFilter(chain, cfg.Query.ViewKeys)
		if err != nil {
			return nil, err
		}
	}

	chain, err = filter.NewRegExQueryFilter(chain)
	if err != nil {
		return nil, err
	}
	return filter.NewWildcardTransformFilter(chain)
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("amq-query init failed")
}
