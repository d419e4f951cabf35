package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/danielsoro/activemq/internal/codec"
	"github.com/danielsoro/activemq/internal/config"
	"github.com/danielsoro/activemq/internal/console"
	"github.com/danielsoro/activemq/internal/filter"
	"github.com/danielsoro/activemq/internal/kafka/browse"
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
	log := baseLogger.With().Str("service", "amq-browse").Logger()

	queries := os.Args[1:]
	if len(queries) == 0 {
		log.Fatal().Msg("usage: amq-browse <topic> [pattern...]")
	}

	decoder := codec.NewDecoder(log.With().Str("component", "codec").Logger())
	browser, err := browse.New(
		cfg.Kafka.Brokers,
		decoder,
		log.With().Str("component", "browser").Logger(),
		browse.WithLimit(cfg.Browse.Limit),
		browse.WithDrainTimeout(time.Duration(cfg.Browse.DrainTimeoutMs)*time.Millisecond),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka browser")
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka browser")
		}
	}()

	chain, err := buildChain(cfg, browser, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build query chain")
	}

	results, err := chain.Query(ctx, queries)
	if err != nil {
		log.Fatal().Err(err).Msg("query failed")
	}

	if err := console.NewPrinter(os.Stdout).Print(results); err != nil {
		log.Fatal().Err(err).Msg("failed to print results")
	}
	log.Info().Int("results", len(results)).Msg("browse complete")
}

func buildChain(cfg *config.Config, source filter.MessageSource, log zerolog.Logger) (filter.QueryFilter, error) {
	transformer := transform.NewMapTransformer(console.NewWriterSink(os.Stderr))

	messages, err := filter.NewMessageQueryFilter(source, log)
	if err != nil {
		return nil, err
	}

	var chain filter.QueryFilter
	chain, err = filter.NewMapTransformFilter(messages, transformer, log, filter.WithConcurrency(cfg.Query.Concurrency))
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
	logger.Fatal().Err(err).Str("stage", stage).Msg("amq-browse init failed")
}
