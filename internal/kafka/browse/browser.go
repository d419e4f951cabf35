// Package browse reads a bounded window of records from broker topics
// without committing offsets, decoding each into a queued-message
// candidate for the query pipeline.
package browse

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

const (
	defaultLimit = 100
	defaultDrain = 3 * time.Second
)

// Decoder turns one record payload into a queued-message candidate.
type Decoder interface {
	Decode(payload []byte, recordTime time.Time) (any, error)
}

// Option customises the browser during construction.
type Option func(*Browser)

// WithLimit caps how many candidates a single browse returns per topic.
func WithLimit(limit int) Option {
	return func(b *Browser) {
		if limit > 0 {
			b.limit = limit
		}
	}
}

// WithDrainTimeout bounds how long the browser waits for further records
// on a partition before considering it drained.
func WithDrainTimeout(timeout time.Duration) Option {
	return func(b *Browser) {
		if timeout > 0 {
			b.drainTimeout = timeout
		}
	}
}

// Browser is a non-committing topic reader. Unlike a consumer-group
// subscription, a browse is a one-shot bounded read from the oldest
// offset that leaves the stored offsets untouched.
type Browser struct {
	logger       zerolog.Logger
	consumer     sarama.Consumer
	decoder      Decoder
	limit        int
	drainTimeout time.Duration
}

// New constructs a browser connected to the given brokers.
func New(brokers []string, decoder Decoder, logger zerolog.Logger, opts ...Option) (*Browser, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka browse: at least one broker is required")
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Return.Errors = false
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumer, err := sarama.NewConsumer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka browse: create consumer: %w", err)
	}
	return NewFromConsumer(consumer, decoder, logger, opts...)
}

// NewFromConsumer constructs a browser over an existing consumer. The
// browser takes ownership of the consumer and closes it on Close.
func NewFromConsumer(consumer sarama.Consumer, decoder Decoder, logger zerolog.Logger, opts ...Option) (*Browser, error) {
	if consumer == nil {
		return nil, errors.New("kafka browse: consumer is required")
	}
	if decoder == nil {
		return nil, errors.New("kafka browse: decoder is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	b := &Browser{
		logger:       logger.With().Str("component", "kafka_browser").Logger(),
		consumer:     consumer,
		decoder:      decoder,
		limit:        defaultLimit,
		drainTimeout: defaultDrain,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

// Messages implements filter.MessageSource: every query string names a
// topic to browse.
func (b *Browser) Messages(ctx context.Context, destinations []string) ([]any, error) {
	var out []any
	for _, topic := range destinations {
		candidates, err := b.browseTopic(ctx, topic)
		if err != nil {
			return nil, err
		}
		out = append(out, candidates...)
	}
	return out, nil
}

func (b *Browser) browseTopic(ctx context.Context, topic string) ([]any, error) {
	partitions, err := b.consumer.Partitions(topic)
	if err != nil {
		return nil, fmt.Errorf("kafka browse: partitions of %q: %w", topic, err)
	}

	var out []any
	for _, partition := range partitions {
		if len(out) >= b.limit {
			break
		}
		pc, err := b.consumer.ConsumePartition(topic, partition, sarama.OffsetOldest)
		if err != nil {
			return nil, fmt.Errorf("kafka browse: consume %q/%d: %w", topic, partition, err)
		}

		out, err = b.drain(ctx, pc, out)
		pc.AsyncClose()
		if err != nil {
			return nil, err
		}
	}

	b.logger.Debug().Str("topic", topic).Int("candidates", len(out)).Msg("kafka browse: topic drained")
	return out, nil
}

func (b *Browser) drain(ctx context.Context, pc sarama.PartitionConsumer, out []any) ([]any, error) {
	timer := time.NewTimer(b.drainTimeout)
	defer timer.Stop()

	for len(out) < b.limit {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return out, nil
		case m, ok := <-pc.Messages():
			if !ok {
				return out, nil
			}
			candidate, err := b.decoder.Decode(m.Value, m.Timestamp)
			if err != nil {
				b.logger.Warn().
					Str("topic", m.Topic).
					Int32("partition", m.Partition).
					Int64("offset", m.Offset).
					Err(err).
					Msg("kafka browse: skipping undecodable record")
				continue
			}
			out = append(out, candidate)

			// High water mark is unknown until the first fetch response.
			if hwm := pc.HighWaterMarkOffset(); hwm > 0 && m.Offset+1 >= hwm {
				return out, nil
			}
		}
	}
	return out, nil
}

// Close shuts down the underlying consumer.
func (b *Browser) Close() error {
	return b.consumer.Close()
}
