// Package admin exposes broker destinations as administrative beans:
// each topic becomes an ObjectInstance whose attribute list reflects the
// destination's current metadata and configuration.
package admin

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/danielsoro/activemq/internal/mbean"
)

const defaultDomain = "kafka"

// Admin is the slice of sarama.ClusterAdmin this source depends on.
type Admin interface {
	ListTopics() (map[string]sarama.TopicDetail, error)
	DescribeConfig(resource sarama.ConfigResource) ([]sarama.ConfigEntry, error)
	Close() error
}

// Option customises the source during construction.
type Option func(*Source)

// WithDomain overrides the object-name domain used for bean identities.
func WithDomain(domain string) Option {
	return func(s *Source) {
		if domain != "" {
			s.domain = domain
		}
	}
}

// Source lists destination beans and resolves their attribute lists.
type Source struct {
	logger zerolog.Logger
	admin  Admin
	domain string
}

// New constructs a source connected to the given brokers.
func New(brokers []string, logger zerolog.Logger, opts ...Option) (*Source, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka admin: at least one broker is required")
	}
	admin, err := sarama.NewClusterAdmin(brokers, sarama.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka admin: create cluster admin: %w", err)
	}
	return NewFromAdmin(admin, logger, opts...)
}

// NewFromAdmin constructs a source over an existing admin client. The
// source takes ownership of the client and closes it on Close.
func NewFromAdmin(admin Admin, logger zerolog.Logger, opts ...Option) (*Source, error) {
	if admin == nil {
		return nil, errors.New("kafka admin: admin client is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	s := &Source{
		logger: logger.With().Str("component", "kafka_admin").Logger(),
		admin:  admin,
		domain: defaultDomain,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Beans implements filter.BeanSource: it lists destinations as
// ObjectInstances, restricted to the queried names when queries are
// given. Results are ordered by destination name.
func (s *Source) Beans(ctx context.Context, queries []string) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topics, err := s.admin.ListTopics()
	if err != nil {
		return nil, fmt.Errorf("kafka admin: list topics: %w", err)
	}

	wanted := make(map[string]struct{}, len(queries))
	for _, q := range queries {
		wanted[q] = struct{}{}
	}

	names := make([]string, 0, len(topics))
	for name := range topics {
		if len(wanted) > 0 {
			if _, ok := wanted[name]; !ok {
				continue
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	beans := make([]any, 0, len(names))
	for _, name := range names {
		beans = append(beans, mbean.ObjectInstance{
			Name: mbean.NewObjectName(s.domain,
				mbean.KeyProperty{Key: "Type", Value: "Destination"},
				mbean.KeyProperty{Key: "Destination", Value: name},
			),
			Class: "kafka.Topic",
		})
	}

	s.logger.Debug().Int("beans", len(beans)).Msg("kafka admin: listed destination beans")
	return beans, nil
}

// Attributes implements filter.AttributeSource for a destination bean.
// view limits the returned attributes by name; empty means all.
func (s *Source) Attributes(ctx context.Context, name mbean.ObjectName, view []string) (mbean.AttributeList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topic, ok := name.KeyProperty("Destination")
	if !ok {
		return nil, fmt.Errorf("kafka admin: %s has no Destination component", name.String())
	}

	topics, err := s.admin.ListTopics()
	if err != nil {
		return nil, fmt.Errorf("kafka admin: list topics: %w", err)
	}
	detail, ok := topics[topic]
	if !ok {
		return nil, fmt.Errorf("kafka admin: destination %q not found", topic)
	}

	list := mbean.AttributeList{
		{Name: "Partitions", Value: detail.NumPartitions},
		{Name: "ReplicationFactor", Value: detail.ReplicationFactor},
	}

	entries, err := s.admin.DescribeConfig(sarama.ConfigResource{
		Type: sarama.TopicResource,
		Name: topic,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka admin: describe config of %q: %w", topic, err)
	}
	for _, entry := range entries {
		list = append(list, mbean.Attribute{Name: entry.Name, Value: entry.Value})
	}

	if len(view) == 0 {
		return list, nil
	}
	keep := make(map[string]struct{}, len(view))
	for _, name := range view {
		keep[name] = struct{}{}
	}
	filtered := make(mbean.AttributeList, 0, len(view))
	for _, attr := range list {
		if _, ok := keep[attr.Name]; ok {
			filtered = append(filtered, attr)
		}
	}
	return filtered, nil
}

// Close shuts down the underlying admin client.
func (s *Source) Close() error {
	return s.admin.Close()
}
