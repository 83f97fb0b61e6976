// Package redis receives schema-evolution notifications from a Redis pub/sub channel.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/autoindex/internal/domain"
	domcol "github.com/kailas-cloud/autoindex/internal/domain/collection"
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
	"github.com/kailas-cloud/autoindex/internal/eventbus"
	"github.com/kailas-cloud/autoindex/internal/metrics"
)

// Publisher forwards decoded notifications.
type Publisher interface {
	Publish(ctx context.Context, source string, n domcol.Notification) error
}

// Config holds connection parameters for the pub/sub source.
type Config struct {
	Addrs    []string
	Password string
	Channel  string
}

// Message is the wire form of a notification on the channel.
type Message struct {
	Kind       string         `json:"kind"`
	Project    string         `json:"project"`
	Collection string         `json:"collection"`
	Fields     []MessageField `json:"fields"`
}

// MessageField is one field declaration inside a Message.
type MessageField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Subscriber relays channel messages to a Publisher, one at a time.
type Subscriber struct {
	client    rueidis.Client
	channel   string
	publisher Publisher
	logger    *zap.Logger
}

// NewSubscriber connects to Redis via rueidis.
func NewSubscriber(cfg Config, publisher Publisher, logger *zap.Logger) (*Subscriber, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.Channel == "" {
		return nil, fmt.Errorf("channel is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return newSubscriber(client, cfg.Channel, publisher, logger), nil
}

func newSubscriber(client rueidis.Client, channel string, publisher Publisher, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{
		client:    client,
		channel:   channel,
		publisher: publisher,
		logger:    logger.With(zap.String("channel", channel)),
	}
}

// Run subscribes and blocks until ctx is cancelled or the subscription breaks.
// Message failures are logged and never end the subscription.
func (s *Subscriber) Run(ctx context.Context) error {
	s.logger.Info("Subscribing to schema notifications")

	cmd := s.client.B().Subscribe().Channel(s.channel).Build()
	err := s.client.Receive(ctx, cmd, func(msg rueidis.PubSubMessage) {
		_ = s.Handle(ctx, msg.Message)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	return nil
}

// Handle decodes one payload and publishes it.
func (s *Subscriber) Handle(ctx context.Context, payload string) error {
	n, err := Decode([]byte(payload))
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("unknown", eventbus.SourceRedis, "rejected").Inc()
		s.logger.Warn("Rejected schema notification", zap.Error(err))
		return err
	}

	if err := s.publisher.Publish(ctx, eventbus.SourceRedis, n); err != nil {
		s.logger.Error("Schema notification failed",
			zap.String("notification_id", n.ID()),
			zap.String("project", n.Project()),
			zap.String("collection", n.Collection()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Ping checks connectivity.
func (s *Subscriber) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Subscriber) Close() {
	s.client.Close()
}

// Decode parses a channel payload into a validated Notification.
func Decode(payload []byte) (domcol.Notification, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return domcol.Notification{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}

	fields := make([]field.Field, 0, len(msg.Fields))
	for _, mf := range msg.Fields {
		f, err := field.New(mf.Name, field.Type(mf.Type))
		if err != nil {
			return domcol.Notification{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
		}
		fields = append(fields, f)
	}

	n, err := domcol.New(domcol.Kind(msg.Kind), msg.Project, msg.Collection, fields)
	if err != nil {
		return domcol.Notification{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	return n, nil
}
