// Package eventbus delivers schema-evolution notifications to subscribers synchronously.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/autoindex/internal/domain"
	domcol "github.com/kailas-cloud/autoindex/internal/domain/collection"
	"github.com/kailas-cloud/autoindex/internal/metrics"
)

// Notification sources used as the "source" metrics label.
const (
	SourceHTTP  = "http"
	SourceRedis = "redis"
)

// Handler reacts to one notification.
type Handler func(ctx context.Context, n domcol.Notification) error

type subscription struct {
	name string
	fn   Handler
}

// Bus dispatches each notification to every subscriber, in subscription order,
// on the publisher's goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *zap.Logger
}

// New creates an empty bus. logger may be nil.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{logger: logger}
}

// Subscribe registers h under name. Subscribing the same name twice replaces the handler.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.subs {
		if b.subs[i].name == name {
			b.subs[i].fn = h
			return
		}
	}
	b.subs = append(b.subs, subscription{name: name, fn: h})
}

// Subscribers returns the registered subscriber names in dispatch order.
func (b *Bus) Subscribers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, len(b.subs))
	for i, s := range b.subs {
		names[i] = s.name
	}
	return names
}

// Publish delivers n to every subscriber and joins their errors. A failing subscriber
// does not prevent later subscribers from running; the publisher decides whether the
// error aborts the triggering operation.
func (b *Bus) Publish(ctx context.Context, source string, n domcol.Notification) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	if len(subs) == 0 {
		metrics.NotificationsTotal.WithLabelValues(string(n.Kind()), source, "dropped").Inc()
		return domain.ErrNoSubscribers
	}

	var errs []error
	for _, s := range subs {
		if err := s.fn(ctx, n); err != nil {
			b.logger.Debug("Subscriber failed",
				zap.String("subscriber", s.name),
				zap.String("notification_id", n.ID()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}

	err := errors.Join(errs...)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.NotificationsTotal.WithLabelValues(string(n.Kind()), source, status).Inc()
	return err
}
