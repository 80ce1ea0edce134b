package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// ErrGroupStarted is returned when a running group is started again.
var ErrGroupStarted = errors.New("consumer group already started")

// Runnable is a component with a start/stop lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// topicReporter is implemented by consumers bound to a single topic.
type topicReporter interface {
	Topic() string
}

// ConsumerGroup runs the consumers reading from one subscriber, such as the
// journal consumer of link.created, and owns that subscriber.
type ConsumerGroup struct {
	mu         sync.Mutex
	consumers  []Runnable
	running    []Runnable
	subscriber message.Subscriber
	closed     bool
	logger     *zap.Logger
}

// NewConsumerGroup creates an empty group.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a consumer. It takes effect on the next Start.
func (g *ConsumerGroup) Add(consumer Runnable) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.consumers = append(g.consumers, consumer)
}

// Topics lists the topics of the registered consumers, in registration order.
func (g *ConsumerGroup) Topics() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	topics := make([]string, 0, len(g.consumers))
	for _, consumer := range g.consumers {
		topics = append(topics, topicOf(consumer))
	}

	return topics
}

// Start starts every consumer in registration order. If one fails, those
// already running are stopped again and the group can be started anew.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.running) > 0 {
		return ErrGroupStarted
	}

	for _, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			g.stopRunning()

			return fmt.Errorf("start consumer for %s: %w", topicOf(consumer), err)
		}

		g.running = append(g.running, consumer)
		g.logger.Debug("consumer started", zap.String("topic", topicOf(consumer)))
	}

	g.logger.Info("consumer group started", zap.Int("consumers", len(g.running)))

	return nil
}

// Shutdown stops the running consumers in reverse start order, then closes
// the subscriber. Later calls are no-ops.
func (g *ConsumerGroup) Shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}

	g.closed = true
	g.logger.Info("stopping consumer group", zap.Int("consumers", len(g.running)))

	errs := g.stopRunning()

	if err := g.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}

	return errors.Join(errs...)
}

func (g *ConsumerGroup) stopRunning() []error {
	var errs []error

	for i := len(g.running) - 1; i >= 0; i-- {
		consumer := g.running[i]
		if err := consumer.Shutdown(); err != nil {
			g.logger.Warn("consumer shutdown failed",
				zap.String("topic", topicOf(consumer)),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}

	g.running = nil

	return errs
}

func topicOf(consumer Runnable) string {
	if t, ok := consumer.(topicReporter); ok {
		return t.Topic()
	}

	return fmt.Sprintf("%T", consumer)
}
