package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/puzzle-link/internal/events"
	"github.com/serroba/puzzle-link/internal/messaging"
	"go.uber.org/zap"
)

// journalConsumerGroup is the Redis stream consumer group of the journal.
const journalConsumerGroup = "link-journal"

// MessagingPackage provides the link.created publish function for Options.Events.
// With events disabled no broker is touched.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			messaging.NewZapLogger(logger),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		switch options.Events {
		case EventsMemory:
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		case EventsRedis:
			publisher, err := redisstream.NewPublisher(
				redisstream.PublisherConfig{
					Client:     do.MustInvoke[*RedisClient](i).Client,
					Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
				},
				messaging.NewZapLogger(logger),
			)
			if err != nil {
				return nil, fmt.Errorf("redis stream publisher: %w", err)
			}

			return messaging.NewPublisherGroup(publisher), nil
		default:
			return nil, fmt.Errorf("events %q have no publisher", options.Events)
		}
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[events.LinkCreatedEvent], error) {
		options := do.MustInvoke[*Options](i)

		if options.Events == EventsNone || options.Events == "" {
			return messaging.NopPublish[events.LinkCreatedEvent](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[events.LinkCreatedEvent](group.Publisher(), events.TopicLinkCreated), nil
	})
}

// ConsumerPackage provides the consumer group that journals created records.
func ConsumerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		switch options.Events {
		case EventsMemory:
			return do.MustInvoke[*gochannel.GoChannel](i), nil
		case EventsRedis:
			subscriber, err := redisstream.NewSubscriber(
				redisstream.SubscriberConfig{
					Client:        do.MustInvoke[*RedisClient](i).Client,
					Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
					ConsumerGroup: journalConsumerGroup,
				},
				messaging.NewZapLogger(logger),
			)
			if err != nil {
				return nil, fmt.Errorf("redis stream subscriber: %w", err)
			}

			return subscriber, nil
		default:
			return nil, fmt.Errorf("events %q have no subscriber", options.Events)
		}
	})

	do.Provide(injector, func(i *do.Injector) (*events.Journal, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return events.OpenJournal(options.JournalPath, logger)
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := do.Invoke[message.Subscriber](i)
		if err != nil {
			return nil, err
		}

		journal, err := do.Invoke[*events.Journal](i)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer[events.LinkCreatedEvent](
			subscriber,
			events.TopicLinkCreated,
			journal.Append,
			logger,
		))

		return group, nil
	})
}
