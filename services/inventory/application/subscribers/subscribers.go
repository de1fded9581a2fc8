// Package subscribers reacts to inventory events after their transaction
// commits. Handlers never fail a message; a Nack would redeliver forever.
package subscribers

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/treasuretrove/ledger/pkg/events"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/telemetry"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
	domainevents "github.com/treasuretrove/ledger/services/inventory/domain/events"
)

// Topics lists every topic Register subscribes to.
var Topics = []string{domainevents.TopicInventoryRecorded, domainevents.TopicContainerCreated}

// Register subscribes the inventory handlers on bus until ctx is cancelled.
func Register(ctx context.Context, bus *events.EventBus, svc *appsvcs.Services, log logger.Logger) error {
	handlers := map[string]func(context.Context, *message.Message) error{
		domainevents.TopicInventoryRecorded: handleInventoryRecorded(svc.Inventory, log),
		domainevents.TopicContainerCreated:  handleContainerCreated(svc.Inventory, log),
	}

	for _, topic := range Topics {
		errCh, err := bus.Subscribe(ctx, topic, handlers[topic])
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	log.Info("event subscribers registered", "topics", Topics)
	return nil
}

// handleInventoryRecorded prints the submission's label.
// Redeliveries reuse the submission id as the print key.
func handleInventoryRecorded(svc *appsvcs.InventoryService, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt domainevents.InventoryRecordedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			log.ErrorContext(ctx, "dropping malformed inventory.recorded", "message_uuid", msg.UUID, "error", err)
			return nil
		}

		if err := svc.PrintRecorded(ctx, evt); err != nil {
			log.ErrorContext(ctx, "label not printed",
				"submission_id", evt.SubmissionID,
				"items", len(evt.Items),
				"error", err,
			)
			telemetry.CaptureError(ctx, err, map[string]string{
				"topic":         domainevents.TopicInventoryRecorded,
				"submission_id": evt.SubmissionID.String(),
			})
			return nil
		}
		return nil
	}
}

// handleContainerCreated drops the cached container list. A failed
// invalidation heals when the cache entry expires.
func handleContainerCreated(svc *appsvcs.InventoryService, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt domainevents.ContainerCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			log.ErrorContext(ctx, "dropping malformed container.created", "message_uuid", msg.UUID, "error", err)
			return nil
		}

		if err := svc.InvalidateContainers(ctx); err != nil {
			log.WarnContext(ctx, "container cache not invalidated", "container_id", evt.ContainerID, "error", err)
			return nil
		}
		log.DebugContext(ctx, "container cache invalidated", "container_id", evt.ContainerID, "name", evt.Name)
		return nil
	}
}
