package usecases

import (
	"context"
	"log/slog"
	"time"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/infra/async"
)

const TopicFieldLifecycle async.BrokerTopicName = "field_lifecycle"

const (
	EventFieldCreated     = "field_created"
	EventFieldUpdated     = "field_updated"
	EventFieldPublished   = "field_published"
	EventFieldUnpublished = "field_unpublished"
	EventFieldDeleted     = "field_deleted"
	EventFieldMigrated    = "field_migrated"
)

// FieldEvent is broadcast on the internal broker whenever a field changes
// lifecycle state. The admin layer uses it to invalidate cached previews.
type FieldEvent struct {
	FieldID    domain.ID `json:"field_id"`
	ParentID   domain.ID `json:"parent_id"`
	Stage      string    `json:"stage,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// notifyLifecycle publishes a lifecycle event. Delivery is best effort: an
// empty subscriber set is not an error worth surfacing to the caller.
func notifyLifecycle(ctx context.Context, broker async.InternalBroker, event string, field domain.FieldDefinition, stage domain.Stage) {
	if broker == nil {
		return
	}

	err := broker.Publish(ctx, TopicFieldLifecycle, async.BrokerMessage{
		Event: event,
		Value: FieldEvent{
			FieldID:    field.ID,
			ParentID:   field.ParentID,
			Stage:      string(stage),
			OccurredAt: time.Now(),
		},
	})
	if err != nil {
		slog.Debug("field lifecycle event not delivered",
			slog.String("event", event),
			slog.String("field_id", field.ID.String()))
	}
}
