package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"basket-service/internal/models"
	"basket-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer       *Producer
	basketTopic    string
	catalogueTopic string
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer, basketTopic, catalogueTopic string) *EventPublisher {
	return &EventPublisher{
		producer:       producer,
		basketTopic:    basketTopic,
		catalogueTopic: catalogueTopic,
	}
}

// PublishBasketPriced publishes BasketPriced event
func (ep *EventPublisher) PublishBasketPriced(ctx context.Context, event *models.BasketPricedEvent) error {
	key := fmt.Sprintf("basket-%s", event.RequestID)
	return ep.producer.PublishEvent(ctx, ep.basketTopic, key, event.EventType, event)
}

// PublishCatalogueUpdated publishes CatalogueUpdated event
func (ep *EventPublisher) PublishCatalogueUpdated(ctx context.Context, event *models.CatalogueUpdatedEvent) error {
	return ep.producer.PublishEvent(ctx, ep.catalogueTopic, "catalogue", event.EventType, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onCatalogueUpdated func(context.Context, *models.CatalogueUpdatedEvent) error
	logger             *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnCatalogueUpdated registers a handler for CatalogueUpdated events
func (eh *EventHandler) OnCatalogueUpdated(handler func(context.Context, *models.CatalogueUpdatedEvent) error) {
	eh.onCatalogueUpdated = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	eventType := EventType(msg)
	if eventType == "" {
		var baseEvent models.BaseEvent
		if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
			return fmt.Errorf("failed to unmarshal base event: %w", err)
		}
		eventType = baseEvent.EventType
	}

	eh.logger.Debug("Handling event", zap.String("type", eventType))

	switch eventType {
	case models.EventTypeCatalogueUpdated:
		if eh.onCatalogueUpdated != nil {
			var event models.CatalogueUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CatalogueUpdated event: %w", err)
			}
			return eh.onCatalogueUpdated(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", eventType))
	}

	return nil
}
