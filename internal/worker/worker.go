package worker

import (
	"context"

	"basket-service/internal/broker"
	"basket-service/internal/models"
	"basket-service/internal/util"

	"go.uber.org/zap"
)

// CatalogueEventHandler reacts to catalogue changes published by any instance
type CatalogueEventHandler interface {
	HandleCatalogueUpdated(ctx context.Context, event *models.CatalogueUpdatedEvent) error
}

// CatalogueWorker keeps the local view of the catalogue fresh
type CatalogueWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewCatalogueWorker creates a new catalogue worker
func NewCatalogueWorker(consumer *broker.Consumer, handler CatalogueEventHandler) *CatalogueWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnCatalogueUpdated(handler.HandleCatalogueUpdated)

	return &CatalogueWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start starts the worker
func (w *CatalogueWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting catalogue worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CatalogueWorker) Stop() error {
	w.logger.Info("Stopping catalogue worker")
	return w.consumer.Close()
}
