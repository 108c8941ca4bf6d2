package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"basket-service/internal/models"
	"basket-service/internal/pricing"
	"basket-service/internal/redisclient"
	"basket-service/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrCatalogueUnavailable is returned when neither the cache nor the source
// can provide a catalogue.
var ErrCatalogueUnavailable = errors.New("catalogue unavailable")

const (
	fillLockKey     = "catalogue-fill"
	fillLockTTL     = 5 * time.Second
	processedTTL    = 24 * time.Hour
	defaultFillWait = 50 * time.Millisecond
)

// CatalogueSource loads products and offer records from their system of record
type CatalogueSource interface {
	LoadCatalogue(ctx context.Context) (*models.Catalogue, error)
}

// CatalogueEventPublisher publishes catalogue change notifications
type CatalogueEventPublisher interface {
	PublishCatalogueUpdated(ctx context.Context, event *models.CatalogueUpdatedEvent) error
}

// Snapshot is a decoded, ready-to-price view of the catalogue
type Snapshot struct {
	Products []models.Product
	Offers   []pricing.Offer
	Records  []models.OfferRecord
}

// CatalogueService serves catalogue snapshots through a Redis cache
type CatalogueService struct {
	source    CatalogueSource
	cache     *redisclient.Client
	publisher CatalogueEventPublisher
	writer    CatalogueWriter
	ttl       time.Duration
	fillWait  time.Duration
	logger    *zap.Logger
}

// NewCatalogueService creates a new catalogue service. cache and publisher may be nil.
func NewCatalogueService(
	source CatalogueSource,
	cache *redisclient.Client,
	publisher CatalogueEventPublisher,
	ttl time.Duration,
) *CatalogueService {
	return &CatalogueService{
		source:    source,
		cache:     cache,
		publisher: publisher,
		ttl:       ttl,
		fillWait:  defaultFillWait,
		logger:    util.GetLogger(),
	}
}

// Snapshot returns the current catalogue with its offers decoded
func (s *CatalogueService) Snapshot(ctx context.Context) (*Snapshot, error) {
	ctx, span := util.StartSpan(ctx, "CatalogueService.Snapshot")
	defer span.End()

	cat, fromSource, err := s.load(ctx)
	if err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	offers, decodeErr := pricing.DecodeOffers(cat.Offers)
	if decodeErr != nil && fromSource {
		for _, e := range multierr.Errors(decodeErr) {
			s.logger.Warn("Skipping offer", zap.Error(e))
			util.OffersSkippedTotal.WithLabelValues(skipReason(e)).Inc()
		}
	}

	span.SetAttributes(
		attribute.Int("catalogue.products", len(cat.Products)),
		attribute.Int("catalogue.offers", len(offers)),
		attribute.Bool("catalogue.from_source", fromSource),
	)

	return &Snapshot{
		Products: cat.Products,
		Offers:   offers,
		Records:  cat.Offers,
	}, nil
}

// load reads the catalogue from cache, falling back to the source. It reports
// whether the source was read.
func (s *CatalogueService) load(ctx context.Context) (*models.Catalogue, bool, error) {
	if s.cache == nil {
		cat, err := s.loadSource(ctx)
		return cat, true, err
	}

	if cat := s.cached(ctx); cat != nil {
		return cat, false, nil
	}

	locked, err := s.cache.AcquireLock(ctx, fillLockKey, fillLockTTL)
	if err != nil {
		s.logger.Warn("Failed to acquire catalogue fill lock", zap.Error(err))
	}
	if err == nil && !locked {
		// another instance is filling the cache
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(s.fillWait):
		}
		if cat := s.cached(ctx); cat != nil {
			return cat, false, nil
		}
	}
	if locked {
		defer func() {
			if err := s.cache.ReleaseLock(ctx, fillLockKey); err != nil {
				s.logger.Warn("Failed to release catalogue fill lock", zap.Error(err))
			}
		}()
	}

	cat, err := s.loadSource(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.SetCatalogue(ctx, cat, s.ttl); err != nil {
		s.logger.Warn("Failed to cache catalogue", zap.Error(err))
	}
	return cat, true, nil
}

func (s *CatalogueService) cached(ctx context.Context) *models.Catalogue {
	cat, err := s.cache.GetCatalogue(ctx)
	switch {
	case err != nil:
		util.CatalogueCacheRequests.WithLabelValues("error").Inc()
		s.logger.Warn("Catalogue cache read failed", zap.Error(err))
		return nil
	case cat == nil:
		util.CatalogueCacheRequests.WithLabelValues("miss").Inc()
		return nil
	default:
		util.CatalogueCacheRequests.WithLabelValues("hit").Inc()
		return cat
	}
}

func (s *CatalogueService) loadSource(ctx context.Context) (*models.Catalogue, error) {
	cat, err := s.source.LoadCatalogue(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueUnavailable, err)
	}
	s.logger.Debug("Catalogue loaded from source",
		zap.Int("products", len(cat.Products)),
		zap.Int("offers", len(cat.Offers)))
	return cat, nil
}

// Refresh drops the cached catalogue and tells other instances to do the same
func (s *CatalogueService) Refresh(ctx context.Context, reason string) error {
	ctx, span := util.StartSpan(ctx, "CatalogueService.Refresh")
	defer span.End()

	util.CatalogueRefreshTotal.Inc()

	event := &models.CatalogueUpdatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCatalogueUpdated,
			Timestamp: time.Now(),
		},
		Reason: reason,
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCatalogue(ctx); err != nil {
			util.RecordError(span, err)
			return fmt.Errorf("failed to invalidate catalogue cache: %w", err)
		}
		// our own worker will see this event too
		if err := s.cache.SetIdempotencyKey(ctx, event.EventID, "1", processedTTL); err != nil {
			s.logger.Warn("Failed to mark catalogue event processed", zap.Error(err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCatalogueUpdated(ctx, event); err != nil {
			s.logger.Error("Failed to publish CatalogueUpdated event", zap.Error(err))
		}
	}

	s.logger.Info("Catalogue refreshed",
		zap.String("event_id", event.EventID),
		zap.String("reason", reason))
	return nil
}

// HandleCatalogueUpdated invalidates the cache once per event
func (s *CatalogueService) HandleCatalogueUpdated(ctx context.Context, event *models.CatalogueUpdatedEvent) error {
	ctx, span := util.StartSpan(ctx, "CatalogueService.HandleCatalogueUpdated",
		attribute.String("event.id", event.EventID))
	defer span.End()

	if s.cache == nil {
		util.CatalogueEventsTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	processed, err := s.cache.CheckIdempotencyKey(ctx, event.EventID)
	if err != nil {
		util.RecordError(span, err)
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		util.CatalogueEventsTotal.WithLabelValues("duplicate").Inc()
		s.logger.Debug("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	if err := s.cache.InvalidateCatalogue(ctx); err != nil {
		util.CatalogueEventsTotal.WithLabelValues("failed").Inc()
		util.RecordError(span, err)
		return fmt.Errorf("failed to invalidate catalogue cache: %w", err)
	}

	if err := s.cache.SetIdempotencyKey(ctx, event.EventID, "1", processedTTL); err != nil {
		s.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	util.CatalogueEventsTotal.WithLabelValues("invalidated").Inc()
	s.logger.Info("Catalogue cache invalidated",
		zap.String("event_id", event.EventID),
		zap.String("reason", event.Reason))
	return nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, pricing.ErrUnknownOfferType):
		return "unknown_type"
	case errors.Is(err, pricing.ErrInvalidThreshold):
		return "invalid_threshold"
	case errors.Is(err, pricing.ErrInvalidPercent):
		return "invalid_percent"
	case errors.Is(err, pricing.ErrMissingProduct):
		return "missing_product"
	default:
		return "other"
	}
}
