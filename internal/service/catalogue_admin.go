package service

import (
	"context"
	"errors"
	"fmt"

	"basket-service/internal/models"
	"basket-service/internal/pricing"
	"basket-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrCatalogueReadOnly is returned when the catalogue source cannot be written
	ErrCatalogueReadOnly = errors.New("catalogue is read-only")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidOffer      = errors.New("invalid offer")
)

// CatalogueWriter persists catalogue changes
type CatalogueWriter interface {
	UpsertProduct(ctx context.Context, product *models.Product) error
	CreateOffer(ctx context.Context, offer *models.OfferRecord) error
	DeactivateOffer(ctx context.Context, offerID int64) error
}

// WithWriter enables catalogue edits through w
func (s *CatalogueService) WithWriter(w CatalogueWriter) *CatalogueService {
	s.writer = w
	return s
}

// UpsertProduct creates or updates a product and refreshes the catalogue
func (s *CatalogueService) UpsertProduct(ctx context.Context, product *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogueService.UpsertProduct")
	defer span.End()

	if s.writer == nil {
		return ErrCatalogueReadOnly
	}
	if product.ID <= 0 || product.Name == "" {
		return fmt.Errorf("%w: id and name are required", ErrInvalidProduct)
	}
	if product.Price.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: negative price %s", ErrInvalidProduct, product.Price)
	}

	if err := s.writer.UpsertProduct(ctx, product); err != nil {
		util.RecordError(span, err)
		return fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("Product saved",
		zap.Int64("product_id", product.ID),
		zap.String("price", product.Price.StringFixed(2)))
	return s.Refresh(ctx, fmt.Sprintf("product %d updated", product.ID))
}

// CreateOffer validates and stores a new offer, then refreshes the catalogue
func (s *CatalogueService) CreateOffer(ctx context.Context, offer *models.OfferRecord) error {
	ctx, span := util.StartSpan(ctx, "CatalogueService.CreateOffer")
	defer span.End()

	if s.writer == nil {
		return ErrCatalogueReadOnly
	}
	if _, err := pricing.DecodeOffer(*offer); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOffer, err)
	}

	if err := s.writer.CreateOffer(ctx, offer); err != nil {
		util.RecordError(span, err)
		return fmt.Errorf("failed to save offer: %w", err)
	}

	s.logger.Info("Offer created",
		zap.Int64("offer_id", offer.ID),
		zap.String("type", offer.Type))
	return s.Refresh(ctx, fmt.Sprintf("offer %d created", offer.ID))
}

// DeactivateOffer switches an offer off and refreshes the catalogue
func (s *CatalogueService) DeactivateOffer(ctx context.Context, offerID int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogueService.DeactivateOffer")
	defer span.End()

	if s.writer == nil {
		return ErrCatalogueReadOnly
	}

	if err := s.writer.DeactivateOffer(ctx, offerID); err != nil {
		util.RecordError(span, err)
		return fmt.Errorf("failed to deactivate offer: %w", err)
	}

	s.logger.Info("Offer deactivated", zap.Int64("offer_id", offerID))
	return s.Refresh(ctx, fmt.Sprintf("offer %d deactivated", offerID))
}
