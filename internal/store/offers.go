package store

import (
	"context"

	"basket-service/internal/models"
)

const offerColumns = `id, type, product_id, product_ids, COALESCE(threshold, 0) AS threshold, value, created_at`

// GetActiveOffers retrieves active offers in the order they were created.
// Offer order matters: discounts accumulate in this order.
func (s *Store) GetActiveOffers(ctx context.Context) ([]models.OfferRecord, error) {
	offers := []models.OfferRecord{}
	err := s.db.SelectContext(ctx, &offers,
		"SELECT "+offerColumns+" FROM offers WHERE active ORDER BY id")
	return offers, err
}

// CreateOffer creates a new offer
func (s *Store) CreateOffer(ctx context.Context, offer *models.OfferRecord) error {
	query := `
		INSERT INTO offers (type, product_id, product_ids, threshold, value)
		VALUES ($1, $2, $3, NULLIF($4, 0), $5)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		offer.Type, offer.ProductID, offer.ProductIDs, offer.Threshold, offer.Value,
	).Scan(&offer.ID, &offer.CreatedAt)
}

// DeactivateOffer switches an offer off
func (s *Store) DeactivateOffer(ctx context.Context, offerID int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE offers SET active = FALSE WHERE id = $1", offerID)
	return err
}
