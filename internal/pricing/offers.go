package pricing

import (
	"errors"
	"fmt"

	"basket-service/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var (
	// ErrUnknownOfferType is returned for offer records with an unrecognised type tag.
	ErrUnknownOfferType = errors.New("unknown offer type")
	// ErrInvalidThreshold is returned when a multibuy or cheapest-free threshold is below 1.
	ErrInvalidThreshold = errors.New("offer threshold must be at least 1")
	// ErrInvalidPercent is returned when a discount is outside 0-100.
	ErrInvalidPercent = errors.New("offer percent must be between 0 and 100")
	// ErrMissingProduct is returned when an offer does not name the product(s) it targets.
	ErrMissingProduct = errors.New("offer has no product")
)

var hundred = decimal.NewFromInt(100)

// Offer is a promotional rule. The set of implementations is closed:
// PercentOff, Multibuy and CheapestFree.
type Offer interface {
	Label() string
	isOffer()
}

// PercentOff takes Percent off the extended price of one product's lines.
type PercentOff struct {
	ProductID int64
	Percent   decimal.Decimal
}

// Multibuy makes one unit free for every Threshold units of a product.
type Multibuy struct {
	ProductID int64
	Threshold int
}

// CheapestFree groups units across ProductIDs in runs of Threshold and
// makes the cheapest unit of each full group free.
type CheapestFree struct {
	ProductIDs []int64
	Threshold  int
}

func (PercentOff) isOffer()   {}
func (Multibuy) isOffer()     {}
func (CheapestFree) isOffer() {}

// Label returns the shopper-facing description of the offer
func (o PercentOff) Label() string {
	return o.Percent.String() + "% off"
}

// Label returns the shopper-facing description of the offer
func (o Multibuy) Label() string {
	return fmt.Sprintf("Buy %d get 1 free", o.Threshold-1)
}

// Label returns the shopper-facing description of the offer
func (o CheapestFree) Label() string {
	return fmt.Sprintf("Buy %d get cheapest free", o.Threshold)
}

func (o CheapestFree) includes(productID int64) bool {
	for _, id := range o.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// DecodeOffer converts a stored offer record into an Offer.
func DecodeOffer(rec models.OfferRecord) (Offer, error) {
	switch rec.Type {
	case models.OfferTypeDiscount:
		if rec.ProductID == nil {
			return nil, ErrMissingProduct
		}
		pct := rec.Value.Decimal
		if !rec.Value.Valid || pct.IsNegative() || pct.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPercent, pct.String())
		}
		return PercentOff{ProductID: *rec.ProductID, Percent: pct}, nil

	case models.OfferTypeMultibuy:
		if rec.ProductID == nil {
			return nil, ErrMissingProduct
		}
		if rec.Threshold < 1 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, rec.Threshold)
		}
		return Multibuy{ProductID: *rec.ProductID, Threshold: rec.Threshold}, nil

	case models.OfferTypeCheapest:
		if len(rec.ProductIDs) == 0 {
			return nil, ErrMissingProduct
		}
		if rec.Threshold < 1 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, rec.Threshold)
		}
		ids := make([]int64, len(rec.ProductIDs))
		copy(ids, rec.ProductIDs)
		return CheapestFree{ProductIDs: ids, Threshold: rec.Threshold}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOfferType, rec.Type)
	}
}

// DecodeOffers decodes every record it can. Records that fail are skipped and
// their errors combined into the returned error; the offers are usable either way.
func DecodeOffers(records []models.OfferRecord) ([]Offer, error) {
	offers := make([]Offer, 0, len(records))
	var errs error
	for i, rec := range records {
		offer, err := DecodeOffer(rec)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("offer %d (id=%d): %w", i, rec.ID, err))
			continue
		}
		offers = append(offers, offer)
	}
	return offers, errs
}
