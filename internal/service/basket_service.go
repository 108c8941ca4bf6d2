package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"basket-service/internal/basket"
	"basket-service/internal/models"
	"basket-service/internal/pricing"
	"basket-service/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrInvalidBasket is returned for baskets outside the configured limits
var ErrInvalidBasket = errors.New("invalid basket")

// CatalogueProvider supplies the catalogue a basket is priced against
type CatalogueProvider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// BasketEventPublisher publishes priced-basket notifications
type BasketEventPublisher interface {
	PublishBasketPriced(ctx context.Context, event *models.BasketPricedEvent) error
}

// BasketLimits bounds the size of a basket accepted for pricing
type BasketLimits struct {
	MaxLines        int
	MaxLineQuantity int
}

// BasketService prices and edits baskets
type BasketService struct {
	catalogue CatalogueProvider
	publisher BasketEventPublisher
	limits    BasketLimits
	logger    *zap.Logger
}

// NewBasketService creates a new basket service. publisher may be nil.
func NewBasketService(catalogue CatalogueProvider, publisher BasketEventPublisher, limits BasketLimits) *BasketService {
	return &BasketService{
		catalogue: catalogue,
		publisher: publisher,
		limits:    limits,
		logger:    util.GetLogger(),
	}
}

// LineRequest represents a basket line in a request
type LineRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// PriceBasketRequest represents a request to price a basket
type PriceBasketRequest struct {
	Items     []LineRequest `json:"items" binding:"dive"`
	RequestID string        `json:"request_id,omitempty"`
}

// ModifyBasketRequest adds or removes units of one product, or empties the basket
type ModifyBasketRequest struct {
	Items     []LineRequest `json:"items" binding:"dive"`
	ProductID int64         `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Clear     bool          `json:"clear"`
	RequestID string        `json:"request_id,omitempty"`
}

// PricedBasket is the result of pricing a basket
type PricedBasket struct {
	RequestID       string
	Items           []models.BasketLine
	Quote           pricing.Quote
	UnknownProducts []int64
}

// Price prices the basket against the current catalogue
func (s *BasketService) Price(ctx context.Context, req *PriceBasketRequest) (*PricedBasket, error) {
	ctx, span := util.StartSpan(ctx, "BasketService.Price",
		attribute.Int("basket.lines", len(req.Items)))
	defer span.End()

	lines := toBasketLines(req.Items)
	if err := s.validate(lines); err != nil {
		return nil, err
	}

	snap, err := s.catalogue.Snapshot(ctx)
	if err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	return s.price(ctx, snap, requestID(req.RequestID), lines), nil
}

// Modify applies a quantity change (or clears the basket) and prices the result
func (s *BasketService) Modify(ctx context.Context, req *ModifyBasketRequest) (*PricedBasket, error) {
	ctx, span := util.StartSpan(ctx, "BasketService.Modify",
		attribute.Int64("basket.product_id", req.ProductID),
		attribute.Int("basket.delta", req.Quantity),
		attribute.Bool("basket.clear", req.Clear))
	defer span.End()

	lines := toBasketLines(req.Items)
	if err := s.validate(lines); err != nil {
		return nil, err
	}

	snap, err := s.catalogue.Snapshot(ctx)
	if err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	if req.Clear {
		lines = basket.Clear()
	} else {
		lines = basket.Modify(lines, snap.Products, req.ProductID, req.Quantity)
		if err := s.validate(lines); err != nil {
			return nil, err
		}
	}

	return s.price(ctx, snap, requestID(req.RequestID), lines), nil
}

func (s *BasketService) price(ctx context.Context, snap *Snapshot, reqID string, lines []models.BasketLine) *PricedBasket {
	start := time.Now()
	quote := pricing.Price(snap.Products, snap.Offers, lines)
	util.BasketPricingLatency.Observe(time.Since(start).Seconds())

	unknown := quote.UnknownProducts()
	if len(unknown) > 0 {
		util.BasketLinesUnknownProduct.Add(float64(len(unknown)))
		s.logger.Warn("Basket references unknown products",
			zap.String("request_id", reqID),
			zap.Int64s("product_ids", unknown))
	}

	util.BasketsPricedTotal.Inc()
	discount, _ := quote.Totals.DiscountTotal.Float64()
	util.BasketDiscountAmount.Observe(discount)

	s.logger.Debug("Basket priced",
		zap.String("request_id", reqID),
		zap.Int("lines", len(lines)),
		zap.String("subtotal", quote.Totals.Subtotal.StringFixed(2)),
		zap.String("discount", quote.Totals.DiscountTotal.StringFixed(2)),
		zap.String("total", quote.Totals.Total.StringFixed(2)))

	s.publishPriced(ctx, reqID, quote)

	return &PricedBasket{
		RequestID:       reqID,
		Items:           lines,
		Quote:           quote,
		UnknownProducts: unknown,
	}
}

func (s *BasketService) publishPriced(ctx context.Context, reqID string, quote pricing.Quote) {
	if s.publisher == nil {
		return
	}

	lineData := make([]models.PricedLineData, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		data := models.PricedLineData{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			DiscountLabel: line.DiscountLabel,
		}
		if line.ExtendedPrice.Valid {
			data.ExtendedPrice = line.ExtendedPrice.Decimal.StringFixed(2)
		}
		if line.DiscountAmount.Valid {
			data.DiscountAmount = line.DiscountAmount.Decimal.StringFixed(2)
		}
		lineData = append(lineData, data)
	}

	event := &models.BasketPricedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBasketPriced,
			Timestamp: time.Now(),
		},
		RequestID:     reqID,
		Lines:         lineData,
		Subtotal:      quote.Totals.Subtotal.StringFixed(2),
		DiscountTotal: quote.Totals.DiscountTotal.StringFixed(2),
		Total:         quote.Totals.Total.StringFixed(2),
		ItemCount:     quote.Totals.ItemCount,
	}

	if err := s.publisher.PublishBasketPriced(ctx, event); err != nil {
		s.logger.Error("Failed to publish BasketPriced event",
			zap.String("request_id", reqID),
			zap.Error(err))
	}
}

func (s *BasketService) validate(lines []models.BasketLine) error {
	if s.limits.MaxLines > 0 && len(lines) > s.limits.MaxLines {
		return fmt.Errorf("%w: %d lines exceeds limit of %d", ErrInvalidBasket, len(lines), s.limits.MaxLines)
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return fmt.Errorf("%w: product %d has quantity %d", ErrInvalidBasket, line.ProductID, line.Quantity)
		}
		if s.limits.MaxLineQuantity > 0 && line.Quantity > s.limits.MaxLineQuantity {
			return fmt.Errorf("%w: product %d quantity %d exceeds limit of %d",
				ErrInvalidBasket, line.ProductID, line.Quantity, s.limits.MaxLineQuantity)
		}
	}
	return nil
}

func toBasketLines(items []LineRequest) []models.BasketLine {
	lines := make([]models.BasketLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.BasketLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

func requestID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}
