package models

import "time"

// Event types
const (
	EventTypeBasketPriced     = "BASKET_PRICED"
	EventTypeCatalogueUpdated = "CATALOGUE_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BasketPricedEvent published after a basket has been priced
type BasketPricedEvent struct {
	BaseEvent
	RequestID     string           `json:"request_id"`
	Lines         []PricedLineData `json:"lines"`
	Subtotal      string           `json:"subtotal"`
	DiscountTotal string           `json:"discount_total"`
	Total         string           `json:"total"`
	ItemCount     int              `json:"item_count"`
}

// PricedLineData represents a priced line in events
type PricedLineData struct {
	ProductID      int64  `json:"product_id"`
	Quantity       int    `json:"quantity"`
	ExtendedPrice  string `json:"extended_price,omitempty"`
	DiscountAmount string `json:"discount_amount,omitempty"`
	DiscountLabel  string `json:"discount_label,omitempty"`
}

// CatalogueUpdatedEvent published when products or offers change
type CatalogueUpdatedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}
