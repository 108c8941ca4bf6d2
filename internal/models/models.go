package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalogue
type Product struct {
	ID        int64           `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	CreatedAt time.Time       `db:"created_at" json:"-"`
}

// BasketLine is a product and the quantity a shopper intends to buy
type BasketLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Offer types as stored in the catalogue
const (
	OfferTypeDiscount = "discount"
	OfferTypeMultibuy = "multibuy"
	OfferTypeCheapest = "cheapest"
)

// OfferRecord is the stored shape of a promotional offer.
// JSON tags follow the catalogue.json file format.
type OfferRecord struct {
	ID         int64               `db:"id" json:"id,omitempty"`
	Type       string              `db:"type" json:"type"`
	ProductID  *int64              `db:"product_id" json:"productid,omitempty"`
	ProductIDs pq.Int64Array       `db:"product_ids" json:"productids,omitempty"`
	Threshold  int                 `db:"threshold" json:"threshold,omitempty"`
	Value      decimal.NullDecimal `db:"value" json:"value,omitempty"`
	CreatedAt  time.Time           `db:"created_at" json:"-"`
}

// Catalogue is a snapshot of products and their offers
type Catalogue struct {
	Products []Product     `json:"products"`
	Offers   []OfferRecord `json:"offers"`
}
