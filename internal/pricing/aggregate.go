package pricing

import (
	"basket-service/internal/models"

	"github.com/shopspring/decimal"
)

// Aggregates are the basket-level totals derived from discounted lines
type Aggregates struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
}

// Aggregate sums extended prices, discounts and quantities. Absent prices
// and discounts count as zero.
func Aggregate(lines []DiscountedLine) Aggregates {
	subtotal := decimal.Zero
	discount := decimal.Zero
	count := 0

	for _, line := range lines {
		if line.ExtendedPrice.Valid {
			subtotal = subtotal.Add(line.ExtendedPrice.Decimal)
		}
		if line.DiscountAmount.Valid {
			discount = discount.Add(line.DiscountAmount.Decimal)
		}
		count += line.Quantity
	}

	return Aggregates{
		Subtotal:      subtotal,
		DiscountTotal: discount,
		Total:         subtotal.Sub(discount),
		ItemCount:     count,
	}
}

// Quote is a fully priced basket
type Quote struct {
	Lines  []DiscountedLine `json:"lines"`
	Totals Aggregates       `json:"totals"`
}

// Price resolves, discounts and aggregates a basket in one call
func Price(products []models.Product, offers []Offer, lines []models.BasketLine) Quote {
	discounted := ApplyOffers(Resolve(products, lines), offers)
	return Quote{
		Lines:  discounted,
		Totals: Aggregate(discounted),
	}
}

// UnknownProducts returns the product ids of lines missing from the catalogue
func (q Quote) UnknownProducts() []int64 {
	var ids []int64
	for _, line := range q.Lines {
		if !line.Found() {
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}
