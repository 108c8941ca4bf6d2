package pricing

import (
	"basket-service/internal/models"

	"github.com/shopspring/decimal"
)

// EnrichedLine is a basket line joined against the catalogue.
// UnitPrice and ExtendedPrice are invalid when the product is unknown.
type EnrichedLine struct {
	models.BasketLine
	Name          string              `json:"name"`
	UnitPrice     decimal.NullDecimal `json:"unit_price"`
	ExtendedPrice decimal.NullDecimal `json:"extended_price"`
}

// Found reports whether the line's product exists in the catalogue
func (l EnrichedLine) Found() bool {
	return l.UnitPrice.Valid
}

// Resolve enriches each basket line with name and prices, one output line per
// input line in input order. Duplicate product ids are not merged.
func Resolve(products []models.Product, lines []models.BasketLine) []EnrichedLine {
	index := make(map[int64]models.Product, len(products))
	for _, p := range products {
		if _, seen := index[p.ID]; !seen {
			index[p.ID] = p
		}
	}

	enriched := make([]EnrichedLine, 0, len(lines))
	for _, line := range lines {
		el := EnrichedLine{BasketLine: line}
		if p, ok := index[line.ProductID]; ok {
			el.Name = p.Name
			el.UnitPrice = decimal.NewNullDecimal(p.Price)
			el.ExtendedPrice = decimal.NewNullDecimal(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		enriched = append(enriched, el)
	}
	return enriched
}
