package basket

import "basket-service/internal/models"

// Modify returns a copy of lines with delta applied to productID.
// Products missing from the catalogue are ignored. A line whose quantity
// drops below 1 is removed; a product not yet in the basket is appended
// when delta is positive.
func Modify(lines []models.BasketLine, products []models.Product, productID int64, delta int) []models.BasketLine {
	out := make([]models.BasketLine, len(lines))
	copy(out, lines)

	if !inCatalogue(products, productID) {
		return out
	}

	for i, line := range out {
		if line.ProductID != productID {
			continue
		}
		out[i].Quantity += delta
		if out[i].Quantity < 1 {
			out = append(out[:i], out[i+1:]...)
		}
		return out
	}

	if delta > 0 {
		out = append(out, models.BasketLine{ProductID: productID, Quantity: delta})
	}
	return out
}

// Clear returns an empty basket
func Clear() []models.BasketLine {
	return []models.BasketLine{}
}

func inCatalogue(products []models.Product, productID int64) bool {
	for _, p := range products {
		if p.ID == productID {
			return true
		}
	}
	return false
}
