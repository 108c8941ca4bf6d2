package basket

import (
	"testing"

	"basket-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var products = []models.Product{
	{ID: 1, Name: "Baked Beans", Price: decimal.RequireFromString("0.99")},
	{ID: 2, Name: "Biscuits", Price: decimal.RequireFromString("1.20")},
}

func TestModifyAddsNewProduct(t *testing.T) {
	got := Modify(nil, products, 2, 1)

	assert.Equal(t, []models.BasketLine{{ProductID: 2, Quantity: 1}}, got)
}

func TestModifyIncrementsExistingLine(t *testing.T) {
	lines := []models.BasketLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}}

	got := Modify(lines, products, 1, 2)

	assert.Equal(t, []models.BasketLine{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 1}}, got)
	assert.Equal(t, 1, lines[0].Quantity, "input must not be modified")
}

func TestModifyRemovesLineBelowOne(t *testing.T) {
	lines := []models.BasketLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}}

	got := Modify(lines, products, 1, -1)

	assert.Equal(t, []models.BasketLine{{ProductID: 2, Quantity: 1}}, got)
	assert.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ProductID)
}

func TestModifyIgnoresUnknownProduct(t *testing.T) {
	lines := []models.BasketLine{{ProductID: 1, Quantity: 1}}

	got := Modify(lines, products, 42, 1)

	assert.Equal(t, lines, got)
}

func TestModifyIgnoresRemovalOfAbsentLine(t *testing.T) {
	got := Modify(nil, products, 1, -1)

	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	got := Clear()

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
